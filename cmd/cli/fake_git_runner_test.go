package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/temirov/gitpush/internal/execshell"
)

const (
	fakeCommitHashConstant = "0123456789abcdef0123456789abcdef01234567"
	fakeCommitDateConstant = "2024-03-01 10:00:00 +0000"
	fakeAuthorConstant     = "Test User"
	fakeEmailConstant      = "test@example.com"
)

// fakeGitRunner answers git invocations from an in-memory repository model.
type fakeGitRunner struct {
	mutex          sync.Mutex
	remotes        map[string]string
	currentBranch  string
	untrackedFiles []string
	staged         bool
	committed      bool
	commitMessage  string
	pushed         bool
	pushResult     execshell.ExecutionResult
	commands       []string
}

func newFakeGitRunner(untrackedFiles ...string) *fakeGitRunner {
	return &fakeGitRunner{
		remotes:        map[string]string{},
		untrackedFiles: untrackedFiles,
	}
}

func (runner *fakeGitRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()

	arguments := command.Details.Arguments
	runner.commands = append(runner.commands, strings.Join(arguments, " "))
	if len(arguments) == 0 {
		return execshell.ExecutionResult{ExitCode: 129}, nil
	}

	switch arguments[0] {
	case "init":
		if directoryError := os.MkdirAll(filepath.Join(command.Details.WorkingDirectory, ".git"), 0o755); directoryError != nil {
			return execshell.ExecutionResult{}, directoryError
		}
		return execshell.ExecutionResult{}, nil
	case "remote":
		return runner.remote(arguments[1:]), nil
	case "branch":
		return execshell.ExecutionResult{StandardOutput: runner.currentBranch + "\n"}, nil
	case "symbolic-ref":
		runner.currentBranch = strings.TrimPrefix(arguments[len(arguments)-1], "refs/heads/")
		return execshell.ExecutionResult{}, nil
	case "rev-parse", "show-ref":
		if runner.committed {
			return execshell.ExecutionResult{StandardOutput: fakeCommitHashConstant + "\n"}, nil
		}
		return execshell.ExecutionResult{ExitCode: 1}, nil
	case "status":
		return execshell.ExecutionResult{StandardOutput: runner.status()}, nil
	case "add":
		runner.staged = len(runner.untrackedFiles) > 0
		return execshell.ExecutionResult{}, nil
	case "diff":
		if runner.staged {
			return execshell.ExecutionResult{ExitCode: 1}, nil
		}
		return execshell.ExecutionResult{}, nil
	case "commit":
		runner.committed = true
		runner.staged = false
		runner.commitMessage = arguments[len(arguments)-1]
		return execshell.ExecutionResult{StandardOutput: "[main (root-commit)] " + runner.commitMessage + "\n"}, nil
	case "push":
		if runner.pushResult.ExitCode == 0 {
			runner.pushed = true
		}
		return runner.pushResult, nil
	case "log":
		description := strings.Join([]string{fakeCommitHashConstant, fakeAuthorConstant, fakeEmailConstant, fakeCommitDateConstant, runner.commitMessage}, "\x1f")
		return execshell.ExecutionResult{StandardOutput: description}, nil
	case "show":
		return execshell.ExecutionResult{StandardOutput: strings.Join(runner.committedFiles(), "\n") + "\n"}, nil
	case "rev-list":
		if runner.pushed {
			return execshell.ExecutionResult{StandardOutput: "0\n"}, nil
		}
		return execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: no upstream configured for branch 'main'"}, nil
	default:
		return execshell.ExecutionResult{ExitCode: 1, StandardError: "unexpected command"}, nil
	}
}

func (runner *fakeGitRunner) remote(arguments []string) execshell.ExecutionResult {
	switch arguments[0] {
	case "get-url":
		remoteURL, exists := runner.remotes[arguments[1]]
		if !exists {
			return execshell.ExecutionResult{ExitCode: 2, StandardError: "error: No such remote '" + arguments[1] + "'"}
		}
		return execshell.ExecutionResult{StandardOutput: remoteURL + "\n"}
	case "add":
		runner.remotes[arguments[1]] = arguments[2]
		return execshell.ExecutionResult{}
	default:
		return execshell.ExecutionResult{ExitCode: 1}
	}
}

func (runner *fakeGitRunner) status() string {
	if runner.committed {
		return ""
	}
	var builder strings.Builder
	for _, untrackedFile := range runner.untrackedFiles {
		prefix := "?? "
		if runner.staged {
			prefix = "A  "
		}
		builder.WriteString(prefix + untrackedFile + "\x00")
	}
	return builder.String()
}

func (runner *fakeGitRunner) committedFiles() []string {
	if !runner.committed {
		return nil
	}
	return runner.untrackedFiles
}

func (runner *fakeGitRunner) executed(prefix string) bool {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	for _, command := range runner.commands {
		if strings.HasPrefix(command, prefix) {
			return true
		}
	}
	return false
}

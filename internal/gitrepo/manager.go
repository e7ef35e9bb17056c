package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/gitpush/internal/execshell"
)

const (
	gitExecutorNotConfiguredMessageConstant  = "git executor not configured"
	repositoryPathRequiredMessageConstant    = "repository path must be provided"
	remoteLookupErrorTemplateConstant        = "failed to read remote %s: %w"
	revisionLookupErrorTemplateConstant      = "failed to resolve %s: %w"
	branchLookupErrorTemplateConstant        = "failed to look up branch %s: %w"
	stagedChangesErrorTemplateConstant       = "failed to inspect staged changes: %w"
	commitInfoParseErrorTemplateConstant     = "unexpected commit description %q"
	unpushedCountParseErrorTemplateConstant  = "unexpected commit count %q: %w"
	noSuchRemoteMarkerConstant               = "no such remote"
	noUpstreamMessageConstant                = "no upstream configured"
	headReferenceConstant                    = "HEAD"
	localBranchReferencePrefixConstant       = "refs/heads/"
	upstreamRangeConstant                    = "@{u}..HEAD"
	commitFieldSeparatorConstant             = "\x1f"
	commitFieldCountConstant                 = 5
	commitDescriptionFormatConstant          = "--pretty=format:%H%x1f%an%x1f%ae%x1f%ci%x1f%s"
	commitFilesFormatConstant                = "--pretty=format:"
	statusEntrySeparatorConstant             = "\x00"
	statusEntryPrefixLengthConstant          = 3
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledValueConstant   = "0"
	gitRemoteMissingExitCodeConstant         = 2
	gitNegativeAnswerExitCodeConstant        = 1
)

// ErrGitExecutorNotConfigured indicates a nil executor was supplied to NewRepositoryManager.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessageConstant)

// ErrRepositoryPathRequired indicates an empty repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrNoUpstream indicates the current branch does not track a remote branch yet.
var ErrNoUpstream = errors.New(noUpstreamMessageConstant)

var noUpstreamMarkers = []string{
	noUpstreamMessageConstant,
	"no upstream branch",
	"does not point to a branch",
}

// GitExecutor runs git with explicit arguments.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// StatusEntry is one line of `git status --porcelain`.
type StatusEntry struct {
	IndexStatus    string
	WorktreeStatus string
	Path           string
	OriginalPath   string
}

// Untracked reports whether the entry describes a file git does not track yet.
func (entry StatusEntry) Untracked() bool {
	return entry.IndexStatus == "?"
}

// CommitInfo describes a single commit.
type CommitInfo struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	Date        string
	Subject     string
}

// Author formats the author as "Name <email>".
func (info CommitInfo) Author() string {
	if len(info.AuthorEmail) == 0 {
		return info.AuthorName
	}
	return fmt.Sprintf("%s <%s>", info.AuthorName, info.AuthorEmail)
}

// RepositoryManager runs typed git operations against a working copy.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// Initialize runs `git init` inside repositoryPath.
func (manager *RepositoryManager) Initialize(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.run(executionContext, repositoryPath, nil, "init")
	return executionError
}

// RemoteURL returns the URL configured for remoteName. The boolean is false when the remote does not exist.
func (manager *RepositoryManager) RemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, bool, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, "remote", "get-url", remoteName)
	if executionError != nil {
		if isMissingRemote(executionError) {
			return "", false, nil
		}
		return "", false, fmt.Errorf(remoteLookupErrorTemplateConstant, remoteName, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), true, nil
}

// AddRemote registers remoteName pointing at remoteURL.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	_, executionError := manager.run(executionContext, repositoryPath, nil, "remote", "add", remoteName, remoteURL)
	return executionError
}

// CurrentBranch returns the checked-out branch name, or an empty string for a detached HEAD.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, "branch", "--show-current")
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// HasCommits reports whether HEAD resolves to a commit. It is false on an unborn branch.
func (manager *RepositoryManager) HasCommits(executionContext context.Context, repositoryPath string) (bool, error) {
	return manager.answer(executionContext, repositoryPath, revisionLookupErrorTemplateConstant, headReferenceConstant, "rev-parse", "--verify", "--quiet", headReferenceConstant)
}

// BranchExists reports whether a local branch named branchName exists.
func (manager *RepositoryManager) BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	return manager.answer(executionContext, repositoryPath, branchLookupErrorTemplateConstant, branchName, "show-ref", "--verify", "--quiet", localBranchReferencePrefixConstant+branchName)
}

// PointHeadAt makes HEAD refer to branchName without touching the working tree. It is used on unborn branches.
func (manager *RepositoryManager) PointHeadAt(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := manager.run(executionContext, repositoryPath, nil, "symbolic-ref", headReferenceConstant, localBranchReferencePrefixConstant+branchName)
	return executionError
}

// SwitchBranch checks out branchName, creating it from HEAD when create is true.
func (manager *RepositoryManager) SwitchBranch(executionContext context.Context, repositoryPath string, branchName string, create bool) error {
	arguments := []string{"switch"}
	if create {
		arguments = append(arguments, "-c")
	}
	arguments = append(arguments, branchName)
	_, executionError := manager.run(executionContext, repositoryPath, nil, arguments...)
	return executionError
}

// Status lists working tree changes, limited to paths when any are given.
func (manager *RepositoryManager) Status(executionContext context.Context, repositoryPath string, paths []string) ([]StatusEntry, error) {
	arguments := []string{"status", "--porcelain", "-z", "--untracked-files=all"}
	if len(paths) > 0 {
		arguments = append(append(arguments, "--"), paths...)
	}
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, arguments...)
	if executionError != nil {
		return nil, executionError
	}
	return ParseStatus(executionResult.StandardOutput), nil
}

// Stage adds paths to the index, or every change when paths is empty.
func (manager *RepositoryManager) Stage(executionContext context.Context, repositoryPath string, paths []string) error {
	arguments := []string{"add"}
	if len(paths) == 0 {
		arguments = append(arguments, "--all")
	} else {
		arguments = append(append(arguments, "--"), paths...)
	}
	_, executionError := manager.run(executionContext, repositoryPath, nil, arguments...)
	return executionError
}

// HasStagedChanges reports whether the index differs from HEAD.
func (manager *RepositoryManager) HasStagedChanges(executionContext context.Context, repositoryPath string) (bool, error) {
	_, executionError := manager.run(executionContext, repositoryPath, nil, "diff", "--cached", "--quiet")
	if executionError == nil {
		return false, nil
	}
	if exitCode, isFailure := execshell.ExitCode(executionError); isFailure && exitCode == gitNegativeAnswerExitCodeConstant {
		return true, nil
	}
	return false, fmt.Errorf(stagedChangesErrorTemplateConstant, executionError)
}

// Commit records the index with message.
func (manager *RepositoryManager) Commit(executionContext context.Context, repositoryPath string, message string) error {
	_, executionError := manager.run(executionContext, repositoryPath, nil, "commit", "-m", message)
	return executionError
}

// Push publishes branchName to remoteName and records it as upstream. Interactive credential prompts are disabled.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string, force bool) error {
	arguments := []string{"push"}
	if force {
		arguments = append(arguments, "--force")
	}
	arguments = append(arguments, "-u", remoteName, branchName)
	environment := map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptDisabledValueConstant}
	_, executionError := manager.run(executionContext, repositoryPath, environment, arguments...)
	return executionError
}

// LastCommit describes the commit HEAD points to.
func (manager *RepositoryManager) LastCommit(executionContext context.Context, repositoryPath string) (CommitInfo, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, "log", "-1", commitDescriptionFormatConstant)
	if executionError != nil {
		return CommitInfo{}, executionError
	}

	description := strings.TrimRight(executionResult.StandardOutput, "\r\n")
	fields := strings.SplitN(description, commitFieldSeparatorConstant, commitFieldCountConstant)
	if len(fields) != commitFieldCountConstant {
		return CommitInfo{}, fmt.Errorf(commitInfoParseErrorTemplateConstant, description)
	}
	return CommitInfo{
		Hash:        fields[0],
		AuthorName:  fields[1],
		AuthorEmail: fields[2],
		Date:        fields[3],
		Subject:     fields[4],
	}, nil
}

// CommitFiles lists the paths touched by the HEAD commit.
func (manager *RepositoryManager) CommitFiles(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, "show", "-z", "--name-only", commitFilesFormatConstant, headReferenceConstant)
	if executionError != nil {
		return nil, executionError
	}
	return ParseNameList(executionResult.StandardOutput), nil
}

// UnpushedCommitCount counts commits on HEAD that the upstream branch does not have yet.
// It returns ErrNoUpstream when the branch has never been pushed with -u.
func (manager *RepositoryManager) UnpushedCommitCount(executionContext context.Context, repositoryPath string) (int, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, "rev-list", "--count", upstreamRangeConstant)
	if executionError != nil {
		if isMissingUpstream(executionError) {
			return 0, ErrNoUpstream
		}
		return 0, executionError
	}
	trimmedOutput := strings.TrimSpace(executionResult.StandardOutput)
	count, parseError := strconv.Atoi(trimmedOutput)
	if parseError != nil {
		return 0, fmt.Errorf(unpushedCountParseErrorTemplateConstant, trimmedOutput, parseError)
	}
	return count, nil
}

// Diff returns the zero-context working tree diff for filePath.
func (manager *RepositoryManager) Diff(executionContext context.Context, repositoryPath string, filePath string) (string, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, "diff", "--unified=0", "--", filePath)
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

// ParseStatus decodes `git status --porcelain -z` output.
func ParseStatus(output string) []StatusEntry {
	records := strings.Split(output, statusEntrySeparatorConstant)
	entries := make([]StatusEntry, 0, len(records))
	for recordIndex := 0; recordIndex < len(records); recordIndex++ {
		record := records[recordIndex]
		if len(record) < statusEntryPrefixLengthConstant+1 {
			continue
		}
		entry := StatusEntry{
			IndexStatus:    strings.TrimSpace(record[0:1]),
			WorktreeStatus: strings.TrimSpace(record[1:2]),
			Path:           record[statusEntryPrefixLengthConstant:],
		}
		if (entry.IndexStatus == "R" || entry.IndexStatus == "C") && recordIndex+1 < len(records) {
			recordIndex++
			entry.OriginalPath = records[recordIndex]
		}
		entries = append(entries, entry)
	}
	return entries
}

// ParseNameList decodes NUL-separated path output such as `git show -z --name-only`.
// Paths are kept verbatim; only empty records are dropped.
func ParseNameList(output string) []string {
	var paths []string
	for _, record := range strings.Split(output, statusEntrySeparatorConstant) {
		trimmedRecord := strings.Trim(record, "\n")
		if len(trimmedRecord) == 0 {
			continue
		}
		paths = append(paths, trimmedRecord)
	}
	return paths
}

func (manager *RepositoryManager) answer(executionContext context.Context, repositoryPath string, errorTemplate string, subject string, arguments ...string) (bool, error) {
	_, executionError := manager.run(executionContext, repositoryPath, nil, arguments...)
	if executionError == nil {
		return true, nil
	}
	if exitCode, isFailure := execshell.ExitCode(executionError); isFailure && exitCode == gitNegativeAnswerExitCodeConstant {
		return false, nil
	}
	return false, fmt.Errorf(errorTemplate, subject, executionError)
}

func (manager *RepositoryManager) run(executionContext context.Context, repositoryPath string, environment map[string]string, arguments ...string) (execshell.ExecutionResult, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return execshell.ExecutionResult{}, ErrRepositoryPathRequired
	}
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     trimmedRepositoryPath,
		EnvironmentVariables: environment,
	})
}

func isMissingRemote(executionError error) bool {
	var failedError execshell.CommandFailedError
	if !errors.As(executionError, &failedError) {
		return false
	}
	if failedError.Result.ExitCode == gitRemoteMissingExitCodeConstant {
		return true
	}
	return strings.Contains(strings.ToLower(failedError.Result.StandardError), noSuchRemoteMarkerConstant)
}

func isMissingUpstream(executionError error) bool {
	var failedError execshell.CommandFailedError
	if !errors.As(executionError, &failedError) {
		return false
	}
	standardError := strings.ToLower(failedError.Result.StandardError)
	for _, marker := range noUpstreamMarkers {
		if strings.Contains(standardError, marker) {
			return true
		}
	}
	return false
}

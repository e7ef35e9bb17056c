package publish_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gitpush/internal/execshell"
	"github.com/temirov/gitpush/internal/filesystem"
	"github.com/temirov/gitpush/internal/gitrepo"
	"github.com/temirov/gitpush/internal/publish"
	"github.com/temirov/gitpush/internal/report"
)

const (
	testRemoteURLConstant      = "https://example.com/r.git"
	testOtherRemoteURLConstant = "https://example.com/other.git"
	testBranchConstant         = "main"
)

type serviceHarness struct {
	service    *publish.Service
	repository *fakeRepository
	output     *bytes.Buffer
	logs       *observer.ObservedLogs
}

func newServiceHarness(testInstance *testing.T, repository *fakeRepository) serviceHarness {
	collector, collectorError := report.NewCollector(repository, filesystem.OSFileSystem{}, func() time.Time {
		return time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	})
	require.NoError(testInstance, collectorError)

	observedCore, observedLogs := observer.New(zapcore.InfoLevel)
	output := &bytes.Buffer{}
	service, serviceError := publish.NewService(publish.ServiceDependencies{
		Repository: repository,
		FileSystem: filesystem.OSFileSystem{},
		Reporter:   collector,
		Logger:     zap.New(observedCore),
		Output:     output,
	})
	require.NoError(testInstance, serviceError)

	return serviceHarness{service: service, repository: repository, output: output, logs: observedLogs}
}

func configFor(repositoryPath string) publish.RepositoryConfig {
	return publish.RepositoryConfig{
		LocalPath:   repositoryPath,
		RemoteURL:   testRemoteURLConstant,
		BranchName:  testBranchConstant,
		TargetFiles: []string{publish.AllFilesToken},
	}
}

func statuses(results []publish.StepResult) map[publish.Step]publish.StepStatus {
	collected := map[publish.Step]publish.StepStatus{}
	for _, result := range results {
		collected[result.Step] = result.Status
	}
	return collected
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	repository := newFakeRepository(testInstance.TempDir())
	collector, collectorError := report.NewCollector(repository, filesystem.OSFileSystem{}, nil)
	require.NoError(testInstance, collectorError)

	testCases := []struct {
		name          string
		dependencies  publish.ServiceDependencies
		expectedError error
	}{
		{name: "repository", dependencies: publish.ServiceDependencies{FileSystem: filesystem.OSFileSystem{}, Reporter: collector}, expectedError: publish.ErrRepositoryNotConfigured},
		{name: "file_system", dependencies: publish.ServiceDependencies{Repository: repository, Reporter: collector}, expectedError: publish.ErrFileSystemNotConfigured},
		{name: "reporter", dependencies: publish.ServiceDependencies{Repository: repository, FileSystem: filesystem.OSFileSystem{}}, expectedError: publish.ErrReporterNotConfigured},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, serviceError := publish.NewService(testCase.dependencies)
			require.ErrorIs(testInstance, serviceError, testCase.expectedError)
			require.Nil(testInstance, service)
		})
	}
}

func TestRunOnFreshDirectory(testInstance *testing.T) {
	repositoryPath := filepath.Join(testInstance.TempDir(), "site")
	harness := newServiceHarness(testInstance, newFakeRepository(repositoryPath))

	outcome := harness.service.Run(context.Background(), configFor(repositoryPath), publish.RunOptions{})

	require.NoError(testInstance, outcome.Err)
	require.Equal(testInstance, map[publish.Step]publish.StepStatus{
		publish.StepInitialize: publish.StepStatusApplied,
		publish.StepRemote:     publish.StepStatusApplied,
		publish.StepBranch:     publish.StepStatusApplied,
		publish.StepStage:      publish.StepStatusSkipped,
		publish.StepCommit:     publish.StepStatusSkipped,
		publish.StepPush:       publish.StepStatusSkipped,
	}, statuses(outcome.Steps))
	require.Equal(testInstance, testRemoteURLConstant, harness.repository.remotes[publish.DefaultRemoteName])
	require.Equal(testInstance, testBranchConstant, harness.repository.currentBranch)
	require.Equal(testInstance, 1, harness.repository.count(callPointHeadAt))
	require.Zero(testInstance, harness.repository.count(callPush))
	require.True(testInstance, outcome.Report.LastCommit.Available())
	require.Nil(testInstance, outcome.Report.LastCommit.Value)

	exists, existsError := filesystem.Exists(filesystem.OSFileSystem{}, filepath.Join(repositoryPath, ".git"))
	require.NoError(testInstance, existsError)
	require.True(testInstance, exists)

	var rendered bytes.Buffer
	require.NoError(testInstance, report.TextRenderer{}.Render(&rendered, outcome.Report))
	require.Contains(testInstance, rendered.String(), "no commits yet")
	require.Contains(testInstance, harness.output.String(), "INITIALIZE-DONE: "+repositoryPath)
	require.Contains(testInstance, harness.output.String(), "PUSH-SKIP: "+repositoryPath)
}

func TestRunCommitsAndPushesModifiedFile(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, repositoryError := newInitializedFakeRepository(repositoryPath, testBranchConstant)
	require.NoError(testInstance, repositoryError)
	repository.remotes[publish.DefaultRemoteName] = testRemoteURLConstant
	repository.pushedCommits = 1
	repository.changes = []gitrepo.StatusEntry{{IndexStatus: " ", WorktreeStatus: "M", Path: "index.html"}}
	harness := newServiceHarness(testInstance, repository)

	config := configFor(repositoryPath)
	config.CommitMessage = "update"
	outcome := harness.service.Run(context.Background(), config, publish.RunOptions{})

	require.NoError(testInstance, outcome.Err)
	require.Equal(testInstance, publish.StepStatusApplied, statuses(outcome.Steps)[publish.StepStage])
	require.Equal(testInstance, publish.StepStatusApplied, statuses(outcome.Steps)[publish.StepCommit])
	require.Equal(testInstance, publish.StepStatusApplied, statuses(outcome.Steps)[publish.StepPush])
	require.Equal(testInstance, []string{"initial", "update"}, repository.commits)
	require.Equal(testInstance, []string{"index.html"}, outcome.Steps[3].Paths)

	require.NotNil(testInstance, outcome.Report.LastCommit.Value)
	require.Equal(testInstance, "update", outcome.Report.LastCommit.Value.Subject)
	require.Equal(testInstance, []string{"index.html"}, outcome.Report.CommitFiles.Value)
	require.Equal(testInstance, 0, outcome.Report.UnpushedCommits.Value)
}

func TestRunIsIdempotent(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, repositoryError := newInitializedFakeRepository(repositoryPath, "master")
	require.NoError(testInstance, repositoryError)
	repository.changes = []gitrepo.StatusEntry{{IndexStatus: "?", WorktreeStatus: "?", Path: "index.html"}}
	harness := newServiceHarness(testInstance, repository)

	firstOutcome := harness.service.Run(context.Background(), configFor(repositoryPath), publish.RunOptions{})
	require.NoError(testInstance, firstOutcome.Err)
	require.Equal(testInstance, publish.StepStatusApplied, statuses(firstOutcome.Steps)[publish.StepCommit])

	secondOutcome := harness.service.Run(context.Background(), configFor(repositoryPath), publish.RunOptions{})
	require.NoError(testInstance, secondOutcome.Err)
	require.Equal(testInstance, map[publish.Step]publish.StepStatus{
		publish.StepInitialize: publish.StepStatusSkipped,
		publish.StepRemote:     publish.StepStatusSkipped,
		publish.StepBranch:     publish.StepStatusSkipped,
		publish.StepStage:      publish.StepStatusSkipped,
		publish.StepCommit:     publish.StepStatusSkipped,
		publish.StepPush:       publish.StepStatusApplied,
	}, statuses(secondOutcome.Steps))
	require.Equal(testInstance, 1, repository.count(callAddRemote))
	require.Equal(testInstance, 1, repository.count(callCreateBranch))
	require.Equal(testInstance, 1, repository.count(callCommit))
	require.Equal(testInstance, 2, repository.count(callPush))
	require.Equal(testInstance, firstOutcome.Report.LastCommit.Value, secondOutcome.Report.LastCommit.Value)
	require.Equal(testInstance, firstOutcome.Report.Branch, secondOutcome.Report.Branch)
}

func TestEnsureBranchOnCurrentBranchOnlyQueries(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, repositoryError := newInitializedFakeRepository(repositoryPath, testBranchConstant)
	require.NoError(testInstance, repositoryError)
	harness := newServiceHarness(testInstance, repository)

	result, branchError := harness.service.EnsureBranch(context.Background(), configFor(repositoryPath).Normalized())

	require.NoError(testInstance, branchError)
	require.Equal(testInstance, publish.StepStatusSkipped, result.Status)
	require.Equal(testInstance, []string{callCurrentBranch}, repository.calls)
}

func TestEnsureBranchSwitchesOrCreates(testInstance *testing.T) {
	testCases := []struct {
		name         string
		branchExists bool
		expectedCall string
	}{
		{name: "existing_branch", branchExists: true, expectedCall: callSwitchBranch},
		{name: "new_branch", branchExists: false, expectedCall: callCreateBranch},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryPath := testInstance.TempDir()
			repository, repositoryError := newInitializedFakeRepository(repositoryPath, "master")
			require.NoError(testInstance, repositoryError)
			repository.branches[testBranchConstant] = testCase.branchExists
			harness := newServiceHarness(testInstance, repository)

			result, branchError := harness.service.EnsureBranch(context.Background(), configFor(repositoryPath).Normalized())

			require.NoError(testInstance, branchError)
			require.Equal(testInstance, publish.StepStatusApplied, result.Status)
			require.Equal(testInstance, []string{callCurrentBranch, callHasCommits, callBranchExists, testCase.expectedCall}, repository.calls)
			require.Equal(testInstance, testBranchConstant, repository.currentBranch)
		})
	}
}

func TestEnsureBranchReportsConflicts(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, repositoryError := newInitializedFakeRepository(repositoryPath, "master")
	require.NoError(testInstance, repositoryError)
	repository.branches[testBranchConstant] = true
	repository.failures[callSwitchBranch] = execshell.CommandFailedError{
		Result: execshell.ExecutionResult{ExitCode: 1, StandardError: "error: Your local changes to the following files would be overwritten by checkout:\n\tindex.html\n"},
	}
	harness := newServiceHarness(testInstance, repository)

	_, branchError := harness.service.EnsureBranch(context.Background(), configFor(repositoryPath).Normalized())

	require.ErrorIs(testInstance, branchError, publish.ErrBranch)
	var stepError publish.StepError
	require.ErrorAs(testInstance, branchError, &stepError)
	require.Contains(testInstance, stepError.Diagnostic(), "would be overwritten by checkout")
}

func TestEnsureRemoteAddsOnlyOnce(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, repositoryError := newInitializedFakeRepository(repositoryPath, testBranchConstant)
	require.NoError(testInstance, repositoryError)
	harness := newServiceHarness(testInstance, repository)
	config := configFor(repositoryPath).Normalized()

	firstResult, firstError := harness.service.EnsureRemote(context.Background(), config)
	require.NoError(testInstance, firstError)
	require.Equal(testInstance, publish.StepStatusApplied, firstResult.Status)

	secondResult, secondError := harness.service.EnsureRemote(context.Background(), config)
	require.NoError(testInstance, secondError)
	require.Equal(testInstance, publish.StepStatusSkipped, secondResult.Status)
	require.Equal(testInstance, 1, repository.count(callAddRemote))
}

func TestEnsureRemoteRejectsInvalidConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name            string
		existingURL     string
		requestedURL    string
		expectedMessage string
	}{
		{name: "different_existing_url", existingURL: testOtherRemoteURLConstant, requestedURL: testRemoteURLConstant, expectedMessage: "already points at " + testOtherRemoteURLConstant},
		{name: "malformed_url", requestedURL: "https://example.com/", expectedMessage: "does not name a repository"},
		{name: "whitespace_url", requestedURL: "not a url", expectedMessage: "whitespace"},
		{name: "missing_url", requestedURL: "", expectedMessage: "no remote URL was provided"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryPath := testInstance.TempDir()
			repository, repositoryError := newInitializedFakeRepository(repositoryPath, testBranchConstant)
			require.NoError(testInstance, repositoryError)
			if len(testCase.existingURL) > 0 {
				repository.remotes[publish.DefaultRemoteName] = testCase.existingURL
			}
			harness := newServiceHarness(testInstance, repository)
			config := configFor(repositoryPath)
			config.RemoteURL = testCase.requestedURL

			_, remoteError := harness.service.EnsureRemote(context.Background(), config.Normalized())

			require.ErrorIs(testInstance, remoteError, publish.ErrRemoteConfig)
			require.Contains(testInstance, remoteError.Error(), testCase.expectedMessage)
			require.Zero(testInstance, repository.count(callAddRemote))
			if len(testCase.existingURL) > 0 {
				require.Equal(testInstance, testCase.existingURL, repository.remotes[publish.DefaultRemoteName])
			}
		})
	}
}

func TestRunAbortsAfterRemoteFailureButReports(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, repositoryError := newInitializedFakeRepository(repositoryPath, "master")
	require.NoError(testInstance, repositoryError)
	repository.remotes[publish.DefaultRemoteName] = testOtherRemoteURLConstant
	repository.changes = []gitrepo.StatusEntry{{IndexStatus: " ", WorktreeStatus: "M", Path: "index.html"}}
	harness := newServiceHarness(testInstance, repository)

	outcome := harness.service.Run(context.Background(), configFor(repositoryPath), publish.RunOptions{})

	require.ErrorIs(testInstance, outcome.Err, publish.ErrRemoteConfig)
	var mismatchError publish.RemoteMismatchError
	require.ErrorAs(testInstance, outcome.Err, &mismatchError)
	require.Equal(testInstance, map[publish.Step]publish.StepStatus{
		publish.StepInitialize: publish.StepStatusSkipped,
		publish.StepRemote:     publish.StepStatusFailed,
		publish.StepBranch:     publish.StepStatusNotRun,
		publish.StepStage:      publish.StepStatusNotRun,
		publish.StepCommit:     publish.StepStatusNotRun,
		publish.StepPush:       publish.StepStatusNotRun,
	}, statuses(outcome.Steps))
	require.Len(testInstance, outcome.Steps, 6)
	require.Zero(testInstance, repository.count(callBranchExists))
	require.Zero(testInstance, repository.count(callStage))
	require.Equal(testInstance, "master", outcome.Report.Branch.Value)
	require.Contains(testInstance, harness.output.String(), "REMOTE-FAILED: "+repositoryPath)
	require.Contains(testInstance, harness.output.String(), "PUSH-NOT-RUN: "+repositoryPath)
}

func TestStageChangesWithNamedFiles(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, repositoryError := newInitializedFakeRepository(repositoryPath, testBranchConstant)
	require.NoError(testInstance, repositoryError)
	require.NoError(testInstance, filesystem.OSFileSystem{}.WriteFile(filepath.Join(repositoryPath, "index.html"), []byte("<html/>"), 0o644))
	repository.changes = []gitrepo.StatusEntry{
		{IndexStatus: " ", WorktreeStatus: "M", Path: "index.html"},
		{IndexStatus: " ", WorktreeStatus: "D", Path: "old.css"},
		{IndexStatus: "?", WorktreeStatus: "?", Path: "notes.txt"},
	}
	harness := newServiceHarness(testInstance, repository)
	config := configFor(repositoryPath)
	config.TargetFiles = []string{"index.html", "old.css"}

	result, stageError := harness.service.StageChanges(context.Background(), config.Normalized())

	require.NoError(testInstance, stageError)
	require.Equal(testInstance, []string{"index.html", "old.css"}, result.Paths)
	require.Equal(testInstance, []gitrepo.StatusEntry{{IndexStatus: "?", WorktreeStatus: "?", Path: "notes.txt"}}, repository.changes)
}

func TestStageChangesAllTokenWinsOverNamedFiles(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, repositoryError := newInitializedFakeRepository(repositoryPath, testBranchConstant)
	require.NoError(testInstance, repositoryError)
	repository.changes = []gitrepo.StatusEntry{
		{IndexStatus: "?", WorktreeStatus: "?", Path: "notes.txt"},
		{IndexStatus: " ", WorktreeStatus: "M", Path: "index.html"},
	}
	harness := newServiceHarness(testInstance, repository)
	config := configFor(repositoryPath)
	config.TargetFiles = []string{"all", "missing.md"}

	result, stageError := harness.service.StageChanges(context.Background(), config.Normalized())

	require.NoError(testInstance, stageError)
	require.Equal(testInstance, publish.StepStatusApplied, result.Status)
	require.ElementsMatch(testInstance, []string{"notes.txt", "index.html"}, result.Paths)
	require.Empty(testInstance, repository.changes)
}

func TestStageChangesRejectsMissingFile(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, repositoryError := newInitializedFakeRepository(repositoryPath, testBranchConstant)
	require.NoError(testInstance, repositoryError)
	harness := newServiceHarness(testInstance, repository)
	config := configFor(repositoryPath)
	config.TargetFiles = []string{"missing.txt"}

	_, stageError := harness.service.StageChanges(context.Background(), config.Normalized())

	require.ErrorIs(testInstance, stageError, publish.ErrStaging)
	var missingError publish.MissingTargetError
	require.ErrorAs(testInstance, stageError, &missingError)
	require.Equal(testInstance, "missing.txt", missingError.Path)
	require.Zero(testInstance, repository.count(callStage))
}

func TestPushFailureKeepsCommitAndStillReports(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, repositoryError := newInitializedFakeRepository(repositoryPath, testBranchConstant)
	require.NoError(testInstance, repositoryError)
	repository.remotes[publish.DefaultRemoteName] = testRemoteURLConstant
	repository.changes = []gitrepo.StatusEntry{{IndexStatus: " ", WorktreeStatus: "M", Path: "index.html"}}
	repository.pushError = execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"push", "-u", "origin", "main"}}},
		Result:  execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: unable to access 'https://example.com/r.git/': Could not resolve host: example.com\n"},
	}
	harness := newServiceHarness(testInstance, repository)
	config := configFor(repositoryPath)
	config.CommitMessage = "update"

	outcome := harness.service.Run(context.Background(), config, publish.RunOptions{})

	require.ErrorIs(testInstance, outcome.Err, publish.ErrPush)
	var pushError publish.PushError
	require.ErrorAs(testInstance, outcome.Err, &pushError)
	require.Equal(testInstance, publish.PushFailureNetwork, pushError.Reason)
	require.Equal(testInstance, publish.StepStatusApplied, statuses(outcome.Steps)[publish.StepCommit])
	require.Equal(testInstance, publish.StepStatusFailed, statuses(outcome.Steps)[publish.StepPush])
	require.Equal(testInstance, []string{"initial", "update"}, repository.commits)
	require.Equal(testInstance, "update", outcome.Report.LastCommit.Value.Subject)
	require.Contains(testInstance, harness.output.String(), "PUSH-FAILED: "+repositoryPath)
	require.Contains(testInstance, harness.output.String(), "Could not resolve host")

	warnings := harness.logs.FilterMessage("Step failed").All()
	require.Len(testInstance, warnings, 1)
	require.Equal(testInstance, zapcore.WarnLevel, warnings[0].Level)
}

func TestCommitFailureSkipsPush(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, repositoryError := newInitializedFakeRepository(repositoryPath, testBranchConstant)
	require.NoError(testInstance, repositoryError)
	repository.remotes[publish.DefaultRemoteName] = testRemoteURLConstant
	repository.changes = []gitrepo.StatusEntry{{IndexStatus: " ", WorktreeStatus: "M", Path: "index.html"}}
	repository.failures[callCommit] = errors.New("hook rejected commit")
	harness := newServiceHarness(testInstance, repository)

	outcome := harness.service.Run(context.Background(), configFor(repositoryPath), publish.RunOptions{})

	require.ErrorIs(testInstance, outcome.Err, publish.ErrCommit)
	require.Equal(testInstance, publish.StepStatusNotRun, statuses(outcome.Steps)[publish.StepPush])
	require.Zero(testInstance, repository.count(callPush))
	require.Contains(testInstance, harness.output.String(), "PUSH-NOT-RUN")
}

func TestStepErrorClasses(testInstance *testing.T) {
	stepError := publish.StepError{Step: publish.StepBranch, Err: errors.New("boom")}

	require.ErrorIs(testInstance, stepError, publish.ErrBranch)
	require.NotErrorIs(testInstance, stepError, publish.ErrPush)
	require.Equal(testInstance, "branch step failed: boom", stepError.Error())
	require.Empty(testInstance, stepError.Diagnostic())
}

func TestClassifyPushFailure(testInstance *testing.T) {
	testCases := []struct {
		diagnostic string
		expected   publish.PushFailureReason
	}{
		{diagnostic: " ! [rejected]        main -> main (fetch first)", expected: publish.PushFailureNonFastForward},
		{diagnostic: "hint: Updates were rejected because the tip of your current branch is behind (non-fast-forward)", expected: publish.PushFailureNonFastForward},
		{diagnostic: "remote: Invalid username or password.\nfatal: Authentication failed for 'https://example.com/r.git/'", expected: publish.PushFailureAuthentication},
		{diagnostic: "git@example.com: Permission denied (publickey).\nfatal: Could not read from remote repository.", expected: publish.PushFailureAuthentication},
		{diagnostic: "fatal: could not read Username for 'https://example.com': terminal prompts disabled", expected: publish.PushFailureAuthentication},
		{diagnostic: "fatal: unable to access 'https://example.com/r.git/': Could not resolve host: example.com", expected: publish.PushFailureNetwork},
		{diagnostic: "ssh: connect to host example.com port 22: Connection refused", expected: publish.PushFailureNetwork},
		{diagnostic: "error: src refspec main does not match any", expected: publish.PushFailureUnknown},
	}

	for _, testCase := range testCases {
		testInstance.Run(string(testCase.expected)+"_"+testCase.diagnostic[:8], func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, publish.ClassifyPushFailure(testCase.diagnostic))
		})
	}
}

func TestRepositoryConfigNormalization(testInstance *testing.T) {
	normalized := publish.RepositoryConfig{LocalPath: " /srv/site ", TargetFiles: []string{" ", "."}}.Normalized()

	require.Equal(testInstance, "/srv/site", normalized.LocalPath)
	require.Equal(testInstance, publish.DefaultRemoteName, normalized.RemoteName)
	require.Equal(testInstance, publish.DefaultBranchName, normalized.BranchName)
	require.Equal(testInstance, publish.DefaultCommitMessage, normalized.CommitMessage)
	require.True(testInstance, normalized.StagesAllFiles())
	require.True(testInstance, publish.RepositoryConfig{TargetFiles: []string{"a.txt", "all"}}.StagesAllFiles())
	require.True(testInstance, publish.RepositoryConfig{TargetFiles: []string{".", "README.md"}}.StagesAllFiles())
	require.False(testInstance, publish.RepositoryConfig{TargetFiles: []string{"a.txt", "b.txt"}}.StagesAllFiles())
	require.True(testInstance, publish.RepositoryConfig{TargetFiles: []string{"ALL"}}.StagesAllFiles())
}

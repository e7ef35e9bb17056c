package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitpush/internal/filesystem"
	"github.com/temirov/gitpush/internal/gitrepo"
	"github.com/temirov/gitpush/internal/report"
)

const (
	repositoryNotConfiguredMessageConstant = "git repository manager not configured"
	fileSystemNotConfiguredMessageConstant = "file system not configured"
	reporterNotConfiguredMessageConstant   = "report collector not configured"
	repositoryPathRequiredMessageConstant  = "repository path must be provided"

	gitMetadataDirectoryNameConstant = ".git"
	repositoryDirectoryPermissions   = 0o755
	pathSeparatorConstant            = "/"

	initializeDoneMessage  = "INITIALIZE-DONE: %s (created git repository)\n"
	initializeSkipMessage  = "INITIALIZE-SKIP: %s (already a git repository)\n"
	remoteDoneMessage      = "REMOTE-DONE: %s %s now %s\n"
	remoteSkipMessage      = "REMOTE-SKIP: %s (%s already %s)\n"
	branchSkipMessage      = "BRANCH-SKIP: %s (already on %s)\n"
	branchUnbornMessage    = "BRANCH-DONE: %s HEAD now points at %s (no commits yet)\n"
	branchSwitchMessage    = "BRANCH-DONE: %s switched to %s\n"
	branchCreateMessage    = "BRANCH-DONE: %s created and switched to %s\n"
	stageDoneMessage       = "STAGE-DONE: %s staged %d path(s)\n"
	stageSkipMessage       = "STAGE-SKIP: %s (nothing to stage)\n"
	commitDoneMessage      = "COMMIT-DONE: %s committed %q\n"
	commitSkipMessage      = "COMMIT-SKIP: %s (nothing to commit)\n"
	pushDoneMessage        = "PUSH-DONE: %s pushed %s to %s\n"
	pushSkipMessage        = "PUSH-SKIP: %s (no commits to push)\n"
	stepFailedMessage      = "%s-FAILED: %s (error: %v)\n"
	stepNotRunMessage      = "%s-NOT-RUN: %s\n"
	stepLogMessageConstant = "Step finished"
	stepFailureLogMessage  = "Step failed"
	runFinishedLogMessage  = "Sequence finished"
	repositoryPathLogField = "repository_path"
	stepLogField           = "step"
	statusLogField         = "status"
	failedLogField         = "failed"
)

var (
	// ErrRepositoryNotConfigured indicates the git repository dependency was missing.
	ErrRepositoryNotConfigured = errors.New(repositoryNotConfiguredMessageConstant)
	// ErrFileSystemNotConfigured indicates the file system dependency was missing.
	ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)
	// ErrReporterNotConfigured indicates the report collector dependency was missing.
	ErrReporterNotConfigured = errors.New(reporterNotConfiguredMessageConstant)
	// ErrRepositoryPathRequired indicates RepositoryConfig.LocalPath was empty.
	ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)
)

// GitRepository is the set of git queries and mutations the sequencer performs.
type GitRepository interface {
	Initialize(executionContext context.Context, repositoryPath string) error
	RemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, bool, error)
	AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	HasCommits(executionContext context.Context, repositoryPath string) (bool, error)
	BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error)
	PointHeadAt(executionContext context.Context, repositoryPath string, branchName string) error
	SwitchBranch(executionContext context.Context, repositoryPath string, branchName string, create bool) error
	Status(executionContext context.Context, repositoryPath string, paths []string) ([]gitrepo.StatusEntry, error)
	Stage(executionContext context.Context, repositoryPath string, paths []string) error
	HasStagedChanges(executionContext context.Context, repositoryPath string) (bool, error)
	Commit(executionContext context.Context, repositoryPath string, message string) error
	Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string, force bool) error
}

// ReportCollector assembles the end-of-run report.
type ReportCollector interface {
	Collect(executionContext context.Context, request report.Request) report.Report
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	Repository GitRepository
	FileSystem filesystem.FileSystem
	Reporter   ReportCollector
	Logger     *zap.Logger
	// Output receives one progress line per step.
	Output io.Writer
}

// StepStatus describes what a step did.
type StepStatus string

// Step statuses.
const (
	StepStatusApplied StepStatus = "applied"
	StepStatusSkipped StepStatus = "skipped"
	StepStatusFailed  StepStatus = "failed"
	StepStatusNotRun  StepStatus = "not-run"
)

// StepResult records the outcome of one step.
type StepResult struct {
	Step   Step
	Status StepStatus
	// Paths lists the paths staged by the stage step.
	Paths []string
}

// RunOptions tune the report produced at the end of Run.
type RunOptions struct {
	IncludeDiffs bool
}

// Outcome captures every step result, the report and the first error.
type Outcome struct {
	Steps  []StepResult
	Report report.Report
	Err    error
}

// Service runs the guarded publish sequence.
type Service struct {
	repository GitRepository
	fileSystem filesystem.FileSystem
	reporter   ReportCollector
	logger     *zap.Logger
	output     io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Repository == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrReporterNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}
	return &Service{
		repository: dependencies.Repository,
		fileSystem: dependencies.FileSystem,
		reporter:   dependencies.Reporter,
		logger:     logger,
		output:     output,
	}, nil
}

type sequenceStep struct {
	steps []Step
	run   func(executionContext context.Context, config RepositoryConfig) ([]StepResult, error)
}

// Run executes the steps in order, stops mutating at the first failure and always collects the report.
func (service *Service) Run(executionContext context.Context, config RepositoryConfig, options RunOptions) Outcome {
	normalized := config.Normalized()
	outcome := Outcome{}

	sequence := []sequenceStep{
		{steps: []Step{StepInitialize}, run: service.singleStep(service.EnsureInitialized)},
		{steps: []Step{StepRemote}, run: service.singleStep(service.EnsureRemote)},
		{steps: []Step{StepBranch}, run: service.singleStep(service.EnsureBranch)},
		{steps: []Step{StepStage}, run: service.singleStep(service.StageChanges)},
		{steps: []Step{StepCommit, StepPush}, run: service.CommitAndPush},
	}

	for _, entry := range sequence {
		if outcome.Err != nil {
			outcome.Steps = append(outcome.Steps, service.notRun(normalized, entry.steps)...)
			continue
		}
		stepResults, stepError := entry.run(executionContext, normalized)
		outcome.Steps = append(outcome.Steps, stepResults...)
		if stepError != nil {
			outcome.Err = stepError
			service.reportFailure(normalized, stepError)
			outcome.Steps = append(outcome.Steps, service.notRun(normalized, entry.steps[len(stepResults):])...)
		}
	}

	outcome.Report = service.GenerateReport(executionContext, normalized, options)
	service.logger.Info(runFinishedLogMessage,
		zap.String(repositoryPathLogField, normalized.LocalPath),
		zap.Bool(failedLogField, outcome.Err != nil),
	)
	return outcome
}

// EnsureInitialized creates the repository metadata when it is missing.
func (service *Service) EnsureInitialized(executionContext context.Context, config RepositoryConfig) (StepResult, error) {
	repositoryPath, pathError := requireRepositoryPath(config)
	if pathError != nil {
		return failedStep(StepInitialize, pathError)
	}

	initialized, inspectionError := filesystem.Exists(service.fileSystem, filepath.Join(repositoryPath, gitMetadataDirectoryNameConstant))
	if inspectionError != nil {
		return failedStep(StepInitialize, inspectionError)
	}
	if initialized {
		return service.finish(StepResult{Step: StepInitialize, Status: StepStatusSkipped}, initializeSkipMessage, repositoryPath)
	}

	if directoryError := service.fileSystem.MkdirAll(repositoryPath, repositoryDirectoryPermissions); directoryError != nil {
		return failedStep(StepInitialize, directoryError)
	}
	if initializeError := service.repository.Initialize(executionContext, repositoryPath); initializeError != nil {
		return failedStep(StepInitialize, initializeError)
	}
	return service.finish(StepResult{Step: StepInitialize, Status: StepStatusApplied}, initializeDoneMessage, repositoryPath)
}

// EnsureRemote adds the remote when it is absent. An existing remote with another URL is an error.
func (service *Service) EnsureRemote(executionContext context.Context, config RepositoryConfig) (StepResult, error) {
	repositoryPath, pathError := requireRepositoryPath(config)
	if pathError != nil {
		return failedStep(StepRemote, pathError)
	}

	existingURL, remoteExists, lookupError := service.repository.RemoteURL(executionContext, repositoryPath, config.RemoteName)
	if lookupError != nil {
		return failedStep(StepRemote, lookupError)
	}

	if remoteExists {
		if len(config.RemoteURL) > 0 && existingURL != config.RemoteURL {
			return failedStep(StepRemote, RemoteMismatchError{RemoteName: config.RemoteName, ExistingURL: existingURL, RequestedURL: config.RemoteURL})
		}
		return service.finish(StepResult{Step: StepRemote, Status: StepStatusSkipped}, remoteSkipMessage, repositoryPath, config.RemoteName, existingURL)
	}

	if len(config.RemoteURL) == 0 {
		return failedStep(StepRemote, RemoteURLRequiredError{RemoteName: config.RemoteName})
	}
	if validationError := gitrepo.ValidateRemoteURL(config.RemoteURL); validationError != nil {
		return failedStep(StepRemote, validationError)
	}
	if addError := service.repository.AddRemote(executionContext, repositoryPath, config.RemoteName, config.RemoteURL); addError != nil {
		return failedStep(StepRemote, addError)
	}
	return service.finish(StepResult{Step: StepRemote, Status: StepStatusApplied}, remoteDoneMessage, repositoryPath, config.RemoteName, config.RemoteURL)
}

// EnsureBranch makes the configured branch current. When it already is, only the current branch is queried.
func (service *Service) EnsureBranch(executionContext context.Context, config RepositoryConfig) (StepResult, error) {
	repositoryPath, pathError := requireRepositoryPath(config)
	if pathError != nil {
		return failedStep(StepBranch, pathError)
	}

	currentBranch, branchError := service.repository.CurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		return failedStep(StepBranch, branchError)
	}
	if currentBranch == config.BranchName {
		return service.finish(StepResult{Step: StepBranch, Status: StepStatusSkipped}, branchSkipMessage, repositoryPath, config.BranchName)
	}

	hasCommits, historyError := service.repository.HasCommits(executionContext, repositoryPath)
	if historyError != nil {
		return failedStep(StepBranch, historyError)
	}
	if !hasCommits {
		if pointError := service.repository.PointHeadAt(executionContext, repositoryPath, config.BranchName); pointError != nil {
			return failedStep(StepBranch, pointError)
		}
		return service.finish(StepResult{Step: StepBranch, Status: StepStatusApplied}, branchUnbornMessage, repositoryPath, config.BranchName)
	}

	branchExists, lookupError := service.repository.BranchExists(executionContext, repositoryPath, config.BranchName)
	if lookupError != nil {
		return failedStep(StepBranch, lookupError)
	}
	if switchError := service.repository.SwitchBranch(executionContext, repositoryPath, config.BranchName, !branchExists); switchError != nil {
		return failedStep(StepBranch, switchError)
	}
	if branchExists {
		return service.finish(StepResult{Step: StepBranch, Status: StepStatusApplied}, branchSwitchMessage, repositoryPath, config.BranchName)
	}
	return service.finish(StepResult{Step: StepBranch, Status: StepStatusApplied}, branchCreateMessage, repositoryPath, config.BranchName)
}

// StageChanges stages the configured files, or everything, when the working tree has changes.
func (service *Service) StageChanges(executionContext context.Context, config RepositoryConfig) (StepResult, error) {
	repositoryPath, pathError := requireRepositoryPath(config)
	if pathError != nil {
		return failedStep(StepStage, pathError)
	}

	stagingPaths := config.stagingPaths()
	statusEntries, statusError := service.repository.Status(executionContext, repositoryPath, stagingPaths)
	if statusError != nil {
		return failedStep(StepStage, statusError)
	}

	for _, stagingPath := range stagingPaths {
		if targetError := service.verifyTarget(repositoryPath, stagingPath, statusEntries); targetError != nil {
			return failedStep(StepStage, targetError)
		}
	}

	if len(statusEntries) == 0 {
		return service.finish(StepResult{Step: StepStage, Status: StepStatusSkipped}, stageSkipMessage, repositoryPath)
	}

	if stageError := service.repository.Stage(executionContext, repositoryPath, stagingPaths); stageError != nil {
		return failedStep(StepStage, stageError)
	}

	stagedPaths := make([]string, 0, len(statusEntries))
	for _, statusEntry := range statusEntries {
		stagedPaths = append(stagedPaths, statusEntry.Path)
	}
	return service.finish(StepResult{Step: StepStage, Status: StepStatusApplied, Paths: stagedPaths}, stageDoneMessage, repositoryPath, len(stagedPaths))
}

// CommitAndPush commits staged changes, then pushes the branch. The push runs even when there was
// nothing to commit so earlier local commits reach the remote; it is skipped only while HEAD has no commits.
func (service *Service) CommitAndPush(executionContext context.Context, config RepositoryConfig) ([]StepResult, error) {
	commitResult, commitError := service.commit(executionContext, config)
	if commitError != nil {
		return []StepResult{commitResult}, commitError
	}
	pushResult, pushError := service.push(executionContext, config)
	return []StepResult{commitResult, pushResult}, pushError
}

// GenerateReport collects the report. It never fails; unavailable fields are marked on the report.
func (service *Service) GenerateReport(executionContext context.Context, config RepositoryConfig, options RunOptions) report.Report {
	return service.reporter.Collect(executionContext, report.Request{
		RepositoryPath: config.LocalPath,
		RemoteName:     config.RemoteName,
		IncludeDiffs:   options.IncludeDiffs,
	})
}

func (service *Service) commit(executionContext context.Context, config RepositoryConfig) (StepResult, error) {
	repositoryPath, pathError := requireRepositoryPath(config)
	if pathError != nil {
		return failedStep(StepCommit, pathError)
	}

	hasStagedChanges, inspectionError := service.repository.HasStagedChanges(executionContext, repositoryPath)
	if inspectionError != nil {
		return failedStep(StepCommit, inspectionError)
	}
	if !hasStagedChanges {
		return service.finish(StepResult{Step: StepCommit, Status: StepStatusSkipped}, commitSkipMessage, repositoryPath)
	}
	if commitError := service.repository.Commit(executionContext, repositoryPath, config.CommitMessage); commitError != nil {
		return failedStep(StepCommit, commitError)
	}
	return service.finish(StepResult{Step: StepCommit, Status: StepStatusApplied}, commitDoneMessage, repositoryPath, config.CommitMessage)
}

func (service *Service) push(executionContext context.Context, config RepositoryConfig) (StepResult, error) {
	repositoryPath, pathError := requireRepositoryPath(config)
	if pathError != nil {
		return failedStep(StepPush, pathError)
	}

	hasCommits, historyError := service.repository.HasCommits(executionContext, repositoryPath)
	if historyError != nil {
		return failedStep(StepPush, historyError)
	}
	if !hasCommits {
		return service.finish(StepResult{Step: StepPush, Status: StepStatusSkipped}, pushSkipMessage, repositoryPath)
	}
	if pushError := service.repository.Push(executionContext, repositoryPath, config.RemoteName, config.BranchName, config.ForcePush); pushError != nil {
		return failedStep(StepPush, newPushError(config.RemoteName, config.BranchName, pushError))
	}
	return service.finish(StepResult{Step: StepPush, Status: StepStatusApplied}, pushDoneMessage, repositoryPath, config.BranchName, config.RemoteName)
}

func (service *Service) verifyTarget(repositoryPath string, targetPath string, statusEntries []gitrepo.StatusEntry) error {
	absoluteTarget := targetPath
	if !filepath.IsAbs(absoluteTarget) {
		absoluteTarget = filepath.Join(repositoryPath, targetPath)
	}
	targetExists, inspectionError := filesystem.Exists(service.fileSystem, absoluteTarget)
	if inspectionError != nil {
		return inspectionError
	}
	if targetExists || statusMentions(statusEntries, filepath.ToSlash(targetPath)) {
		return nil
	}
	return MissingTargetError{Path: targetPath, RepositoryPath: repositoryPath}
}

func (service *Service) finish(result StepResult, format string, arguments ...any) (StepResult, error) {
	service.printf(format, arguments...)
	service.logger.Info(stepLogMessageConstant,
		zap.String(stepLogField, string(result.Step)),
		zap.String(statusLogField, string(result.Status)),
	)
	return result, nil
}

func (service *Service) reportFailure(config RepositoryConfig, failure error) {
	var stepError StepError
	if !errors.As(failure, &stepError) {
		return
	}
	service.printf(stepFailedMessage, strings.ToUpper(string(stepError.Step)), config.LocalPath, stepError.Err)
	service.logger.Warn(stepFailureLogMessage,
		zap.String(stepLogField, string(stepError.Step)),
		zap.String(repositoryPathLogField, config.LocalPath),
		zap.Error(stepError.Err),
	)
}

func (service *Service) notRun(config RepositoryConfig, steps []Step) []StepResult {
	results := make([]StepResult, 0, len(steps))
	for _, step := range steps {
		service.printf(stepNotRunMessage, strings.ToUpper(string(step)), config.LocalPath)
		results = append(results, StepResult{Step: step, Status: StepStatusNotRun})
	}
	return results
}

func (service *Service) printf(format string, arguments ...any) {
	fmt.Fprintf(service.output, format, arguments...)
}

func (service *Service) singleStep(step func(context.Context, RepositoryConfig) (StepResult, error)) func(context.Context, RepositoryConfig) ([]StepResult, error) {
	return func(executionContext context.Context, config RepositoryConfig) ([]StepResult, error) {
		result, stepError := step(executionContext, config)
		return []StepResult{result}, stepError
	}
}

func failedStep(step Step, cause error) (StepResult, error) {
	return StepResult{Step: step, Status: StepStatusFailed}, StepError{Step: step, Err: cause}
}

func requireRepositoryPath(config RepositoryConfig) (string, error) {
	if len(config.LocalPath) == 0 {
		return "", ErrRepositoryPathRequired
	}
	return config.LocalPath, nil
}

func statusMentions(statusEntries []gitrepo.StatusEntry, targetPath string) bool {
	trimmedTarget := strings.TrimSuffix(targetPath, pathSeparatorConstant)
	for _, statusEntry := range statusEntries {
		if statusEntry.Path == trimmedTarget || strings.HasPrefix(statusEntry.Path, trimmedTarget+pathSeparatorConstant) {
			return true
		}
	}
	return false
}

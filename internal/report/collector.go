package report

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/temirov/gitpush/internal/filesystem"
	"github.com/temirov/gitpush/internal/gitrepo"
)

const (
	inspectorNotConfiguredMessageConstant   = "repository inspector not configured"
	fileSystemNotConfiguredMessageConstant  = "file system not configured"
	repositoryNotInitializedMessageConstant = "repository is not initialized"
	gitMetadataDirectoryNameConstant        = ".git"
	diffHunkPrefixConstant                  = "@@"
	diffAddedLinePrefixConstant             = "+"
	diffRemovedLinePrefixConstant           = "-"
	diffAddedFileHeaderPrefixConstant       = "+++"
	diffRemovedFileHeaderPrefixConstant     = "---"
	diffFieldLabelTemplateConstant          = FieldDiff + " "
)

var (
	// ErrInspectorNotConfigured indicates a nil RepositoryInspector.
	ErrInspectorNotConfigured = errors.New(inspectorNotConfiguredMessageConstant)
	// ErrFileSystemNotConfigured indicates a nil file system.
	ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)
	// ErrRepositoryNotInitialized marks every git-derived field when the repository metadata is missing.
	ErrRepositoryNotInitialized = errors.New(repositoryNotInitializedMessageConstant)
)

// RepositoryInspector exposes the read-only git queries the collector relies on.
type RepositoryInspector interface {
	RemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, bool, error)
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	HasCommits(executionContext context.Context, repositoryPath string) (bool, error)
	LastCommit(executionContext context.Context, repositoryPath string) (gitrepo.CommitInfo, error)
	CommitFiles(executionContext context.Context, repositoryPath string) ([]string, error)
	Status(executionContext context.Context, repositoryPath string, paths []string) ([]gitrepo.StatusEntry, error)
	UnpushedCommitCount(executionContext context.Context, repositoryPath string) (int, error)
	Diff(executionContext context.Context, repositoryPath string, filePath string) (string, error)
}

// Clock supplies the report timestamp.
type Clock func() time.Time

// Request identifies the repository to describe.
type Request struct {
	RepositoryPath string
	RemoteName     string
	IncludeDiffs   bool
}

// Collector builds reports from live repository state.
type Collector struct {
	inspector  RepositoryInspector
	fileSystem filesystem.FileSystem
	clock      Clock
}

// NewCollector validates dependencies and constructs a Collector. A nil clock uses time.Now.
func NewCollector(inspector RepositoryInspector, fileSystem filesystem.FileSystem, clock Clock) (*Collector, error) {
	if inspector == nil {
		return nil, ErrInspectorNotConfigured
	}
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if clock == nil {
		clock = time.Now
	}
	return &Collector{inspector: inspector, fileSystem: fileSystem, clock: clock}, nil
}

// Collect queries every report field. It never returns an error; failed queries are
// stored on the field and appended to Report.Errors.
func (collector *Collector) Collect(executionContext context.Context, request Request) Report {
	report := Report{
		GeneratedAt:    collector.clock(),
		RepositoryPath: request.RepositoryPath,
		RemoteName:     request.RemoteName,
	}

	initialized, inspectionError := filesystem.Exists(collector.fileSystem, filepath.Join(request.RepositoryPath, gitMetadataDirectoryNameConstant))
	if inspectionError == nil && !initialized {
		inspectionError = ErrRepositoryNotInitialized
	}
	if inspectionError != nil {
		collector.markUnavailable(&report, inspectionError)
		return report
	}

	remoteURL, remoteConfigured, remoteError := collector.inspector.RemoteURL(executionContext, request.RepositoryPath, request.RemoteName)
	report.RemoteURL = Field[string]{Value: remoteURL, Err: remoteError}
	report.RepositoryName = Field[string]{Err: remoteError}
	if remoteError == nil {
		report.RepositoryName.Value = deriveRepositoryName(request.RepositoryPath, remoteURL, remoteConfigured)
	}
	collector.record(&report, FieldRemote, remoteError)

	branchName, branchError := collector.inspector.CurrentBranch(executionContext, request.RepositoryPath)
	report.Branch = Field[string]{Value: branchName, Err: branchError}
	collector.record(&report, FieldBranch, branchError)

	collector.collectHistory(executionContext, request, &report)

	statusEntries, statusError := collector.inspector.Status(executionContext, request.RepositoryPath, nil)
	report.UncommittedChanges = Field[[]gitrepo.StatusEntry]{Value: statusEntries, Err: statusError}
	collector.record(&report, FieldUncommittedChanges, statusError)

	if request.IncludeDiffs && statusError == nil {
		report.Diffs = collector.collectDiffs(executionContext, request, statusEntries, &report)
	}

	return report
}

func (collector *Collector) collectHistory(executionContext context.Context, request Request, report *Report) {
	hasCommits, historyError := collector.inspector.HasCommits(executionContext, request.RepositoryPath)
	if historyError != nil {
		report.LastCommit = Field[*gitrepo.CommitInfo]{Err: historyError}
		report.CommitFiles = Field[[]string]{Err: historyError}
		report.UnpushedCommits = Field[int]{Err: historyError}
		collector.record(report, FieldLastCommit, historyError)
		return
	}
	if !hasCommits {
		return
	}

	commitInfo, commitError := collector.inspector.LastCommit(executionContext, request.RepositoryPath)
	if commitError == nil {
		report.LastCommit.Value = &commitInfo
	}
	report.LastCommit.Err = commitError
	collector.record(report, FieldLastCommit, commitError)

	commitFiles, filesError := collector.inspector.CommitFiles(executionContext, request.RepositoryPath)
	report.CommitFiles = Field[[]string]{Value: commitFiles, Err: filesError}
	collector.record(report, FieldCommitFiles, filesError)

	unpushedCount, unpushedError := collector.inspector.UnpushedCommitCount(executionContext, request.RepositoryPath)
	report.UpstreamConfigured = !errors.Is(unpushedError, gitrepo.ErrNoUpstream)
	if !report.UpstreamConfigured {
		unpushedError = nil
	}
	report.UnpushedCommits = Field[int]{Value: unpushedCount, Err: unpushedError}
	collector.record(report, FieldUnpushedCommits, unpushedError)
}

func (collector *Collector) collectDiffs(executionContext context.Context, request Request, statusEntries []gitrepo.StatusEntry, report *Report) []FileDiff {
	diffs := make([]FileDiff, 0, len(statusEntries))
	for _, statusEntry := range statusEntries {
		if statusEntry.Untracked() {
			continue
		}
		diffOutput, diffError := collector.inspector.Diff(executionContext, request.RepositoryPath, statusEntry.Path)
		collector.record(report, diffFieldLabelTemplateConstant+statusEntry.Path, diffError)
		diffs = append(diffs, FileDiff{Path: statusEntry.Path, Lines: changedLines(diffOutput), Err: diffError})
	}
	return diffs
}

func (collector *Collector) markUnavailable(report *Report, cause error) {
	report.RepositoryName.Err = cause
	report.Branch.Err = cause
	report.RemoteURL.Err = cause
	report.LastCommit.Err = cause
	report.CommitFiles.Err = cause
	report.UncommittedChanges.Err = cause
	report.UnpushedCommits.Err = cause
	collector.record(report, FieldRepository, cause)
}

func (collector *Collector) record(report *Report, field string, queryError error) {
	if queryError == nil {
		return
	}
	report.Errors = append(report.Errors, ReportQueryError{Field: field, Err: queryError})
}

func deriveRepositoryName(repositoryPath string, remoteURL string, remoteConfigured bool) string {
	if remoteConfigured {
		if repositoryName := gitrepo.RepositoryName(remoteURL); len(repositoryName) > 0 {
			return repositoryName
		}
	}
	return filepath.Base(repositoryPath)
}

// changedLines keeps hunk headers and added/removed lines, dropping file headers and context.
func changedLines(diffOutput string) []string {
	var lines []string
	for _, line := range strings.Split(diffOutput, "\n") {
		switch {
		case strings.HasPrefix(line, diffAddedFileHeaderPrefixConstant), strings.HasPrefix(line, diffRemovedFileHeaderPrefixConstant):
			continue
		case strings.HasPrefix(line, diffHunkPrefixConstant),
			strings.HasPrefix(line, diffAddedLinePrefixConstant),
			strings.HasPrefix(line, diffRemovedLinePrefixConstant):
			lines = append(lines, line)
		}
	}
	return lines
}

package report

import (
	"fmt"
	"time"

	"github.com/temirov/gitpush/internal/gitrepo"
)

const (
	reportQueryErrorTemplateConstant = "report field %s unavailable: %v"

	// FieldRepository labels the repository metadata check that gates every git query.
	FieldRepository = "repository"
	// FieldBranch labels the current branch.
	FieldBranch = "branch"
	// FieldRemote labels the configured remote URL.
	FieldRemote = "remote"
	// FieldLastCommit labels the last commit description.
	FieldLastCommit = "last commit"
	// FieldCommitFiles labels the files touched by the last commit.
	FieldCommitFiles = "files in last commit"
	// FieldUncommittedChanges labels the working tree status.
	FieldUncommittedChanges = "uncommitted changes"
	// FieldUnpushedCommits labels the number of commits missing from the upstream.
	FieldUnpushedCommits = "unpushed commits"
	// FieldDiff labels a per-file diff; the file path is appended.
	FieldDiff = "diff"
)

// Field carries one queried value, or the error that prevented querying it.
type Field[T any] struct {
	Value T
	Err   error
}

// Available reports whether the field was queried successfully.
func (field Field[T]) Available() bool {
	return field.Err == nil
}

// FileDiff holds the hunk headers and changed lines for one uncommitted file.
type FileDiff struct {
	Path  string
	Lines []string
	Err   error
}

// ReportQueryError records a failed report query. It never fails the run.
type ReportQueryError struct {
	Field string
	Err   error
}

func (queryError ReportQueryError) Error() string {
	return fmt.Sprintf(reportQueryErrorTemplateConstant, queryError.Field, queryError.Err)
}

func (queryError ReportQueryError) Unwrap() error {
	return queryError.Err
}

// Report is the read-only summary produced at the end of every run.
type Report struct {
	GeneratedAt    time.Time
	RepositoryPath string
	RepositoryName Field[string]
	Branch         Field[string]
	RemoteName     string
	// RemoteURL is empty when the remote is not configured.
	RemoteURL Field[string]
	// LastCommit is nil when HEAD has no commits yet.
	LastCommit         Field[*gitrepo.CommitInfo]
	CommitFiles        Field[[]string]
	UncommittedChanges Field[[]gitrepo.StatusEntry]
	UnpushedCommits    Field[int]
	// UpstreamConfigured is false until the branch tracks a remote branch; UnpushedCommits is then zero.
	UpstreamConfigured bool
	Diffs              []FileDiff
	Errors             []ReportQueryError
}

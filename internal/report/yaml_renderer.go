package report

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/temirov/gitpush/internal/gitrepo"
)

const (
	yamlFileExtensionConstant = "yaml"
	yamlIndentationConstant   = 2
	yamlEncodeErrorTemplate   = "failed to encode report: %w"
	yamlStatusCodeTemplate    = "%s%s"
)

// YAMLRenderer writes the report as a YAML document. Unavailable fields are omitted and listed under errors.
type YAMLRenderer struct{}

type yamlDocument struct {
	GeneratedAt        string           `yaml:"generated_at"`
	RepositoryPath     string           `yaml:"repository_path"`
	RepositoryName     string           `yaml:"repository_name,omitempty"`
	Branch             string           `yaml:"branch,omitempty"`
	Remote             yamlRemote       `yaml:"remote"`
	LastCommit         *yamlCommit      `yaml:"last_commit,omitempty"`
	CommitFiles        []string         `yaml:"commit_files,omitempty"`
	UncommittedChanges []yamlStatus     `yaml:"uncommitted_changes,omitempty"`
	UpstreamConfigured bool             `yaml:"upstream_configured"`
	UnpushedCommits    *int             `yaml:"unpushed_commits,omitempty"`
	Diffs              []yamlDiff       `yaml:"diffs,omitempty"`
	Errors             []yamlQueryError `yaml:"errors,omitempty"`
}

type yamlRemote struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url,omitempty"`
}

type yamlCommit struct {
	Hash    string `yaml:"hash"`
	Author  string `yaml:"author"`
	Date    string `yaml:"date"`
	Message string `yaml:"message"`
}

type yamlStatus struct {
	Status       string `yaml:"status"`
	Path         string `yaml:"path"`
	OriginalPath string `yaml:"original_path,omitempty"`
}

type yamlDiff struct {
	Path  string   `yaml:"path"`
	Lines []string `yaml:"lines,omitempty"`
}

type yamlQueryError struct {
	Field string `yaml:"field"`
	Error string `yaml:"error"`
}

// FileExtension implements Renderer.
func (YAMLRenderer) FileExtension() string {
	return yamlFileExtensionConstant
}

// Render implements Renderer.
func (YAMLRenderer) Render(output io.Writer, report Report) error {
	encoder := yaml.NewEncoder(output)
	encoder.SetIndent(yamlIndentationConstant)
	if encodeError := encoder.Encode(newYAMLDocument(report)); encodeError != nil {
		return fmt.Errorf(yamlEncodeErrorTemplate, encodeError)
	}
	return encoder.Close()
}

func newYAMLDocument(report Report) yamlDocument {
	document := yamlDocument{
		GeneratedAt:    report.GeneratedAt.Format(time.RFC3339),
		RepositoryPath: report.RepositoryPath,
		RepositoryName: report.RepositoryName.Value,
		Branch:         report.Branch.Value,
		Remote:         yamlRemote{Name: report.RemoteName, URL: report.RemoteURL.Value},
		CommitFiles:    report.CommitFiles.Value,
	}

	if commitInfo := report.LastCommit.Value; report.LastCommit.Available() && commitInfo != nil {
		document.LastCommit = &yamlCommit{Hash: commitInfo.Hash, Author: commitInfo.Author(), Date: commitInfo.Date, Message: commitInfo.Subject}
	}
	document.UpstreamConfigured = report.UpstreamConfigured
	if report.UnpushedCommits.Available() && report.UpstreamConfigured {
		unpushedCommits := report.UnpushedCommits.Value
		document.UnpushedCommits = &unpushedCommits
	}
	for _, entry := range report.UncommittedChanges.Value {
		document.UncommittedChanges = append(document.UncommittedChanges, newYAMLStatus(entry))
	}
	for _, fileDiff := range report.Diffs {
		document.Diffs = append(document.Diffs, yamlDiff{Path: fileDiff.Path, Lines: fileDiff.Lines})
	}
	for _, queryError := range report.Errors {
		document.Errors = append(document.Errors, yamlQueryError{Field: queryError.Field, Error: queryError.Err.Error()})
	}
	return document
}

func newYAMLStatus(entry gitrepo.StatusEntry) yamlStatus {
	return yamlStatus{
		Status:       fmt.Sprintf(yamlStatusCodeTemplate, entry.IndexStatus, entry.WorktreeStatus),
		Path:         entry.Path,
		OriginalPath: entry.OriginalPath,
	}
}

package publish

import (
	"strings"
)

const (
	// DefaultRemoteName is used when RepositoryConfig.RemoteName is empty.
	DefaultRemoteName = "origin"
	// DefaultBranchName is used when RepositoryConfig.BranchName is empty.
	DefaultBranchName = "main"
	// DefaultCommitMessage is used when RepositoryConfig.CommitMessage is empty.
	DefaultCommitMessage = "Updated project"
	// AllFilesToken selects every change in the working tree.
	AllFilesToken = "all"

	currentDirectoryFilesAliasConstant = "."
)

// RepositoryConfig describes one run. It is passed explicitly to every step and never mutated.
type RepositoryConfig struct {
	LocalPath     string
	RemoteName    string
	RemoteURL     string
	BranchName    string
	CommitMessage string
	// TargetFiles lists repository-relative paths to stage. Empty, or containing "all" or ".", selects every change.
	TargetFiles []string
	ForcePush   bool
}

// Normalized returns a copy with surrounding whitespace removed and defaults applied.
func (config RepositoryConfig) Normalized() RepositoryConfig {
	normalized := RepositoryConfig{
		LocalPath:     strings.TrimSpace(config.LocalPath),
		RemoteName:    strings.TrimSpace(config.RemoteName),
		RemoteURL:     strings.TrimSpace(config.RemoteURL),
		BranchName:    strings.TrimSpace(config.BranchName),
		CommitMessage: strings.TrimSpace(config.CommitMessage),
		ForcePush:     config.ForcePush,
	}
	if len(normalized.RemoteName) == 0 {
		normalized.RemoteName = DefaultRemoteName
	}
	if len(normalized.BranchName) == 0 {
		normalized.BranchName = DefaultBranchName
	}
	if len(normalized.CommitMessage) == 0 {
		normalized.CommitMessage = DefaultCommitMessage
	}
	for _, targetFile := range config.TargetFiles {
		trimmedTarget := strings.TrimSpace(targetFile)
		if len(trimmedTarget) > 0 {
			normalized.TargetFiles = append(normalized.TargetFiles, trimmedTarget)
		}
	}
	return normalized
}

// StagesAllFiles reports whether TargetFiles denotes the whole working tree. The all token
// (or ".") selects everything even when listed next to named files.
func (config RepositoryConfig) StagesAllFiles() bool {
	if len(config.TargetFiles) == 0 {
		return true
	}
	for _, targetFile := range config.TargetFiles {
		target := strings.TrimSpace(targetFile)
		if strings.EqualFold(target, AllFilesToken) || target == currentDirectoryFilesAliasConstant {
			return true
		}
	}
	return false
}

// stagingPaths returns nil when every change is selected.
func (config RepositoryConfig) stagingPaths() []string {
	if config.StagesAllFiles() {
		return nil
	}
	return config.TargetFiles
}

package publish_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/gitpush/internal/gitrepo"
)

const (
	callInitialize       = "init"
	callRemoteURL        = "remote get-url"
	callAddRemote        = "remote add"
	callCurrentBranch    = "branch --show-current"
	callHasCommits       = "rev-parse HEAD"
	callBranchExists     = "show-ref"
	callPointHeadAt      = "symbolic-ref"
	callSwitchBranch     = "switch"
	callCreateBranch     = "switch -c"
	callStatus           = "status"
	callStage            = "add"
	callHasStagedChanges = "diff --cached"
	callCommit           = "commit"
	callPush             = "push"
	initialBranchName    = "master"
)

// fakeRepository simulates the git state the sequencer observes.
type fakeRepository struct {
	root          string
	remotes       map[string]string
	currentBranch string
	branches      map[string]bool
	commits       []string
	committedSets [][]string
	changes       []gitrepo.StatusEntry
	staged        []gitrepo.StatusEntry
	pushError     error
	pushedCommits int
	failures      map[string]error
	calls         []string
}

func newFakeRepository(root string) *fakeRepository {
	return &fakeRepository{
		root:     root,
		remotes:  map[string]string{},
		branches: map[string]bool{},
		failures: map[string]error{},
	}
}

// newInitializedFakeRepository returns a repository with one commit on branch.
func newInitializedFakeRepository(root string, branch string) (*fakeRepository, error) {
	if directoryError := os.MkdirAll(filepath.Join(root, ".git"), 0o755); directoryError != nil {
		return nil, directoryError
	}
	repository := newFakeRepository(root)
	repository.currentBranch = branch
	repository.branches[branch] = true
	repository.commits = []string{"initial"}
	repository.committedSets = [][]string{{"README.md"}}
	return repository, nil
}

func (repository *fakeRepository) record(call string) error {
	repository.calls = append(repository.calls, call)
	return repository.failures[call]
}

func (repository *fakeRepository) count(call string) int {
	total := 0
	for _, recorded := range repository.calls {
		if recorded == call {
			total++
		}
	}
	return total
}

func (repository *fakeRepository) Initialize(context.Context, string) error {
	if failure := repository.record(callInitialize); failure != nil {
		return failure
	}
	repository.currentBranch = initialBranchName
	return os.MkdirAll(filepath.Join(repository.root, ".git"), 0o755)
}

func (repository *fakeRepository) RemoteURL(_ context.Context, _ string, remoteName string) (string, bool, error) {
	if failure := repository.record(callRemoteURL); failure != nil {
		return "", false, failure
	}
	remoteURL, exists := repository.remotes[remoteName]
	return remoteURL, exists, nil
}

func (repository *fakeRepository) AddRemote(_ context.Context, _ string, remoteName string, remoteURL string) error {
	if failure := repository.record(callAddRemote); failure != nil {
		return failure
	}
	repository.remotes[remoteName] = remoteURL
	return nil
}

func (repository *fakeRepository) CurrentBranch(context.Context, string) (string, error) {
	if failure := repository.record(callCurrentBranch); failure != nil {
		return "", failure
	}
	return repository.currentBranch, nil
}

func (repository *fakeRepository) HasCommits(context.Context, string) (bool, error) {
	if failure := repository.record(callHasCommits); failure != nil {
		return false, failure
	}
	return len(repository.commits) > 0, nil
}

func (repository *fakeRepository) BranchExists(_ context.Context, _ string, branchName string) (bool, error) {
	if failure := repository.record(callBranchExists); failure != nil {
		return false, failure
	}
	return repository.branches[branchName], nil
}

func (repository *fakeRepository) PointHeadAt(_ context.Context, _ string, branchName string) error {
	if failure := repository.record(callPointHeadAt); failure != nil {
		return failure
	}
	repository.currentBranch = branchName
	return nil
}

func (repository *fakeRepository) SwitchBranch(_ context.Context, _ string, branchName string, create bool) error {
	call := callSwitchBranch
	if create {
		call = callCreateBranch
	}
	if failure := repository.record(call); failure != nil {
		return failure
	}
	repository.currentBranch = branchName
	repository.branches[branchName] = true
	return nil
}

func (repository *fakeRepository) Status(_ context.Context, _ string, paths []string) ([]gitrepo.StatusEntry, error) {
	if failure := repository.record(callStatus); failure != nil {
		return nil, failure
	}
	var entries []gitrepo.StatusEntry
	for _, entry := range append(append([]gitrepo.StatusEntry(nil), repository.staged...), repository.changes...) {
		if matchesAny(entry.Path, paths) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (repository *fakeRepository) Stage(_ context.Context, _ string, paths []string) error {
	if failure := repository.record(callStage); failure != nil {
		return failure
	}
	var remaining []gitrepo.StatusEntry
	for _, entry := range repository.changes {
		if matchesAny(entry.Path, paths) {
			repository.staged = append(repository.staged, entry)
			continue
		}
		remaining = append(remaining, entry)
	}
	repository.changes = remaining
	return nil
}

func (repository *fakeRepository) HasStagedChanges(context.Context, string) (bool, error) {
	if failure := repository.record(callHasStagedChanges); failure != nil {
		return false, failure
	}
	return len(repository.staged) > 0, nil
}

func (repository *fakeRepository) Commit(_ context.Context, _ string, message string) error {
	if failure := repository.record(callCommit); failure != nil {
		return failure
	}
	committedPaths := make([]string, 0, len(repository.staged))
	for _, entry := range repository.staged {
		committedPaths = append(committedPaths, entry.Path)
	}
	repository.commits = append(repository.commits, message)
	repository.committedSets = append(repository.committedSets, committedPaths)
	repository.staged = nil
	repository.branches[repository.currentBranch] = true
	return nil
}

func (repository *fakeRepository) Push(context.Context, string, string, string, bool) error {
	if failure := repository.record(callPush); failure != nil {
		return failure
	}
	if repository.pushError != nil {
		return repository.pushError
	}
	repository.pushedCommits = len(repository.commits)
	return nil
}

func (repository *fakeRepository) LastCommit(context.Context, string) (gitrepo.CommitInfo, error) {
	if len(repository.commits) == 0 {
		return gitrepo.CommitInfo{}, errors.New("HEAD has no commits")
	}
	index := len(repository.commits) - 1
	return gitrepo.CommitInfo{
		Hash:       fmt.Sprintf("%040d", index+1),
		AuthorName: "Tester",
		Date:       "2026-10-19 10:00:00 +0000",
		Subject:    repository.commits[index],
	}, nil
}

func (repository *fakeRepository) CommitFiles(context.Context, string) ([]string, error) {
	return repository.committedSets[len(repository.committedSets)-1], nil
}

func (repository *fakeRepository) UnpushedCommitCount(context.Context, string) (int, error) {
	return len(repository.commits) - repository.pushedCommits, nil
}

func (repository *fakeRepository) Diff(context.Context, string, string) (string, error) {
	return "", nil
}

func matchesAny(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSuffix(pattern, "/")
		if path == trimmedPattern || strings.HasPrefix(path, trimmedPattern+"/") {
			return true
		}
	}
	return false
}

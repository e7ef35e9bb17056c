package publish

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/gitpush/internal/execshell"
)

const (
	stepErrorTemplateConstant         = "%s step failed: %v"
	remoteMismatchTemplateConstant    = "remote %s already points at %s, refusing to replace it with %s"
	remoteURLRequiredTemplateConstant = "remote %s is not configured and no remote URL was provided"
	missingTargetTemplateConstant     = "pathspec %s did not match any file in %s"
	pushErrorTemplateConstant         = "push of %s to %s rejected (%s): %v"
)

// Step names one stage of the sequence.
type Step string

// Steps in execution order.
const (
	StepInitialize Step = "initialize"
	StepRemote     Step = "remote"
	StepBranch     Step = "branch"
	StepStage      Step = "stage"
	StepCommit     Step = "commit"
	StepPush       Step = "push"
)

// Error classes matched with errors.Is against a StepError.
var (
	ErrInitialization = errors.New("initialization failed")
	ErrRemoteConfig   = errors.New("remote configuration failed")
	ErrBranch         = errors.New("branch change failed")
	ErrStaging        = errors.New("staging failed")
	ErrCommit         = errors.New("commit failed")
	ErrPush           = errors.New("push failed")
)

var stepErrorClasses = map[Step]error{
	StepInitialize: ErrInitialization,
	StepRemote:     ErrRemoteConfig,
	StepBranch:     ErrBranch,
	StepStage:      ErrStaging,
	StepCommit:     ErrCommit,
	StepPush:       ErrPush,
}

// StepError reports the step that aborted the sequence and the underlying cause.
type StepError struct {
	Step Step
	Err  error
}

func (stepError StepError) Error() string {
	return fmt.Sprintf(stepErrorTemplateConstant, stepError.Step, stepError.Err)
}

func (stepError StepError) Unwrap() error {
	return stepError.Err
}

// Is matches the error class of the failing step.
func (stepError StepError) Is(target error) bool {
	errorClass, known := stepErrorClasses[stepError.Step]
	return known && target == errorClass
}

// Diagnostic returns git's own message when the failure came from a git invocation.
func (stepError StepError) Diagnostic() string {
	var commandError execshell.CommandFailedError
	if errors.As(stepError.Err, &commandError) {
		return commandError.Diagnostic()
	}
	return ""
}

// RemoteMismatchError indicates the remote exists with a different URL. The remote is never overwritten.
type RemoteMismatchError struct {
	RemoteName   string
	ExistingURL  string
	RequestedURL string
}

func (mismatchError RemoteMismatchError) Error() string {
	return fmt.Sprintf(remoteMismatchTemplateConstant, mismatchError.RemoteName, mismatchError.ExistingURL, mismatchError.RequestedURL)
}

// RemoteURLRequiredError indicates the remote is absent and no URL is available to add it.
type RemoteURLRequiredError struct {
	RemoteName string
}

func (requiredError RemoteURLRequiredError) Error() string {
	return fmt.Sprintf(remoteURLRequiredTemplateConstant, requiredError.RemoteName)
}

// MissingTargetError indicates a named file neither exists nor appears in the working tree status.
type MissingTargetError struct {
	Path           string
	RepositoryPath string
}

func (missingError MissingTargetError) Error() string {
	return fmt.Sprintf(missingTargetTemplateConstant, missingError.Path, missingError.RepositoryPath)
}

// PushFailureReason classifies a rejected push.
type PushFailureReason string

// Push failure reasons.
const (
	PushFailureNonFastForward PushFailureReason = "non-fast-forward"
	PushFailureAuthentication PushFailureReason = "authentication"
	PushFailureNetwork        PushFailureReason = "network"
	PushFailureUnknown        PushFailureReason = "unknown"
)

var (
	nonFastForwardMarkers = []string{"non-fast-forward", "fetch first", "[rejected]", "updates were rejected"}
	authenticationMarkers = []string{
		"authentication failed",
		"permission denied",
		"could not read username",
		"terminal prompts disabled",
		"invalid username or password",
		"the requested url returned error: 403",
		"the requested url returned error: 401",
	}
	networkMarkers = []string{
		"could not resolve host",
		"could not read from remote repository",
		"unable to access",
		"connection refused",
		"connection timed out",
		"operation timed out",
		"network is unreachable",
		"does not appear to be a git repository",
		"context deadline exceeded",
	}
)

// PushError describes a failed push. Commits created earlier in the run stay in place.
type PushError struct {
	RemoteName string
	BranchName string
	Reason     PushFailureReason
	Err        error
}

func (pushError PushError) Error() string {
	return fmt.Sprintf(pushErrorTemplateConstant, pushError.BranchName, pushError.RemoteName, pushError.Reason, pushError.Err)
}

func (pushError PushError) Unwrap() error {
	return pushError.Err
}

// ClassifyPushFailure maps git's push diagnostic to a PushFailureReason.
func ClassifyPushFailure(diagnostic string) PushFailureReason {
	normalized := strings.ToLower(diagnostic)
	switch {
	case containsAny(normalized, nonFastForwardMarkers):
		return PushFailureNonFastForward
	case containsAny(normalized, authenticationMarkers):
		return PushFailureAuthentication
	case containsAny(normalized, networkMarkers):
		return PushFailureNetwork
	default:
		return PushFailureUnknown
	}
}

func newPushError(remoteName string, branchName string, cause error) PushError {
	diagnostic := cause.Error()
	var commandError execshell.CommandFailedError
	if errors.As(cause, &commandError) {
		diagnostic = commandError.Diagnostic()
	}
	return PushError{RemoteName: remoteName, BranchName: branchName, Reason: ClassifyPushFailure(diagnostic), Err: cause}
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

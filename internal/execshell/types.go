package execshell

import "context"

const (
	commandGitNameConstant = "git"
)

// CommandName identifies an executable invoked through a CommandRunner.
type CommandName string

// CommandGit invokes the git binary found on PATH.
const CommandGit CommandName = CommandName(commandGitNameConstant)

// CommandDetails describes the arguments and environment for a single invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand combines an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of an invocation.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes shell commands. A non-zero exit status is reported
// through ExecutionResult.ExitCode; the error return is reserved for failures
// to start or complete the process.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

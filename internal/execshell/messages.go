package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitInitSubcommandNameConstant         = "init"
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
	gitRemoteAddSubcommandNameConstant    = "add"
	gitBranchSubcommandNameConstant       = "branch"
	gitShowCurrentFlagConstant            = "--show-current"
	gitRevParseSubcommandNameConstant     = "rev-parse"
	gitShowRefSubcommandNameConstant      = "show-ref"
	gitSymbolicRefSubcommandNameConstant  = "symbolic-ref"
	gitSwitchSubcommandNameConstant       = "switch"
	gitCreateFlagConstant                 = "-c"
	gitStatusSubcommandNameConstant       = "status"
	gitAddSubcommandNameConstant          = "add"
	gitAllFlagConstant                    = "--all"
	gitPathSeparatorArgumentConstant      = "--"
	gitDiffSubcommandNameConstant         = "diff"
	gitCachedFlagConstant                 = "--cached"
	gitCommitSubcommandNameConstant       = "commit"
	gitMessageFlagConstant                = "-m"
	gitPushSubcommandNameConstant         = "push"
	gitLogSubcommandNameConstant          = "log"
	gitShowSubcommandNameConstant         = "show"
	gitRevListSubcommandNameConstant      = "rev-list"
	gitAllFilesLabelConstant              = "all changes"
)

// subcommandTemplates holds the four lifecycle templates for one git operation.
// Start and success templates take (subject, directory); failure templates take
// (subject, directory, exit code, stderr suffix); execution failure templates take
// (subject, directory, failure).
type subcommandTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	gitInitTemplates = subcommandTemplates{
		start:            "Initializing %s repository in %s",
		success:          "Initialized %s repository in %s",
		failure:          "Failed to initialize %s repository in %s (exit code %d%s)",
		executionFailure: "Unable to initialize %s repository in %s: %s",
	}
	gitRemoteLookupTemplates = subcommandTemplates{
		start:            "Checking %s remote in %s",
		success:          "Found %s remote in %s",
		failure:          "No usable %s remote in %s (exit code %d%s)",
		executionFailure: "Unable to read %s remote in %s: %s",
	}
	gitRemoteAddTemplates = subcommandTemplates{
		start:            "Adding %s remote in %s",
		success:          "Added %s remote in %s",
		failure:          "Failed to add %s remote in %s (exit code %d%s)",
		executionFailure: "Unable to add %s remote in %s: %s",
	}
	gitCurrentBranchTemplates = subcommandTemplates{
		start:            "Identifying %s branch in %s",
		success:          "Identified %s branch in %s",
		failure:          "Failed to identify %s branch in %s (exit code %d%s)",
		executionFailure: "Unable to identify %s branch in %s: %s",
	}
	gitRevisionTemplates = subcommandTemplates{
		start:            "Resolving %s in %s",
		success:          "Resolved %s in %s",
		failure:          "Could not resolve %s in %s (exit code %d%s)",
		executionFailure: "Unable to resolve %s in %s: %s",
	}
	gitReferenceTemplates = subcommandTemplates{
		start:            "Looking up %s in %s",
		success:          "Found %s in %s",
		failure:          "Did not find %s in %s (exit code %d%s)",
		executionFailure: "Unable to look up %s in %s: %s",
	}
	gitSymbolicReferenceTemplates = subcommandTemplates{
		start:            "Pointing HEAD at %s in %s",
		success:          "HEAD now points at %s in %s",
		failure:          "Failed to point HEAD at %s in %s (exit code %d%s)",
		executionFailure: "Unable to point HEAD at %s in %s: %s",
	}
	gitSwitchTemplates = subcommandTemplates{
		start:            "Switching to branch %s in %s",
		success:          "Switched to branch %s in %s",
		failure:          "Failed to switch to branch %s in %s (exit code %d%s)",
		executionFailure: "Unable to switch to branch %s in %s: %s",
	}
	gitCreateBranchTemplates = subcommandTemplates{
		start:            "Creating branch %s in %s",
		success:          "Created branch %s in %s",
		failure:          "Failed to create branch %s in %s (exit code %d%s)",
		executionFailure: "Unable to create branch %s in %s: %s",
	}
	gitStatusTemplates = subcommandTemplates{
		start:            "Reviewing %s status in %s",
		success:          "Collected %s status for %s",
		failure:          "Failed to review %s status in %s (exit code %d%s)",
		executionFailure: "Unable to review %s status in %s: %s",
	}
	gitAddTemplates = subcommandTemplates{
		start:            "Staging %s in %s",
		success:          "Staged %s in %s",
		failure:          "Failed to stage %s in %s (exit code %d%s)",
		executionFailure: "Unable to stage %s in %s: %s",
	}
	gitDiffTemplates = subcommandTemplates{
		start:            "Comparing %s in %s",
		success:          "No differences in %s in %s",
		failure:          "Differences found in %s in %s (exit code %d%s)",
		executionFailure: "Unable to compare %s in %s: %s",
	}
	gitCommitTemplates = subcommandTemplates{
		start:            "Creating commit %q in %s",
		success:          "Created commit %q in %s",
		failure:          "Failed to create commit %q in %s (exit code %d%s)",
		executionFailure: "Unable to create commit %q in %s: %s",
	}
	gitPushTemplates = subcommandTemplates{
		start:            "Pushing %s from %s",
		success:          "Pushed %s from %s",
		failure:          "Failed to push %s from %s (exit code %d%s)",
		executionFailure: "Unable to push %s from %s: %s",
	}
	gitHistoryTemplates = subcommandTemplates{
		start:            "Reading %s history in %s",
		success:          "Read %s history in %s",
		failure:          "Failed to read %s history in %s (exit code %d%s)",
		executionFailure: "Unable to read %s history in %s: %s",
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	templates, subject, recognized := formatter.describeGitCommand(command.Details.Arguments)
	if !recognized {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, workingDirectory, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeGitCommand(arguments []string) (subcommandTemplates, string, bool) {
	subcommand := strings.TrimSpace(arguments[0])
	remainingArguments := arguments[1:]

	switch subcommand {
	case gitInitSubcommandNameConstant:
		return gitInitTemplates, string(CommandGit), true
	case gitRemoteSubcommandNameConstant:
		operation := formatter.argumentAtIndex(arguments, 1)
		remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
		switch operation {
		case gitRemoteGetURLSubcommandNameConstant:
			return gitRemoteLookupTemplates, remoteName, true
		case gitRemoteAddSubcommandNameConstant:
			return gitRemoteAddTemplates, remoteName, true
		}
	case gitBranchSubcommandNameConstant:
		if containsArgument(remainingArguments, gitShowCurrentFlagConstant) {
			return gitCurrentBranchTemplates, "current", true
		}
	case gitRevParseSubcommandNameConstant:
		return gitRevisionTemplates, formatter.ensureValue(formatter.lastNonFlagArgument(remainingArguments)), true
	case gitShowRefSubcommandNameConstant:
		return gitReferenceTemplates, formatter.ensureValue(formatter.lastNonFlagArgument(remainingArguments)), true
	case gitSymbolicRefSubcommandNameConstant:
		return gitSymbolicReferenceTemplates, formatter.ensureValue(formatter.lastNonFlagArgument(remainingArguments)), true
	case gitSwitchSubcommandNameConstant:
		branchName := formatter.ensureValue(formatter.lastNonFlagArgument(remainingArguments))
		if containsArgument(remainingArguments, gitCreateFlagConstant) {
			return gitCreateBranchTemplates, branchName, true
		}
		return gitSwitchTemplates, branchName, true
	case gitStatusSubcommandNameConstant:
		return gitStatusTemplates, "working tree", true
	case gitAddSubcommandNameConstant:
		if containsArgument(remainingArguments, gitAllFlagConstant) {
			return gitAddTemplates, gitAllFilesLabelConstant, true
		}
		return gitAddTemplates, formatter.ensureValue(strings.Join(formatter.pathArguments(remainingArguments), ", ")), true
	case gitDiffSubcommandNameConstant:
		if containsArgument(remainingArguments, gitCachedFlagConstant) {
			return gitDiffTemplates, "the index", true
		}
		return gitDiffTemplates, formatter.ensureValue(strings.Join(formatter.pathArguments(remainingArguments), ", ")), true
	case gitCommitSubcommandNameConstant:
		return gitCommitTemplates, formatter.findFlagValue(remainingArguments, gitMessageFlagConstant), true
	case gitPushSubcommandNameConstant:
		return gitPushTemplates, formatter.describePushTarget(remainingArguments), true
	case gitLogSubcommandNameConstant, gitShowSubcommandNameConstant, gitRevListSubcommandNameConstant:
		return gitHistoryTemplates, "commit", true
	}

	return subcommandTemplates{}, emptyStringConstant, false
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = commandLabel + commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	workingDirectorySuffix := emptyStringConstant
	if trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory); len(trimmedWorkingDirectory) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) describePushTarget(arguments []string) string {
	nonFlagArguments := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		nonFlagArguments = append(nonFlagArguments, trimmed)
	}
	switch len(nonFlagArguments) {
	case 0:
		return fallbackUnknownValueLabelConstant
	case 1:
		return nonFlagArguments[0]
	default:
		return nonFlagArguments[1] + " to " + nonFlagArguments[0]
	}
}

func (formatter CommandMessageFormatter) pathArguments(arguments []string) []string {
	for index, argument := range arguments {
		if strings.TrimSpace(argument) == gitPathSeparatorArgumentConstant {
			return arguments[index+1:]
		}
	}
	return nil
}

func (formatter CommandMessageFormatter) lastNonFlagArgument(arguments []string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		argument := strings.TrimSpace(arguments[index])
		if len(argument) == 0 || strings.HasPrefix(argument, flagPrefixConstant) {
			continue
		}
		return argument
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return strings.TrimSpace(arguments[index])
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/gitpush/internal/execshell"
	"github.com/temirov/gitpush/internal/filesystem"
	"github.com/temirov/gitpush/internal/gitrepo"
	"github.com/temirov/gitpush/internal/publish"
	"github.com/temirov/gitpush/internal/report"
	"github.com/temirov/gitpush/internal/ui"
	"github.com/temirov/gitpush/internal/utils"
	pathutils "github.com/temirov/gitpush/internal/utils/path"
)

const (
	applicationNameConstant                 = "gitpush"
	applicationShortDescriptionConstant     = "Initialize, commit and push a working directory in one step"
	applicationLongDescriptionConstant      = "gitpush makes sure the directory is a git repository with the configured remote and branch, stages and commits changes, pushes them and prints a repository report. Steps whose state is already satisfied are skipped."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level (debug, info, warn, error)."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	logFileFlagNameConstant                 = "log-file"
	logFileFlagUsageConstant                = "Also write JSON logs to this file (rotated)."
	pathFlagNameConstant                    = "path"
	pathFlagUsageConstant                   = "Working directory to publish."
	remoteFlagNameConstant                  = "remote"
	remoteFlagUsageConstant                 = "Name of the remote to configure and push to."
	remoteURLFlagNameConstant               = "remote-url"
	remoteURLFlagUsageConstant              = "URL of the remote; required when the remote does not exist yet."
	branchFlagNameConstant                  = "branch"
	branchFlagUsageConstant                 = "Branch to switch to (created when missing) and push."
	messageFlagNameConstant                 = "message"
	messageFlagShorthandConstant            = "m"
	messageFlagUsageConstant                = "Commit message."
	filesFlagNameConstant                   = "files"
	filesFlagUsageConstant                  = "Files to stage, or \"all\" for every change."
	forceFlagNameConstant                   = "force"
	forceFlagUsageConstant                  = "Force push the branch."
	timeoutFlagNameConstant                 = "timeout"
	timeoutFlagUsageConstant                = "Timeout for each git invocation (0 disables it)."
	reportDirectoryFlagNameConstant         = "report-dir"
	reportDirectoryFlagUsageConstant        = "Also save the report under this directory."
	reportFormatFlagNameConstant            = "report-format"
	reportFormatFlagUsageConstant           = "Report format (text or yaml)."
	reportDiffsFlagNameConstant             = "report-diffs"
	reportDiffsFlagUsageConstant            = "Include changed lines of uncommitted files in the report."
	environmentPrefixConstant               = "GITPUSH"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	repositoryPathFieldConstant             = "repository_path"
	reportPathFieldConstant                 = "report_path"
	reportArchivedMessageConstant           = "report saved"
	reportArchiveFailedMessageConstant      = "unable to save report"
	reportSavedOutputTemplateConstant       = "REPORT-SAVED: %s\n"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	pathResolutionErrorTemplateConstant     = "unable to resolve %s: %w"
	dependencyErrorTemplateConstant         = "unable to prepare %s: %w"
	reportRenderErrorTemplateConstant       = "unable to print report: %w"
	repositoryPathSubjectConstant           = "repository path"
	reportDirectorySubjectConstant          = "report directory"
	logFileSubjectConstant                  = "log file"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common     CommonConfiguration     `mapstructure:"common"`
	Repository RepositoryConfiguration `mapstructure:"repository"`
	Report     ReportConfiguration     `mapstructure:"report"`
}

// CommonConfiguration stores logging configuration.
type CommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`
}

// RepositoryConfiguration describes the repository to publish.
type RepositoryConfiguration struct {
	Path           string        `mapstructure:"path"`
	RemoteName     string        `mapstructure:"remote_name"`
	RemoteURL      string        `mapstructure:"remote_url"`
	Branch         string        `mapstructure:"branch"`
	CommitMessage  string        `mapstructure:"commit_message"`
	Files          []string      `mapstructure:"files"`
	ForcePush      bool          `mapstructure:"force_push"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

// ReportConfiguration controls how the report is rendered and archived.
type ReportConfiguration struct {
	Directory    string `mapstructure:"directory"`
	Format       string `mapstructure:"format"`
	IncludeDiffs bool   `mapstructure:"include_diffs"`
}

// Dependencies lets callers replace the process-level collaborators. Zero values use the operating system.
type Dependencies struct {
	CommandRunner execshell.CommandRunner
	FileSystem    filesystem.FileSystem
	Clock         report.Clock
	PathResolver  *pathutils.Resolver
}

type flagValues struct {
	configurationFilePath string
	logLevel              string
	logFormat             string
	logFile               string
	path                  string
	remoteName            string
	remoteURL             string
	branch                string
	commitMessage         string
	files                 []string
	forcePush             bool
	commandTimeout        time.Duration
	reportDirectory       string
	reportFormat          string
	reportDiffs           bool
}

// Application wires the Cobra root command, configuration loader, structured logger and publish service.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	flags                 flagValues
	dependencies          Dependencies
}

// NewApplication assembles a CLI application backed by the operating system.
func NewApplication() *Application {
	return NewApplicationWithDependencies(Dependencies{})
}

// NewApplicationWithDependencies assembles a CLI application using the provided collaborators.
func NewApplicationWithDependencies(dependencies Dependencies) *Application {
	if dependencies.CommandRunner == nil {
		dependencies.CommandRunner = execshell.NewOSCommandRunner()
	}
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = filesystem.OSFileSystem{}
	}
	if dependencies.Clock == nil {
		dependencies.Clock = time.Now
	}
	if dependencies.PathResolver == nil {
		dependencies.PathResolver = pathutils.NewResolver(nil, dependencies.FileSystem.Abs)
	}

	configurationLoader := utils.NewConfigurationLoader(utils.ConfigurationSource{
		Name:              configurationNameConstant,
		Type:              configurationTypeConstant,
		EnvironmentPrefix: environmentPrefixConstant,
		SearchPaths:       []string{defaultConfigurationSearchPathConstant},
	})
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		dependencies:        dependencies,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runPublish(command)
		},
	}
	cobraCommand.SetContext(context.Background())

	registerFlags(cobraCommand.Flags(), &application.flags)

	application.rootCommand = cobraCommand
	return application
}

func registerFlags(flagSet *pflag.FlagSet, values *flagValues) {
	flagSet.StringVar(&values.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	flagSet.StringVar(&values.logLevel, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	flagSet.StringVar(&values.logFormat, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	flagSet.StringVar(&values.logFile, logFileFlagNameConstant, "", logFileFlagUsageConstant)
	flagSet.StringVar(&values.path, pathFlagNameConstant, "", pathFlagUsageConstant)
	flagSet.StringVar(&values.remoteName, remoteFlagNameConstant, "", remoteFlagUsageConstant)
	flagSet.StringVar(&values.remoteURL, remoteURLFlagNameConstant, "", remoteURLFlagUsageConstant)
	flagSet.StringVar(&values.branch, branchFlagNameConstant, "", branchFlagUsageConstant)
	flagSet.StringVarP(&values.commitMessage, messageFlagNameConstant, messageFlagShorthandConstant, "", messageFlagUsageConstant)
	flagSet.StringSliceVar(&values.files, filesFlagNameConstant, nil, filesFlagUsageConstant)
	flagSet.BoolVar(&values.forcePush, forceFlagNameConstant, false, forceFlagUsageConstant)
	flagSet.DurationVar(&values.commandTimeout, timeoutFlagNameConstant, 0, timeoutFlagUsageConstant)
	flagSet.StringVar(&values.reportDirectory, reportDirectoryFlagNameConstant, "", reportDirectoryFlagUsageConstant)
	flagSet.StringVar(&values.reportFormat, reportFormatFlagNameConstant, "", reportFormatFlagUsageConstant)
	flagSet.BoolVar(&values.reportDiffs, reportDiffsFlagNameConstant, false, reportDiffsFlagUsageConstant)
}

// Command exposes the root Cobra command, mainly for output redirection.
func (application *Application) Command() *cobra.Command {
	return application.rootCommand
}

// Execute runs the root command and flushes the logger.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		executionError = fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	if closeError := application.loggerFactory.Close(); closeError != nil && executionError == nil {
		executionError = fmt.Errorf(loggerSyncErrorTemplateConstant, closeError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.flags.configurationFilePath, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration
	application.applyFlagOverrides(command)

	logLevel, levelError := utils.ParseLogLevel(application.configuration.Common.LogLevel)
	if levelError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, levelError)
	}
	logFormat, formatError := utils.ParseLogFormat(application.configuration.Common.LogFormat)
	if formatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, formatError)
	}

	logFilePath := strings.TrimSpace(application.configuration.Common.LogFile)
	if len(logFilePath) > 0 {
		resolvedLogFilePath, resolveError := application.dependencies.PathResolver.Resolve(logFilePath)
		if resolveError != nil {
			return fmt.Errorf(pathResolutionErrorTemplateConstant, logFileSubjectConstant, resolveError)
		}
		logFilePath = resolvedLogFilePath
	}

	logger, loggerError := application.loggerFactory.CreateLogger(utils.LoggerConfiguration{
		Level:    logLevel,
		Format:   logFormat,
		FilePath: logFilePath,
		Output:   command.ErrOrStderr(),
	})
	if loggerError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, string(logLevel)),
		zap.String(configurationLogFormatFieldConstant, string(logFormat)),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)
	return nil
}

func (application *Application) applyFlagOverrides(command *cobra.Command) {
	flagSet := command.Flags()
	overrideString := func(flagName string, flagValue string, target *string) {
		if flagSet.Changed(flagName) {
			*target = flagValue
		}
	}

	overrideString(logLevelFlagNameConstant, application.flags.logLevel, &application.configuration.Common.LogLevel)
	overrideString(logFormatFlagNameConstant, application.flags.logFormat, &application.configuration.Common.LogFormat)
	overrideString(logFileFlagNameConstant, application.flags.logFile, &application.configuration.Common.LogFile)
	overrideString(pathFlagNameConstant, application.flags.path, &application.configuration.Repository.Path)
	overrideString(remoteFlagNameConstant, application.flags.remoteName, &application.configuration.Repository.RemoteName)
	overrideString(remoteURLFlagNameConstant, application.flags.remoteURL, &application.configuration.Repository.RemoteURL)
	overrideString(branchFlagNameConstant, application.flags.branch, &application.configuration.Repository.Branch)
	overrideString(messageFlagNameConstant, application.flags.commitMessage, &application.configuration.Repository.CommitMessage)
	overrideString(reportDirectoryFlagNameConstant, application.flags.reportDirectory, &application.configuration.Report.Directory)
	overrideString(reportFormatFlagNameConstant, application.flags.reportFormat, &application.configuration.Report.Format)

	if flagSet.Changed(filesFlagNameConstant) {
		application.configuration.Repository.Files = application.flags.files
	}
	if flagSet.Changed(forceFlagNameConstant) {
		application.configuration.Repository.ForcePush = application.flags.forcePush
	}
	if flagSet.Changed(timeoutFlagNameConstant) {
		application.configuration.Repository.CommandTimeout = application.flags.commandTimeout
	}
	if flagSet.Changed(reportDiffsFlagNameConstant) {
		application.configuration.Report.IncludeDiffs = application.flags.reportDiffs
	}
}

func (application *Application) runPublish(command *cobra.Command) error {
	renderer, rendererError := report.NewRenderer(application.configuration.Report.Format)
	if rendererError != nil {
		return rendererError
	}

	repositoryConfig, configError := application.repositoryConfig()
	if configError != nil {
		return configError
	}

	service, serviceError := application.buildService(command)
	if serviceError != nil {
		return serviceError
	}

	outcome := service.Run(command.Context(), repositoryConfig, publish.RunOptions{
		IncludeDiffs: application.configuration.Report.IncludeDiffs,
	})

	application.archiveReport(command, renderer, outcome.Report)
	if renderError := renderer.Render(command.OutOrStdout(), outcome.Report); renderError != nil && outcome.Err == nil {
		return fmt.Errorf(reportRenderErrorTemplateConstant, renderError)
	}
	return outcome.Err
}

func (application *Application) repositoryConfig() (publish.RepositoryConfig, error) {
	repositoryConfiguration := application.configuration.Repository
	resolvedPath, resolveError := application.dependencies.PathResolver.Resolve(repositoryConfiguration.Path)
	if resolveError != nil {
		return publish.RepositoryConfig{}, fmt.Errorf(pathResolutionErrorTemplateConstant, repositoryPathSubjectConstant, resolveError)
	}
	return publish.RepositoryConfig{
		LocalPath:     resolvedPath,
		RemoteName:    repositoryConfiguration.RemoteName,
		RemoteURL:     repositoryConfiguration.RemoteURL,
		BranchName:    repositoryConfiguration.Branch,
		CommitMessage: repositoryConfiguration.CommitMessage,
		TargetFiles:   repositoryConfiguration.Files,
		ForcePush:     repositoryConfiguration.ForcePush,
	}, nil
}

func (application *Application) buildService(command *cobra.Command) (*publish.Service, error) {
	executorOptions := []execshell.ExecutorOption{
		execshell.WithCommandTimeout(application.configuration.Repository.CommandTimeout),
	}
	if application.humanReadableLoggingEnabled() {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(application.logger)))
	}

	executor, executorError := execshell.NewShellExecutor(application.logger, application.dependencies.CommandRunner, executorOptions...)
	if executorError != nil {
		return nil, fmt.Errorf(dependencyErrorTemplateConstant, "git executor", executorError)
	}
	manager, managerError := gitrepo.NewRepositoryManager(executor)
	if managerError != nil {
		return nil, fmt.Errorf(dependencyErrorTemplateConstant, "repository manager", managerError)
	}
	collector, collectorError := report.NewCollector(manager, application.dependencies.FileSystem, application.dependencies.Clock)
	if collectorError != nil {
		return nil, fmt.Errorf(dependencyErrorTemplateConstant, "report collector", collectorError)
	}
	return publish.NewService(publish.ServiceDependencies{
		Repository: manager,
		FileSystem: application.dependencies.FileSystem,
		Reporter:   collector,
		Logger:     application.logger,
		Output:     command.OutOrStdout(),
	})
}

func (application *Application) archiveReport(command *cobra.Command, renderer report.Renderer, collected report.Report) {
	reportDirectory := strings.TrimSpace(application.configuration.Report.Directory)
	if len(reportDirectory) == 0 {
		return
	}

	resolvedDirectory, resolveError := application.dependencies.PathResolver.Resolve(reportDirectory)
	if resolveError != nil {
		application.logger.Warn(reportArchiveFailedMessageConstant, zap.Error(fmt.Errorf(pathResolutionErrorTemplateConstant, reportDirectorySubjectConstant, resolveError)))
		return
	}

	archivePath, archiveError := report.Archive(application.dependencies.FileSystem, resolvedDirectory, renderer, collected)
	if archiveError != nil {
		application.logger.Warn(reportArchiveFailedMessageConstant, zap.String(repositoryPathFieldConstant, collected.RepositoryPath), zap.Error(archiveError))
		return
	}
	fmt.Fprintf(command.OutOrStdout(), reportSavedOutputTemplateConstant, archivePath)
	application.logger.Info(reportArchivedMessageConstant, zap.String(reportPathFieldConstant, archivePath))
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(application.configuration.Common.LogFormat), string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}
	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP), errors.Is(syncError, syscall.EINVAL), errors.Is(syncError, syscall.ENOTTY), errors.Is(syncError, syscall.EBADF):
		return nil
	default:
		return syncError
	}
}

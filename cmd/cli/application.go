package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/procstream/internal/cooperative"
	"github.com/temirov/procstream/internal/utils"
	flagutils "github.com/temirov/procstream/internal/utils/flags"
	"github.com/temirov/procstream/internal/verbs"
)

const (
	applicationNameConstant                 = "procstream"
	applicationShortDescriptionConstant     = "Stream the output of child processes line by line"
	applicationLongDescriptionConstant      = "procstream runs commands through pipe, pseudo-terminal, or cooperative engines and relays their output as complete lines."
	verbGroupConstant                       = "procstream.verbs"
	verbGroupTitleConstant                  = "Verbs"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	environmentPrefixConstant               = "PROCSTREAM"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	verbSetupErrorTemplateConstant          = "unable to register verbs: %w"
	rootCommandDebugMessageConstant         = "procstream CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
)

// verbDescriptorSource is implemented by every verb builder.
type verbDescriptorSource interface {
	Descriptor() verbs.Descriptor
}

// Application wires the Cobra root command, verb registry, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
	verbRegistry           *verbs.Registry
	argumentPreprocessors  map[string]verbs.ArgumentPreprocessor
	loopProvider           *cooperative.LoopProvider
	setupError             error
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		verbRegistry:           verbs.NewRegistry(),
		loopProvider:           cooperative.NewLoopProvider(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	flagutils.AddChoiceFlag(
		cobraCommand.PersistentFlags(),
		&application.logLevelFlagValue,
		logLevelFlagNameConstant,
		string(utils.LogLevelInfo),
		[]string{string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError)},
		logLevelFlagUsageConstant,
	)
	flagutils.AddChoiceFlag(
		cobraCommand.PersistentFlags(),
		&application.logFormatFlagValue,
		logFormatFlagNameConstant,
		string(utils.LogFormatStructured),
		[]string{string(utils.LogFormatStructured), string(utils.LogFormatConsole)},
		logFormatFlagUsageConstant,
	)

	application.rootCommand = cobraCommand
	application.setupError = application.registerVerbs()

	return application
}

func (application *Application) registerVerbs() error {
	loggerProvider := func() *zap.Logger {
		return application.logger
	}
	executionConfigurationProvider := func() ApplicationExecutionConfiguration {
		return application.configuration.Execution
	}

	builders := []verbDescriptorSource{
		&ExecutionCommandBuilder{
			Verb:                         runVerbNameConstant,
			Description:                  runVerbDescriptionConstant,
			LoggerProvider:               loggerProvider,
			HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
			ConfigurationProvider:        executionConfigurationProvider,
			ContextAccessor:              application.commandContextAccessor,
		},
		&ExecutionCommandBuilder{
			Verb:                         splitVerbNameConstant,
			Description:                  splitVerbDescriptionConstant,
			SplitStreams:                 true,
			LoggerProvider:               loggerProvider,
			HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
			ConfigurationProvider:        executionConfigurationProvider,
			ContextAccessor:              application.commandContextAccessor,
		},
		&WatchCommandBuilder{
			LoggerProvider:               loggerProvider,
			HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
			ConfigurationProvider:        executionConfigurationProvider,
			LoopProvider:                 application.loopProvider,
			ContextAccessor:              application.commandContextAccessor,
		},
		&WhichCommandBuilder{
			LoggerProvider: loggerProvider,
			ConfigurationProvider: func() ApplicationWhichConfiguration {
				return application.configuration.Which
			},
		},
		&ConfigurationCommandBuilder{
			ConfigurationProvider: func() ApplicationConfiguration {
				return application.configuration
			},
			MetadataProvider: func() utils.LoadedConfiguration {
				return application.configurationMetadata
			},
			ContextAccessor: application.commandContextAccessor,
		},
	}

	verbNames := make([]string, 0, len(builders))
	for _, builder := range builders {
		descriptor := builder.Descriptor()
		if registrationError := application.verbRegistry.Register(verbGroupConstant, descriptor); registrationError != nil {
			return fmt.Errorf(verbSetupErrorTemplateConstant, registrationError)
		}
		verbNames = append(verbNames, descriptor.Verb)
	}

	argumentPreprocessors, _, creationError := verbs.CreateSubcommands(
		application.rootCommand,
		applicationNameConstant,
		verbNames,
		application.verbRegistry,
		verbGroupConstant,
		nil,
		verbGroupTitleConstant,
	)
	if creationError != nil {
		return fmt.Errorf(verbSetupErrorTemplateConstant, creationError)
	}
	application.argumentPreprocessors = argumentPreprocessors
	return nil
}

// SetOutput redirects command output, which defaults to the process standard streams.
func (application *Application) SetOutput(standardOutput io.Writer, standardError io.Writer) {
	application.rootCommand.SetOut(standardOutput)
	application.rootCommand.SetErr(standardError)
}

// Execute runs the application with the process arguments.
func (application *Application) Execute() error {
	return application.ExecuteWithArguments(context.Background(), os.Args[1:])
}

// ExecuteWithArguments runs the command hierarchy with arguments until it finishes or the
// process receives an interrupt. A child exit status or an interrupt is reported as ExitStatusError.
func (application *Application) ExecuteWithArguments(parentContext context.Context, arguments []string) error {
	if application.setupError != nil {
		return application.setupError
	}
	if parentContext == nil {
		parentContext = context.Background()
	}

	joinedArguments := joinSeparatedFlagValues(arguments, application.isValueFlag)
	processedArguments, extras := verbs.PreprocessArguments(joinedArguments, application.argumentPreprocessors)
	if processedArguments == nil {
		processedArguments = []string{}
	}
	application.rootCommand.SetArgs(processedArguments)

	executionContext, cancelExecution := context.WithCancel(application.commandContextAccessor.WithVerbExtras(parentContext, extras))
	defer cancelExecution()

	var actors run.Group
	actors.Add(func() error {
		return application.rootCommand.ExecuteContext(executionContext)
	}, func(error) {
		cancelExecution()
	})
	actors.Add(run.SignalHandler(executionContext, os.Interrupt, syscall.SIGTERM))
	executionError := actors.Run()

	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}

	var signalError run.SignalError
	if errors.As(executionError, &signalError) {
		if signalNumber, isSyscallSignal := signalError.Signal.(syscall.Signal); isSyscallSignal {
			return exitStatusFromSignal(signalNumber)
		}
	}
	return executionError
}

// Execute builds a fresh application instance and executes it with the process arguments.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, DefaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	return command.Help()
}

// isValueFlag reports whether name is a root flag that consumes a value.
func (application *Application) isValueFlag(name string) bool {
	flag := application.rootCommand.PersistentFlags().Lookup(name)
	return flag != nil && flag.Value.Type() != booleanFlagTypeConstant
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/procstream/internal/execshell"
	"github.com/temirov/procstream/internal/ui"
	"github.com/temirov/procstream/internal/utils"
	flagutils "github.com/temirov/procstream/internal/utils/flags"
	pathutils "github.com/temirov/procstream/internal/utils/path"
	"github.com/temirov/procstream/internal/verbs"
)

const (
	runVerbNameConstant          = "run"
	runVerbDescriptionConstant   = "Run a command and stream its combined output line by line"
	splitVerbNameConstant        = "split"
	splitVerbDescriptionConstant = "Run a command and stream standard output and standard error separately"
	executionUseSuffixConstant   = " [flags] -- command [arguments...]"
)

// ExecutionCommandBuilder assembles the run and split verbs.
type ExecutionCommandBuilder struct {
	Verb                         string
	Description                  string
	SplitStreams                 bool
	LoggerProvider               func() *zap.Logger
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() ApplicationExecutionConfiguration
	TerminalDetector             func() bool
	ContextAccessor              utils.CommandContextAccessor
	flagValues                   *flagutils.ExecutionFlagValues
}

// Descriptor returns the verb descriptor registered with the verb registry.
func (builder *ExecutionCommandBuilder) Descriptor() verbs.Descriptor {
	return verbs.Descriptor{
		Verb:                 builder.Verb,
		Description:          builder.Description,
		PrepareArguments:     builder.prepareArguments,
		Main:                 builder.run,
		ArgumentPreprocessor: commandArgumentPreprocessor,
	}
}

func (builder *ExecutionCommandBuilder) prepareArguments(command *cobra.Command, _ []string) *cobra.Command {
	command.Use = builder.Verb + executionUseSuffixConstant
	command.Args = cobra.ArbitraryArgs
	command.Flags().SetInterspersed(false)
	builder.flagValues = flagutils.BindExecutionFlags(command, flagutils.ExecutionFlagValues{EmulateTerminal: flagutils.TriStateAuto}, flagutils.DefaultExecutionFlagDefinitions())
	return nil
}

func (builder *ExecutionCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := resolveConfiguration(builder.ConfigurationProvider)
	logger := resolveLogger(builder.LoggerProvider)
	humanReadable := builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()

	terminalDetector := builder.TerminalDetector
	if terminalDetector == nil {
		terminalDetector = func() bool {
			return writerIsTerminal(command.OutOrStdout())
		}
	}
	shellCommand, commandError := buildVerbCommand(command, arguments, configuration, builder.flagValues, builder.ContextAccessor, terminalDetector)
	if commandError != nil {
		return commandError
	}

	engineOptions := configuration.engineOptions()
	engineOptions.Logger = logger
	executor, executorError := execshell.NewShellExecutor(
		logger,
		execshell.WithEngineOptions(engineOptions),
		execshell.WithHumanReadableLogging(humanReadable),
		execshell.WithPtyFallback(configuration.PtyFallback),
	)
	if executorError != nil {
		return executorError
	}

	standardOutput := utils.NewFlushingWriter(command.OutOrStdout())
	standardError := utils.NewFlushingWriter(command.ErrOrStderr())
	defer func() {
		_ = standardOutput.Flush()
		_ = standardError.Flush()
	}()
	printer := ui.NewOutputPrinter(standardOutput, standardError)

	executionContext := commandContext(command)
	var exitCode int
	var printError error
	if builder.SplitStreams {
		execution, startError := executor.ExecuteSplit(executionContext, shellCommand)
		if startError != nil {
			return startError
		}
		defer execution.Close()
		exitCode, printError = printer.PrintUnits(executionContext, execution.Units())
	} else {
		execution, startError := executor.Execute(executionContext, shellCommand)
		if startError != nil {
			return startError
		}
		defer execution.Close()
		exitCode, printError = printer.PrintLines(executionContext, execution.Lines())
	}
	if printError != nil {
		return printError
	}
	return exitStatusFromCode(exitCode)
}

// buildVerbCommand merges configuration defaults with explicitly set flags and builds the command.
func buildVerbCommand(command *cobra.Command, arguments []string, configuration ApplicationExecutionConfiguration, flagValues *flagutils.ExecutionFlagValues, accessor utils.CommandContextAccessor, terminalDetector func() bool) (execshell.ShellCommand, error) {
	if flagValues == nil {
		flagValues = &flagutils.ExecutionFlagValues{}
	}

	terminalMode, terminalModeError := flagutils.ParseTriState(configuration.EmulateTerminal)
	if terminalModeError != nil {
		return execshell.ShellCommand{}, terminalModeError
	}
	if command.Flags().Changed(flagutils.TerminalFlagName) {
		terminalMode = flagValues.EmulateTerminal
	}

	useShell := configuration.UseShell
	if command.Flags().Changed(flagutils.ShellFlagName) {
		useShell = flagValues.UseShell
	}

	workingDirectory := configuration.WorkingDirectory
	if command.Flags().Changed(flagutils.WorkingDirectoryFlagName) {
		workingDirectory = flagValues.WorkingDirectory
	}
	workingDirectory = pathutils.NewSearchPathSanitizerWithConfiguration(nil, pathutils.SearchPathSanitizerConfiguration{ResolveRelative: true}).SanitizeDirectory(workingDirectory)

	environmentAssignments := append(append([]string{}, configuration.Environment...), flagValues.Environment...)
	environment, environmentError := flagutils.ParseEnvironmentAssignments(environmentAssignments)
	if environmentError != nil {
		return execshell.ShellCommand{}, environmentError
	}

	commandVector, vectorError := resolveCommandVector(accessor.VerbExtras(command.Context()), arguments, useShell)
	if vectorError != nil {
		return execshell.ShellCommand{}, vectorError
	}

	return buildShellCommand(commandVector, execshell.CommandDetails{
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: environment,
		UseShell:             useShell,
		EmulateTerminal:      terminalMode.Resolve(terminalDetector),
	})
}

func resolveConfiguration(provider func() ApplicationExecutionConfiguration) ApplicationExecutionConfiguration {
	if provider == nil {
		return ApplicationExecutionConfiguration{EmulateTerminal: string(flagutils.TriStateAuto), PtyFallback: true}
	}
	return provider()
}

func resolveLogger(provider func() *zap.Logger) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	if logger := provider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

func commandContext(command *cobra.Command) context.Context {
	if command == nil || command.Context() == nil {
		return context.Background()
	}
	return command.Context()
}

// writerIsTerminal reports whether writer is a file attached to a terminal.
func writerIsTerminal(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

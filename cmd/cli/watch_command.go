package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/procstream/internal/cooperative"
	"github.com/temirov/procstream/internal/execshell"
	"github.com/temirov/procstream/internal/ui"
	"github.com/temirov/procstream/internal/utils"
	flagutils "github.com/temirov/procstream/internal/utils/flags"
	"github.com/temirov/procstream/internal/verbs"
)

const (
	watchVerbNameConstant        = "watch"
	watchVerbDescriptionConstant = "Run a command on the cooperative event loop and relay its output as it arrives"
	watchMergeFlagNameConstant   = "merge"
	watchMergeFlagUsageConstant  = "Deliver standard error on the standard output stream"
	cooperativeEngineConstant    = "cooperative"
)

// WatchCommandBuilder assembles the watch verb backed by the cooperative engine.
type WatchCommandBuilder struct {
	LoggerProvider               func() *zap.Logger
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() ApplicationExecutionConfiguration
	LoopProvider                 *cooperative.LoopProvider
	ContextAccessor              utils.CommandContextAccessor
	flagValues                   *flagutils.ExecutionFlagValues
	mergeStandardError           bool
}

// Descriptor returns the verb descriptor registered with the verb registry.
func (builder *WatchCommandBuilder) Descriptor() verbs.Descriptor {
	return verbs.Descriptor{
		Verb:                 watchVerbNameConstant,
		Description:          watchVerbDescriptionConstant,
		PrepareArguments:     builder.prepareArguments,
		Main:                 builder.run,
		ArgumentPreprocessor: commandArgumentPreprocessor,
	}
}

func (builder *WatchCommandBuilder) prepareArguments(command *cobra.Command, _ []string) *cobra.Command {
	command.Use = watchVerbNameConstant + executionUseSuffixConstant
	command.Args = cobra.ArbitraryArgs
	command.Flags().SetInterspersed(false)

	definitions := flagutils.DefaultExecutionFlagDefinitions()
	definitions.EmulateTerminal.Enabled = false
	builder.flagValues = flagutils.BindExecutionFlags(command, flagutils.ExecutionFlagValues{}, definitions)
	flagutils.AddToggleFlag(command.Flags(), &builder.mergeStandardError, watchMergeFlagNameConstant, "", false, watchMergeFlagUsageConstant)
	return nil
}

func (builder *WatchCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := resolveConfiguration(builder.ConfigurationProvider)
	configuration.EmulateTerminal = string(flagutils.TriStateDisabled)
	logger := resolveLogger(builder.LoggerProvider)
	humanReadable := builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()

	shellCommand, commandError := buildVerbCommand(command, arguments, configuration, builder.flagValues, builder.ContextAccessor, nil)
	if commandError != nil {
		return commandError
	}

	loopProvider := builder.LoopProvider
	if loopProvider == nil {
		loopProvider = cooperative.NewLoopProvider()
	}
	loop, loopError := loopProvider.Acquire()
	if loopError != nil {
		return loopError
	}
	defer func() {
		_ = loopProvider.Close()
	}()

	standardOutput := utils.NewFlushingWriter(command.OutOrStdout())
	standardError := utils.NewFlushingWriter(command.ErrOrStderr())
	defer func() {
		_ = standardOutput.Flush()
		_ = standardError.Flush()
	}()
	protocolFactory := func(completion *cooperative.Completion) cooperative.Protocol {
		protocol := cooperative.NewBaseProtocol(completion)
		protocol.StandardOutput = standardOutput
		protocol.StandardError = standardError
		return protocol
	}

	eventLogger := ui.NewCommandEventLogger(logger, cooperativeEngineConstant, humanReadable)
	executionContext := commandContext(command)
	transport, protocol, startError := cooperative.ExecuteProcess(
		executionContext,
		loop,
		protocolFactory,
		shellCommand,
		builder.mergeStandardError,
		cooperative.WithChunkSize(configuration.ChunkSize),
		cooperative.WithLogger(logger),
	)
	if startError != nil {
		eventLogger.CommandExecutionFailed(shellCommand, startError)
		return startError
	}
	eventLogger.CommandStarted(shellCommand)
	_ = transport.CloseStandardInput()

	exitCode, waitError := protocol.Completion().Wait(executionContext)
	if waitError != nil {
		killError := transport.Kill()
		failure := errors.Join(waitError, killError)
		eventLogger.CommandExecutionFailed(shellCommand, failure)
		return waitError
	}
	eventLogger.CommandCompleted(shellCommand, execshell.ExecutionResult{ExitCode: exitCode})
	return exitStatusFromCode(exitCode)
}

package execshell

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	commandFieldNameConstant          = "command"
	workingDirectoryFieldNameConstant = "working_directory"
	exitCodeFieldNameConstant         = "exit_code"
	terminalFieldNameConstant         = "tty"
)

// ShellExecutorOption customizes a ShellExecutor.
type ShellExecutorOption func(*ShellExecutor)

// WithPipeSource replaces the engine used for commands without a terminal.
func WithPipeSource(source StreamSource) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		if source == nil {
			executor.configurationError = ErrStreamSourceNotConfigured
			return
		}
		executor.pipeSource = source
	}
}

// WithPtySource replaces the engine used for commands that emulate a terminal.
// A replacement is used even where PtySupported reports false.
func WithPtySource(source StreamSource) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		if source == nil {
			executor.configurationError = ErrStreamSourceNotConfigured
			return
		}
		executor.ptySource = source
		executor.ptySupported = true
	}
}

// WithEngineOptions configures the default pipe and pty engines.
func WithEngineOptions(options EngineOptions) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		executor.engineOptions = options
	}
}

// WithCommandEventObserver registers an observer for lifecycle notifications.
func WithCommandEventObserver(observer CommandEventObserver) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		if observer != nil {
			executor.observer = observer
		}
	}
}

// WithHumanReadableLogging drops structured fields from lifecycle log entries.
func WithHumanReadableLogging(enabled bool) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		executor.humanReadableLogging = enabled
	}
}

// WithPtyFallback controls whether a failed terminal allocation retries the command with pipes.
func WithPtyFallback(enabled bool) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		executor.ptyFallback = enabled
	}
}

// ShellExecutor selects an engine for each command and reports its lifecycle.
type ShellExecutor struct {
	logger               *zap.Logger
	pipeSource           StreamSource
	ptySource            StreamSource
	engineOptions        EngineOptions
	observer             CommandEventObserver
	formatter            CommandMessageFormatter
	humanReadableLogging bool
	ptyFallback          bool
	ptySupported         bool
	configurationError   error
}

// NewShellExecutor constructs a ShellExecutor. A logger is required.
func NewShellExecutor(logger *zap.Logger, options ...ShellExecutorOption) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}

	executor := &ShellExecutor{
		logger:       logger,
		observer:     noopCommandEventObserver{},
		formatter:    CommandMessageFormatter{},
		ptyFallback:  true,
		ptySupported: PtySupported(),
	}
	for _, option := range options {
		option(executor)
	}
	if executor.configurationError != nil {
		return nil, executor.configurationError
	}

	engineOptions := executor.engineOptions
	if engineOptions.Logger == nil {
		engineOptions.Logger = logger
	}
	if executor.pipeSource == nil {
		executor.pipeSource = NewPipeSource(engineOptions)
	}
	if executor.ptySource == nil {
		executor.ptySource = NewPtySource(engineOptions)
	}

	return executor, nil
}

// Execute starts the command with standard error merged into standard output.
// Consume the result with Execution.Lines or Execution.Units.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (*Execution, error) {
	return executor.start(executionContext, command, true, true)
}

// ExecuteSplit starts the command with separate standard output and standard error streams.
// Consume the result with Execution.Units.
func (executor *ShellExecutor) ExecuteSplit(executionContext context.Context, command ShellCommand) (*Execution, error) {
	return executor.start(executionContext, command, false, true)
}

// Run executes the command to completion and collects its output. A non-zero exit code is
// reported as CommandFailedError; failures that prevent a result as CommandExecutionError.
func (executor *ShellExecutor) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	execution, startError := executor.start(executionContext, command, false, false)
	if startError != nil {
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: startError}
	}

	var standardOutputBuilder strings.Builder
	var standardErrorBuilder strings.Builder
	result := ExecutionResult{}
	for unit, unitError := range execution.Units() {
		if unitError != nil {
			executor.reportFailure(command, unitError)
			return ExecutionResult{}, CommandExecutionError{Command: command, Cause: unitError}
		}
		switch unit.Kind {
		case UnitStandardOutput:
			standardOutputBuilder.Write(unit.Data)
		case UnitStandardError:
			standardErrorBuilder.Write(unit.Data)
		case UnitExitCode:
			result.ExitCode = unit.Code
		}
	}
	result.StandardOutput = standardOutputBuilder.String()
	result.StandardError = standardErrorBuilder.String()

	executor.reportCompletion(command, result)
	if result.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: command, Result: result}
	}
	return result, nil
}

func (executor *ShellExecutor) start(executionContext context.Context, command ShellCommand, mergeStandardError bool, reportOnFinish bool) (*Execution, error) {
	executor.reportStart(command)

	execution, startError := executor.startWithSelectedSource(executionContext, command, mergeStandardError)
	if startError != nil {
		executor.reportFailure(command, startError)
		return nil, startError
	}

	if reportOnFinish {
		execution.onFinish = func(exitCode int, failure error) {
			if failure != nil {
				executor.reportFailure(command, failure)
				return
			}
			executor.reportCompletion(command, ExecutionResult{ExitCode: exitCode})
		}
	}
	return execution, nil
}

func (executor *ShellExecutor) startWithSelectedSource(executionContext context.Context, command ShellCommand, mergeStandardError bool) (*Execution, error) {
	if !command.Details.EmulateTerminal || !executor.ptySupported {
		return executor.pipeSource.Start(executionContext, command, mergeStandardError)
	}

	execution, startError := executor.ptySource.Start(executionContext, command, mergeStandardError)
	if startError == nil {
		return execution, nil
	}
	if !executor.ptyFallback || !(errors.Is(startError, ErrPtyUnavailable) || errors.Is(startError, ErrPtyUnsupported)) {
		return nil, startError
	}
	executor.logger.Warn(executor.formatter.BuildPtyFallbackMessage(command, startError))
	return executor.pipeSource.Start(executionContext, command, mergeStandardError)
}

func (executor *ShellExecutor) reportStart(command ShellCommand) {
	executor.observer.CommandStarted(command)
	executor.logger.Info(executor.formatter.BuildStartedMessage(command), executor.commandFields(command)...)
}

func (executor *ShellExecutor) reportCompletion(command ShellCommand, result ExecutionResult) {
	executor.observer.CommandCompleted(command, result)
	fields := append(executor.commandFields(command), executor.optionalField(zap.Int(exitCodeFieldNameConstant, result.ExitCode))...)
	if result.ExitCode == 0 {
		executor.logger.Info(executor.formatter.BuildSuccessMessage(command), fields...)
		return
	}
	executor.logger.Warn(executor.formatter.BuildFailureMessage(command, result), fields...)
}

func (executor *ShellExecutor) reportFailure(command ShellCommand, failure error) {
	executor.observer.CommandExecutionFailed(command, failure)
	fields := append(executor.commandFields(command), executor.optionalField(zap.Error(failure))...)
	executor.logger.Error(executor.formatter.BuildExecutionFailureMessage(command, failure), fields...)
}

func (executor *ShellExecutor) commandFields(command ShellCommand) []zap.Field {
	if executor.humanReadableLogging {
		return nil
	}
	return []zap.Field{
		zap.String(commandFieldNameConstant, command.Label()),
		zap.String(workingDirectoryFieldNameConstant, command.Details.WorkingDirectory),
		zap.Bool(terminalFieldNameConstant, command.Details.EmulateTerminal),
	}
}

func (executor *ShellExecutor) optionalField(field zap.Field) []zap.Field {
	if executor.humanReadableLogging {
		return nil
	}
	return []zap.Field{field}
}

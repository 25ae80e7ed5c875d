package ui

import (
	"go.uber.org/zap"

	"github.com/temirov/procstream/internal/execshell"
)

const (
	commandFieldNameConstant  = "command"
	exitCodeFieldNameConstant = "exit_code"
	engineFieldNameConstant   = "engine"
)

// CommandEventLogger renders command lifecycle events for executions that do not run through
// execshell.ShellExecutor, such as the cooperative engine. It implements
// execshell.CommandEventObserver.
type CommandEventLogger struct {
	logger        *zap.Logger
	formatter     execshell.CommandMessageFormatter
	engine        string
	humanReadable bool
}

// NewCommandEventLogger constructs an event logger. Human-readable loggers omit structured fields.
func NewCommandEventLogger(logger *zap.Logger, engine string, humanReadable bool) *CommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}, engine: engine, humanReadable: humanReadable}
}

// CommandStarted logs the start notification.
func (eventLogger *CommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command), eventLogger.fields(command)...)
}

// CommandCompleted logs the exit: info for code zero, warn otherwise.
func (eventLogger *CommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	fields := eventLogger.fields(command, zap.Int(exitCodeFieldNameConstant, result.ExitCode))
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command), fields...)
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result), fields...)
}

// CommandExecutionFailed logs failures that prevented a result.
func (eventLogger *CommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure), eventLogger.fields(command, zap.Error(failure))...)
}

func (eventLogger *CommandEventLogger) fields(command execshell.ShellCommand, extraFields ...zap.Field) []zap.Field {
	if eventLogger.humanReadable {
		return nil
	}
	fields := []zap.Field{zap.String(commandFieldNameConstant, command.Label())}
	if len(eventLogger.engine) > 0 {
		fields = append(fields, zap.String(engineFieldNameConstant, eventLogger.engine))
	}
	return append(fields, extraFields...)
}

package execshell

import (
	"errors"
	"fmt"
)

const (
	loggerNotConfiguredMessageConstant       = "execshell: logger not configured"
	streamSourceNotConfiguredMessageConstant = "execshell: stream source not configured"
	launchFailedMessageConstant              = "execshell: launch failed"
	ptyUnavailableMessageConstant            = "execshell: pty unavailable"
	ptyUnsupportedMessageConstant            = "execshell: pty not supported on this platform"
	streamReadMessageConstant                = "execshell: stream read failed"
	executionConsumedMessageConstant         = "execshell: execution output already consumed"
	emptyCommandMessageConstant              = "execshell: command must name a program"
	executionAbandonedMessageConstant        = "execshell: execution closed before the process exited"
	launchErrorTemplateConstant              = "%s: %s: %v"
	ptyAllocationErrorTemplateConstant       = "%s: %v"
	streamReadErrorTemplateConstant          = "%s (%s): %v"
	commandFailedErrorTemplateConstant       = "%s exited with code %d"
	commandExecutionErrorTemplateConstant    = "%s failed: %v"
)

// Sentinel errors reported by the execution engines and the facade.
var (
	// ErrLoggerNotConfigured indicates that a logger was not supplied.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrStreamSourceNotConfigured indicates that a nil stream source was supplied.
	ErrStreamSourceNotConfigured = errors.New(streamSourceNotConfiguredMessageConstant)
	// ErrLaunchFailed matches every LaunchError.
	ErrLaunchFailed = errors.New(launchFailedMessageConstant)
	// ErrPtyUnavailable matches every PtyAllocationError.
	ErrPtyUnavailable = errors.New(ptyUnavailableMessageConstant)
	// ErrPtyUnsupported reports that the host platform cannot allocate pseudo-terminals.
	ErrPtyUnsupported = errors.New(ptyUnsupportedMessageConstant)
	// ErrStreamRead matches every StreamReadError.
	ErrStreamRead = errors.New(streamReadMessageConstant)
	// ErrExecutionConsumed is yielded when the output of an execution is iterated twice.
	ErrExecutionConsumed = errors.New(executionConsumedMessageConstant)
	// ErrEmptyCommand indicates a command without a program name.
	ErrEmptyCommand = errors.New(emptyCommandMessageConstant)
	// ErrExecutionAbandoned is reported when output iteration stops before the exit unit.
	ErrExecutionAbandoned = errors.New(executionAbandonedMessageConstant)
)

// LaunchError reports that the child process could not be started.
type LaunchError struct {
	Command ShellCommand
	Err     error
}

// Error describes the launch failure.
func (launchError *LaunchError) Error() string {
	return fmt.Sprintf(launchErrorTemplateConstant, launchFailedMessageConstant, launchError.Command.Label(), launchError.Err)
}

// Unwrap exposes the underlying operating system error.
func (launchError *LaunchError) Unwrap() error {
	return launchError.Err
}

// Is matches ErrLaunchFailed.
func (launchError *LaunchError) Is(target error) bool {
	return target == ErrLaunchFailed
}

// PtyAllocationError reports that a pseudo-terminal pair could not be allocated.
type PtyAllocationError struct {
	Err error
}

// Error describes the allocation failure.
func (allocationError *PtyAllocationError) Error() string {
	return fmt.Sprintf(ptyAllocationErrorTemplateConstant, ptyUnavailableMessageConstant, allocationError.Err)
}

// Unwrap exposes the underlying operating system error.
func (allocationError *PtyAllocationError) Unwrap() error {
	return allocationError.Err
}

// Is matches ErrPtyUnavailable.
func (allocationError *PtyAllocationError) Is(target error) bool {
	return target == ErrPtyUnavailable
}

// StreamReadError reports a read failure other than end-of-stream.
type StreamReadError struct {
	Stream UnitKind
	Err    error
}

// Error describes the read failure.
func (readError *StreamReadError) Error() string {
	return fmt.Sprintf(streamReadErrorTemplateConstant, streamReadMessageConstant, readError.Stream, readError.Err)
}

// Unwrap exposes the underlying read error.
func (readError *StreamReadError) Unwrap() error {
	return readError.Err
}

// Is matches ErrStreamRead.
func (readError *StreamReadError) Is(target error) bool {
	return target == ErrStreamRead
}

// CommandFailedError indicates that a collected command exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failing command.
func (failedError CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, failedError.Command.Label(), failedError.Result.ExitCode)
}

// CommandExecutionError wraps failures that prevented a collected command from completing.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, executionError.Command.Label(), executionError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

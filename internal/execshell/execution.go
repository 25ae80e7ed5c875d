package execshell

import (
	"context"
	"errors"
	"iter"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/temirov/procstream/internal/linebuffer"
)

const (
	// DefaultChunkSize bounds a single read from a child stream.
	DefaultChunkSize = 1024

	streamEndedLogMessageConstant       = "Child stream reached end of file"
	processExitedLogMessageConstant     = "Child process exited"
	executionClosedLogMessageConstant   = "Execution descriptors closed"
	executionCloseFailedMessageConstant = "Closing execution descriptors failed"
	streamLogFieldNameConstant          = "stream"
	commandLogFieldNameConstant         = "command"
	exitCodeLogFieldNameConstant        = "exit_code"
	processIdentifierLogFieldConstant   = "pid"
)

// EngineOptions tunes the blocking engines.
type EngineOptions struct {
	// ChunkSize bounds each read. Zero selects DefaultChunkSize.
	ChunkSize int
	// LineSeparator is the terminator that empties the left-over buffer.
	// Empty selects linebuffer.DefaultSeparator.
	LineSeparator string
	// Logger receives debug-level engine events. Nil disables them.
	Logger *zap.Logger
}

func (options EngineOptions) normalized() EngineOptions {
	if options.ChunkSize <= 0 {
		options.ChunkSize = DefaultChunkSize
	}
	if len(options.LineSeparator) == 0 {
		options.LineSeparator = linebuffer.DefaultSeparator
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	return options
}

// StreamSource starts a command and exposes its output as an Execution.
type StreamSource interface {
	Start(executionContext context.Context, command ShellCommand, mergeStandardError bool) (*Execution, error)
}

// Execution is a started child process whose output has not been consumed yet.
// The output must be consumed with Units or Lines, or released with Close.
type Execution struct {
	command    ShellCommand
	options    EngineOptions
	streams    []*streamHandle
	standardIn *os.File
	poller     *readinessPoller
	processID  int
	exited     chan struct{}
	exitCode   int
	waitError  error
	consumed   atomic.Bool
	closeOnce  sync.Once
	closeError error
	onFinish   func(exitCode int, failure error)
	finishOnce sync.Once
}

// launchPlan lists the descriptors prepared for one spawn.
type launchPlan struct {
	command    ShellCommand
	process    *exec.Cmd
	streams    []*streamHandle
	childFiles []*os.File
	standardIn *os.File
	options    EngineOptions
}

func (plan launchPlan) release() {
	for _, childFile := range plan.childFiles {
		_ = childFile.Close()
	}
	for _, stream := range plan.streams {
		_ = stream.close()
	}
	if plan.standardIn != nil {
		_ = plan.standardIn.Close()
	}
}

// launch starts the prepared process and hands descriptor ownership to the Execution.
func launch(plan launchPlan) (*Execution, error) {
	poller, pollerError := newReadinessPoller(plan.options.ChunkSize)
	if pollerError != nil {
		plan.release()
		return nil, &LaunchError{Command: plan.command, Err: pollerError}
	}

	if startError := plan.process.Start(); startError != nil {
		plan.release()
		_ = poller.close()
		poller.notifyExit()
		return nil, &LaunchError{Command: plan.command, Err: startError}
	}

	for _, childFile := range plan.childFiles {
		_ = childFile.Close()
	}

	execution := &Execution{
		command:    plan.command,
		options:    plan.options,
		streams:    plan.streams,
		standardIn: plan.standardIn,
		poller:     poller,
		processID:  plan.process.Process.Pid,
		exited:     make(chan struct{}),
	}
	go execution.awaitProcess(plan.process)
	return execution, nil
}

func (execution *Execution) awaitProcess(process *exec.Cmd) {
	waitError := process.Wait()
	if waitError != nil {
		exitError := &exec.ExitError{}
		if !errors.As(waitError, &exitError) {
			execution.waitError = waitError
		}
	}
	if process.ProcessState != nil {
		execution.exitCode = ExitCodeFromState(process.ProcessState)
	}
	close(execution.exited)
	execution.poller.notifyExit()
}

// Command returns the command this execution runs.
func (execution *Execution) Command() ShellCommand {
	return execution.command
}

// ProcessID returns the operating system identifier of the child.
func (execution *Execution) ProcessID() int {
	return execution.processID
}

// Units returns the output sequence: stream units in arrival order, then exactly one exit unit.
// The sequence can be iterated once; a second iteration yields ErrExecutionConsumed.
// Descriptors are closed when iteration ends, including when the caller stops early.
// A read failure is yielded as the error half of the pair and ends the sequence.
func (execution *Execution) Units() iter.Seq2[OutputUnit, error] {
	return func(yield func(OutputUnit, error) bool) {
		if !execution.consumed.CompareAndSwap(false, true) {
			yield(OutputUnit{}, ErrExecutionConsumed)
			return
		}
		defer execution.closeAndLog()

		readBuffer := make([]byte, execution.options.ChunkSize)
		for {
			liveStreams := execution.liveStreams()
			if len(liveStreams) == 0 {
				break
			}
			processExited := execution.hasExited()
			readyStreams, waitError := execution.poller.wait(liveStreams, !processExited)
			if waitError != nil {
				execution.fail(yield, &StreamReadError{Stream: liveStreams[0].kind, Err: waitError})
				return
			}
			if len(readyStreams) == 0 {
				if processExited {
					break
				}
				continue
			}
			for _, stream := range readyStreams {
				units, readError := execution.readStream(stream, readBuffer)
				for _, unit := range units {
					if !yield(unit, nil) {
						return
					}
				}
				if readError != nil {
					execution.fail(yield, readError)
					return
				}
			}
		}

		for _, stream := range execution.streams {
			if flushed := stream.buffer.Flush(); flushed != nil {
				if !yield(newStreamUnit(stream.kind, flushed), nil) {
					return
				}
			}
		}

		<-execution.exited
		if execution.waitError != nil {
			execution.fail(yield, execution.waitError)
			return
		}
		execution.options.Logger.Debug(processExitedLogMessageConstant, zap.String(commandLogFieldNameConstant, execution.command.Label()), zap.Int(processIdentifierLogFieldConstant, execution.processID), zap.Int(exitCodeLogFieldNameConstant, execution.exitCode))
		execution.finish(execution.exitCode, nil)
		yield(OutputUnit{Kind: UnitExitCode, Code: execution.exitCode}, nil)
	}
}

// Lines returns the merged view of Units: one Line per terminated segment and a final
// Line carrying the exit code.
func (execution *Execution) Lines() iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		for unit, unitError := range execution.Units() {
			if unitError != nil {
				yield(Line{}, unitError)
				return
			}
			if exitCode, exited := unit.ExitCode(); exited {
				if !yield(Line{ExitCode: exitCode, Exited: true}, nil) {
					return
				}
				continue
			}
			for _, segment := range linebuffer.SplitSegments(unit.Data) {
				if !yield(Line{Text: linebuffer.DecodeText(segment)}, nil) {
					return
				}
			}
		}
	}
}

// Close releases every descriptor owned by the execution. It is safe to call more than once.
// The child keeps running; it is reaped in the background when it exits. Closing before the
// exit unit was produced finishes the execution with ErrExecutionAbandoned.
func (execution *Execution) Close() error {
	execution.finish(0, ErrExecutionAbandoned)
	execution.closeOnce.Do(func() {
		var closeErrors *multierror.Error
		for _, stream := range execution.streams {
			if closeError := stream.close(); closeError != nil {
				closeErrors = multierror.Append(closeErrors, closeError)
			}
		}
		if execution.standardIn != nil {
			if closeError := execution.standardIn.Close(); closeError != nil {
				closeErrors = multierror.Append(closeErrors, closeError)
			}
		}
		if closeError := execution.poller.close(); closeError != nil {
			closeErrors = multierror.Append(closeErrors, closeError)
		}
		execution.closeError = closeErrors.ErrorOrNil()
	})
	return execution.closeError
}

func (execution *Execution) closeAndLog() {
	if closeError := execution.Close(); closeError != nil {
		execution.options.Logger.Debug(executionCloseFailedMessageConstant, zap.String(commandLogFieldNameConstant, execution.command.Label()), zap.Error(closeError))
		return
	}
	execution.options.Logger.Debug(executionClosedLogMessageConstant, zap.String(commandLogFieldNameConstant, execution.command.Label()))
}

func (execution *Execution) fail(yield func(OutputUnit, error) bool, failure error) {
	execution.finish(0, failure)
	yield(OutputUnit{}, failure)
}

// finish reports the outcome to onFinish at most once.
func (execution *Execution) finish(exitCode int, failure error) {
	execution.finishOnce.Do(func() {
		if execution.onFinish != nil {
			execution.onFinish(exitCode, failure)
		}
	})
}

func (execution *Execution) hasExited() bool {
	select {
	case <-execution.exited:
		return true
	default:
		return false
	}
}

func (execution *Execution) liveStreams() []*streamHandle {
	liveStreams := make([]*streamHandle, 0, len(execution.streams))
	for _, stream := range execution.streams {
		if stream.live {
			liveStreams = append(liveStreams, stream)
		}
	}
	return liveStreams
}

// readStream performs one bounded read and returns the units it completes.
func (execution *Execution) readStream(stream *streamHandle, readBuffer []byte) ([]OutputUnit, error) {
	readCount, readError := execution.poller.read(stream, readBuffer)

	var units []OutputUnit
	if readCount > 0 {
		if emission := stream.buffer.Write(readBuffer[:readCount]); emission != nil {
			units = append(units, newStreamUnit(stream.kind, emission))
		}
		if readError == nil {
			return units, nil
		}
	}

	if readError != nil && !isEndOfStream(readError) {
		return units, &StreamReadError{Stream: stream.kind, Err: readError}
	}

	stream.live = false
	execution.options.Logger.Debug(streamEndedLogMessageConstant, zap.Stringer(streamLogFieldNameConstant, stream.kind))
	if flushed := stream.buffer.Flush(); flushed != nil {
		units = append(units, newStreamUnit(stream.kind, flushed))
	}
	return units, nil
}

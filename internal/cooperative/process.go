package cooperative

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/procstream/internal/execshell"
)

const (
	defaultChunkSizeConstant          = 1024
	streamClosedLogMessageConstant    = "Cooperative stream closed"
	processExitedLogMessageConstant   = "Cooperative process exited"
	streamLogFieldNameConstant        = "stream"
	exitCodeLogFieldNameConstant      = "exit_code"
	commandLogFieldNameConstant       = "command"
	processIdentifierLogFieldConstant = "pid"
)

// ProcessOption customizes ExecuteProcess.
type ProcessOption func(*processSettings)

type processSettings struct {
	chunkSize int
	logger    *zap.Logger
}

// WithChunkSize bounds each read delivered to the protocol.
func WithChunkSize(chunkSize int) ProcessOption {
	return func(settings *processSettings) {
		if chunkSize > 0 {
			settings.chunkSize = chunkSize
		}
	}
}

// WithLogger routes debug-level lifecycle events to logger.
func WithLogger(logger *zap.Logger) ProcessOption {
	return func(settings *processSettings) {
		if logger != nil {
			settings.logger = logger
		}
	}
}

// ExecuteProcess spawns command and drives protocol notifications on loop.
//
// Notifications arrive in this order: ConnectionMade, StreamOpened for every stream, received
// data as it is read, StreamClosed for every stream, then ProcessExited after the completion
// was resolved. Pseudo-terminals are not available in this mode. The context only bounds the
// spawn; cancelling it later does not stop the child, use Transport.Kill for that.
func ExecuteProcess(executionContext context.Context, loop *Loop, factory ProtocolFactory, command execshell.ShellCommand, mergeStandardError bool, options ...ProcessOption) (*Transport, Protocol, error) {
	if loop == nil {
		return nil, nil, ErrLoopNotConfigured
	}
	if factory == nil {
		return nil, nil, ErrProtocolFactoryNotConfigured
	}
	if loop.Closed() {
		return nil, nil, ErrLoopClosed
	}
	if command.Details.EmulateTerminal {
		return nil, nil, execshell.ErrPtyUnsupported
	}
	if contextError := executionContext.Err(); contextError != nil {
		return nil, nil, contextError
	}

	settings := processSettings{chunkSize: defaultChunkSizeConstant, logger: zap.NewNop()}
	for _, option := range options {
		option(&settings)
	}

	command = command.Clone()
	process := command.BuildProcess(context.WithoutCancel(executionContext))
	standardInput, pipeError := process.StdinPipe()
	if pipeError != nil {
		return nil, nil, &execshell.LaunchError{Command: command, Err: pipeError}
	}
	standardOutput, pipeError := process.StdoutPipe()
	if pipeError != nil {
		return nil, nil, &execshell.LaunchError{Command: command, Err: pipeError}
	}
	readers := map[Stream]io.Reader{StreamStandardOutput: standardOutput}
	if mergeStandardError {
		process.Stderr = process.Stdout
	} else {
		standardError, pipeError := process.StderrPipe()
		if pipeError != nil {
			return nil, nil, &execshell.LaunchError{Command: command, Err: pipeError}
		}
		readers[StreamStandardError] = standardError
	}

	completion := NewCompletion(loop)
	protocol := factory(completion)
	transport := &Transport{process: process, standardInput: standardInput, completion: completion}

	if startError := process.Start(); startError != nil {
		return nil, nil, &execshell.LaunchError{Command: command, Err: startError}
	}

	openedStreams := []Stream{StreamStandardInput, StreamStandardOutput}
	if !mergeStandardError {
		openedStreams = append(openedStreams, StreamStandardError)
	}
	_ = loop.Call(func() {
		protocol.ConnectionMade(transport)
		for _, stream := range openedStreams {
			protocol.StreamOpened(stream)
		}
	})

	var readerGroup errgroup.Group
	for _, stream := range []Stream{StreamStandardOutput, StreamStandardError} {
		reader, exists := readers[stream]
		if !exists {
			continue
		}
		readerGroup.Go(func() error {
			return pumpStream(loop, protocol, stream, reader, settings)
		})
	}

	go func() {
		_ = readerGroup.Wait()
		exitCode := awaitExitCode(process)
		settings.logger.Debug(processExitedLogMessageConstant, zap.String(commandLogFieldNameConstant, command.Label()), zap.Int(processIdentifierLogFieldConstant, process.Process.Pid), zap.Int(exitCodeLogFieldNameConstant, exitCode))

		inputWasOpen := transport.closeStandardInputAtExit()
		finish := func() {
			if inputWasOpen {
				protocol.StreamClosed(StreamStandardInput, nil)
			}
			_ = completion.Resolve(exitCode)
			protocol.ProcessExited(exitCode)
		}
		if loop.Call(finish) != nil {
			_ = completion.Resolve(exitCode)
		}
	}()

	return transport, protocol, nil
}

// pumpStream copies one stream to the protocol, chunk by chunk, through the loop.
func pumpStream(loop *Loop, protocol Protocol, stream Stream, reader io.Reader, settings processSettings) error {
	buffer := make([]byte, settings.chunkSize)
	for {
		readCount, readError := reader.Read(buffer)
		if readCount > 0 {
			chunk := bytes.Clone(buffer[:readCount])
			_ = loop.Call(func() {
				if stream == StreamStandardError {
					protocol.StandardErrorReceived(chunk)
					return
				}
				protocol.StandardOutputReceived(chunk)
			})
		}
		if readError == nil {
			continue
		}

		var failure error
		if !errors.Is(readError, io.EOF) {
			failure = readError
		}
		settings.logger.Debug(streamClosedLogMessageConstant, zap.Stringer(streamLogFieldNameConstant, stream), zap.Error(failure))
		_ = loop.Call(func() {
			protocol.StreamClosed(stream, failure)
		})
		return failure
	}
}

func awaitExitCode(process *exec.Cmd) int {
	_ = process.Wait()
	if process.ProcessState == nil {
		return -1
	}
	return execshell.ExitCodeFromState(process.ProcessState)
}

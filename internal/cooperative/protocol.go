package cooperative

import (
	"io"
	"os"
)

const (
	streamStandardInputLabelConstant  = "stdin"
	streamStandardOutputLabelConstant = "stdout"
	streamStandardErrorLabelConstant  = "stderr"
	streamUnknownLabelConstant        = "unknown"
)

// Stream identifies one of the child's standard streams.
type Stream int

// Standard streams reported to protocols.
const (
	StreamStandardInput Stream = iota
	StreamStandardOutput
	StreamStandardError
)

// String returns the stream label.
func (stream Stream) String() string {
	switch stream {
	case StreamStandardInput:
		return streamStandardInputLabelConstant
	case StreamStandardOutput:
		return streamStandardOutputLabelConstant
	case StreamStandardError:
		return streamStandardErrorLabelConstant
	default:
		return streamUnknownLabelConstant
	}
}

// Protocol receives the notifications of one child process. Every method runs on the loop
// goroutine, so implementations need no locking of their own.
type Protocol interface {
	// ConnectionMade is the first notification and hands over the process transport.
	ConnectionMade(transport *Transport)
	// StreamOpened reports a standard stream attached to the child.
	StreamOpened(stream Stream)
	// StandardOutputReceived delivers bytes read from standard output, unaltered.
	StandardOutputReceived(data []byte)
	// StandardErrorReceived delivers bytes read from standard error, unaltered.
	StandardErrorReceived(data []byte)
	// StreamClosed reports the end of a stream; failure is nil for a clean end of file.
	StreamClosed(stream Stream, failure error)
	// ProcessExited is the last notification. The completion is already resolved.
	ProcessExited(exitCode int)
	// Completion returns the value resolved with the exit code.
	Completion() *Completion
}

// ProtocolFactory builds the protocol for one execution around its completion.
type ProtocolFactory func(completion *Completion) Protocol

// BaseProtocol forwards received bytes to writers and ignores the remaining notifications.
// Embed it to override individual hooks.
type BaseProtocol struct {
	StandardOutput io.Writer
	StandardError  io.Writer
	Transport      *Transport
	completion     *Completion
}

// NewBaseProtocol constructs a BaseProtocol writing to the host's standard streams.
func NewBaseProtocol(completion *Completion) *BaseProtocol {
	return &BaseProtocol{
		StandardOutput: os.Stdout,
		StandardError:  os.Stderr,
		completion:     completion,
	}
}

// NewBaseProtocolFactory returns a factory producing BaseProtocol values.
func NewBaseProtocolFactory() ProtocolFactory {
	return func(completion *Completion) Protocol {
		return NewBaseProtocol(completion)
	}
}

// ConnectionMade stores the transport.
func (protocol *BaseProtocol) ConnectionMade(transport *Transport) {
	protocol.Transport = transport
}

// StreamOpened does nothing.
func (protocol *BaseProtocol) StreamOpened(Stream) {}

// StandardOutputReceived writes data to StandardOutput.
func (protocol *BaseProtocol) StandardOutputReceived(data []byte) {
	if protocol.StandardOutput != nil {
		_, _ = protocol.StandardOutput.Write(data)
	}
}

// StandardErrorReceived writes data to StandardError.
func (protocol *BaseProtocol) StandardErrorReceived(data []byte) {
	if protocol.StandardError != nil {
		_, _ = protocol.StandardError.Write(data)
	}
}

// StreamClosed does nothing.
func (protocol *BaseProtocol) StreamClosed(Stream, error) {}

// ProcessExited does nothing.
func (protocol *BaseProtocol) ProcessExited(int) {}

// Completion returns the completion supplied at construction.
func (protocol *BaseProtocol) Completion() *Completion {
	return protocol.completion
}

package cooperative

import (
	"bytes"
	"context"

	"github.com/temirov/procstream/internal/execshell"
)

// CapturingProtocol accumulates everything the child writes.
type CapturingProtocol struct {
	*BaseProtocol
	standardOutput bytes.Buffer
	standardError  bytes.Buffer
}

// NewCapturingProtocol constructs a CapturingProtocol.
func NewCapturingProtocol(completion *Completion) *CapturingProtocol {
	protocol := &CapturingProtocol{BaseProtocol: NewBaseProtocol(completion)}
	protocol.BaseProtocol.StandardOutput = &protocol.standardOutput
	protocol.BaseProtocol.StandardError = &protocol.standardError
	return protocol
}

// Result returns the captured output. Call it after the completion is resolved.
func (protocol *CapturingProtocol) Result() execshell.ExecutionResult {
	exitCode, _ := protocol.Completion().Result()
	return execshell.ExecutionResult{
		StandardOutput: protocol.standardOutput.String(),
		StandardError:  protocol.standardError.String(),
		ExitCode:       exitCode,
	}
}

// Run executes command on a loop acquired from provider and waits for it to exit.
// When the context ends first its error is returned and the child keeps running.
func Run(executionContext context.Context, provider *LoopProvider, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	if provider == nil {
		return execshell.ExecutionResult{}, ErrLoopProviderNotConfigured
	}
	loop, acquireError := provider.Acquire()
	if acquireError != nil {
		return execshell.ExecutionResult{}, acquireError
	}

	var capturing *CapturingProtocol
	factory := func(completion *Completion) Protocol {
		capturing = NewCapturingProtocol(completion)
		return capturing
	}
	_, _, executionError := ExecuteProcess(executionContext, loop, factory, command, false)
	if executionError != nil {
		return execshell.ExecutionResult{}, executionError
	}

	if _, waitError := capturing.Completion().Wait(executionContext); waitError != nil {
		return execshell.ExecutionResult{}, waitError
	}
	return capturing.Result(), nil
}

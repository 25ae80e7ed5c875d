package cooperative

import (
	"io"
	"os"
	"os/exec"
	"sync"
)

// Transport is the protocol's handle on a running child process.
type Transport struct {
	process       *exec.Cmd
	standardInput io.WriteCloser
	mutex         sync.Mutex
	inputClosed   bool
	completion    *Completion
}

// ProcessID returns the operating system identifier of the child.
func (transport *Transport) ProcessID() int {
	return transport.process.Process.Pid
}

// Kill terminates the child immediately.
func (transport *Transport) Kill() error {
	return transport.process.Process.Kill()
}

// Signal delivers signal to the child.
func (transport *Transport) Signal(signal os.Signal) error {
	return transport.process.Process.Signal(signal)
}

// WriteStandardInput writes data to the child's standard input.
func (transport *Transport) WriteStandardInput(data []byte) (int, error) {
	return transport.standardInput.Write(data)
}

// CloseStandardInput closes the child's standard input. Later calls do nothing.
func (transport *Transport) CloseStandardInput() error {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	if transport.inputClosed {
		return nil
	}
	transport.inputClosed = true
	return transport.standardInput.Close()
}

// ExitCode returns the exit code once the process has exited.
func (transport *Transport) ExitCode() (int, bool) {
	return transport.completion.Result()
}

// closeStandardInputAtExit reports whether standard input was still open.
func (transport *Transport) closeStandardInputAtExit() bool {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	if transport.inputClosed {
		return false
	}
	transport.inputClosed = true
	_ = transport.standardInput.Close()
	return true
}

//go:build unix

package execshell

import (
	"context"
	"os"
	"syscall"

	"github.com/creack/pty"
)

const (
	// Child descriptor of standard output, which becomes the controlling terminal.
	controllingTerminalDescriptorConstant = 1
)

// PtySupported reports whether PtySource can allocate pseudo-terminals on this platform.
func PtySupported() bool {
	return true
}

// PtySource runs commands with their output streams attached to pseudo-terminals so the
// child detects an interactive terminal. Standard error gets its own terminal unless merged.
type PtySource struct {
	options EngineOptions
}

// NewPtySource constructs a PtySource.
func NewPtySource(options EngineOptions) *PtySource {
	return &PtySource{options: options.normalized()}
}

// Start allocates the terminals and spawns the command. Allocation failures are reported
// as *PtyAllocationError so callers can retry with a PipeSource.
func (source *PtySource) Start(executionContext context.Context, command ShellCommand, mergeStandardError bool) (*Execution, error) {
	command = command.Clone()
	plan := launchPlan{command: command, options: source.options}

	standardOutMaster, standardOutSlave, openError := pty.Open()
	if openError != nil {
		return nil, &PtyAllocationError{Err: openError}
	}
	inheritTerminalSize(standardOutMaster)
	plan.childFiles = append(plan.childFiles, standardOutSlave)
	plan.streams = append(plan.streams, newStreamHandle(UnitStandardOutput, standardOutMaster, source.options.LineSeparator))

	standardErrSlave := standardOutSlave
	if !mergeStandardError {
		standardErrMaster, separateSlave, openError := pty.Open()
		if openError != nil {
			plan.release()
			return nil, &PtyAllocationError{Err: openError}
		}
		inheritTerminalSize(standardErrMaster)
		standardErrSlave = separateSlave
		plan.childFiles = append(plan.childFiles, separateSlave)
		plan.streams = append(plan.streams, newStreamHandle(UnitStandardError, standardErrMaster, source.options.LineSeparator))
	}

	standardInReader, standardInWriter, pipeError := os.Pipe()
	if pipeError != nil {
		plan.release()
		return nil, &LaunchError{Command: command, Err: pipeError}
	}
	plan.childFiles = append(plan.childFiles, standardInReader)
	plan.standardIn = standardInWriter

	process := command.BuildProcess(executionContext)
	process.Stdin = standardInReader
	process.Stdout = standardOutSlave
	process.Stderr = standardErrSlave
	process.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    controllingTerminalDescriptorConstant,
	}
	plan.process = process

	return launch(plan)
}

// inheritTerminalSize copies the size of the caller's terminal when it has one.
func inheritTerminalSize(master *os.File) {
	_ = pty.InheritSize(os.Stdout, master)
}

package cli

import (
	"fmt"
	"syscall"
)

const (
	exitStatusMessageTemplateConstant = "command exited with status %d"
	signalExitStatusBaseConstant      = 128
)

// ExitStatusError carries the status the process should exit with. It is returned when a
// child exits non-zero or the CLI is interrupted by a signal.
type ExitStatusError struct {
	Code int
}

// Error describes the exit status.
func (exitStatusError ExitStatusError) Error() string {
	return fmt.Sprintf(exitStatusMessageTemplateConstant, exitStatusError.Code)
}

// exitStatusFromCode converts a child exit code into a CLI result. Children killed by a
// signal, reported as negative codes, map to 128 plus the signal number as shells do.
func exitStatusFromCode(exitCode int) error {
	switch {
	case exitCode == 0:
		return nil
	case exitCode < 0:
		return ExitStatusError{Code: signalExitStatusBaseConstant - exitCode}
	default:
		return ExitStatusError{Code: exitCode}
	}
}

func exitStatusFromSignal(signal syscall.Signal) ExitStatusError {
	return ExitStatusError{Code: signalExitStatusBaseConstant + int(signal)}
}

//go:build unix

package execshell

import (
	"os"
	"syscall"
)

// ExitCodeFromState reports the exit status, or the negated signal number for a signaled child.
func ExitCodeFromState(state *os.ProcessState) int {
	if waitStatus, ok := state.Sys().(syscall.WaitStatus); ok && waitStatus.Signaled() {
		return -int(waitStatus.Signal())
	}
	return state.ExitCode()
}

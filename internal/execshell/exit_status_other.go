//go:build !unix

package execshell

import "os"

// ExitCodeFromState reports the exit status of a finished process.
func ExitCodeFromState(state *os.ProcessState) int {
	return state.ExitCode()
}

//go:build unix

package which

import (
	"os"

	"golang.org/x/sys/unix"
)

const defaultSearchPathConstant = "/bin:/usr/bin"

func hasExecutePermission(candidate string, _ os.FileInfo) bool {
	return unix.Access(candidate, unix.X_OK) == nil
}

func executableCandidates(candidate string) []string {
	return []string{candidate}
}

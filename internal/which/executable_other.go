//go:build !unix

package which

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultSearchPathConstant        = ""
	pathExtensionEnvironmentConstant = "PATHEXT"
	defaultPathExtensionsConstant    = ".com;.exe;.bat;.cmd"
	pathExtensionSeparatorConstant   = ";"
)

// hasExecutePermission accepts files whose extension is listed in PATHEXT.
func hasExecutePermission(candidate string, _ os.FileInfo) bool {
	extension := strings.ToLower(filepath.Ext(candidate))
	for _, executableExtension := range pathExtensions() {
		if extension == executableExtension {
			return true
		}
	}
	return false
}

// executableCandidates appends each PATHEXT extension unless the name already carries one.
func executableCandidates(candidate string) []string {
	if len(filepath.Ext(candidate)) > 0 {
		return []string{candidate}
	}
	candidates := make([]string, 0, len(pathExtensions()))
	for _, executableExtension := range pathExtensions() {
		candidates = append(candidates, candidate+executableExtension)
	}
	return candidates
}

func pathExtensions() []string {
	configured := os.Getenv(pathExtensionEnvironmentConstant)
	if len(configured) == 0 {
		configured = defaultPathExtensionsConstant
	}
	var extensions []string
	for _, extension := range strings.Split(strings.ToLower(configured), pathExtensionSeparatorConstant) {
		if len(extension) > 0 {
			extensions = append(extensions, extension)
		}
	}
	return extensions
}

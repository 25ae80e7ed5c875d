package which

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	pathEnvironmentNameConstant = "PATH"
	searchPathQuoteConstant     = `"`
)

// Resolve returns the absolute path of the first executable named program found in
// searchPaths. A nil searchPaths searches PATH. An absolute program is returned unchanged
// when it is executable, without searching. A program containing a directory part that is
// not absolute is rejected, as is any search path entry that is not absolute.
// A program that cannot be found, including an empty name or one ending in a path
// separator, yields ("", false, nil).
func Resolve(program string, searchPaths []string) (string, bool, error) {
	if filepath.IsAbs(program) {
		if isExecutable(program) {
			return program, true, nil
		}
		return "", false, nil
	}

	directory, base := filepath.Split(program)
	if len(directory) > 0 && len(base) > 0 {
		return "", false, newValidationError(relativePathTemplateConstant, program)
	}

	if searchPaths == nil {
		searchPaths = EnvironmentSearchPaths()
	} else {
		for _, searchPath := range searchPaths {
			if !filepath.IsAbs(searchPath) {
				return "", false, newValidationError(nonAbsolutePathTemplateConstant, searchPath)
			}
		}
	}

	if len(program) == 0 || os.IsPathSeparator(program[len(program)-1]) {
		return "", false, nil
	}

	for _, searchPath := range searchPaths {
		searchPath = strings.Trim(searchPath, searchPathQuoteConstant)
		if !filepath.IsAbs(searchPath) {
			continue
		}
		for _, candidate := range executableCandidates(filepath.Join(searchPath, program)) {
			if isExecutable(candidate) {
				return candidate, true, nil
			}
		}
	}
	return "", false, nil
}

// ResolveValue validates untyped arguments, such as values decoded from configuration, and
// delegates to Resolve. searchPaths may be nil, a []string or a []any holding strings.
func ResolveValue(program any, searchPaths any) (string, bool, error) {
	programName, isString := program.(string)
	if !isString {
		return "", false, newValidationError(programNotStringTemplateConstant, program)
	}

	switch typedPaths := searchPaths.(type) {
	case nil:
		return Resolve(programName, nil)
	case []string:
		return Resolve(programName, typedPaths)
	case []any:
		convertedPaths := make([]string, 0, len(typedPaths))
		for _, entry := range typedPaths {
			entryText, entryIsString := entry.(string)
			if !entryIsString {
				return "", false, newValidationError(pathEntryNotStringTemplate, entry)
			}
			convertedPaths = append(convertedPaths, entryText)
		}
		return Resolve(programName, convertedPaths)
	default:
		return "", false, newValidationError(pathsNotListTemplateConstant, searchPaths)
	}
}

// EnvironmentSearchPaths splits PATH into its entries, using the platform default when unset.
func EnvironmentSearchPaths() []string {
	pathValue, defined := os.LookupEnv(pathEnvironmentNameConstant)
	if !defined {
		pathValue = defaultSearchPathConstant
	}
	return filepath.SplitList(pathValue)
}

func isExecutable(candidate string) bool {
	fileInfo, statError := os.Stat(candidate)
	if statError != nil || !fileInfo.Mode().IsRegular() {
		return false
	}
	return hasExecutePermission(candidate, fileInfo)
}

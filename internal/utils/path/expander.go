package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
	homeVariableNameConstant        = "HOME"
)

var tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// EnvironmentLookup resolves an environment variable.
type EnvironmentLookup func(name string) (string, bool)

// PathExpander resolves the shortcuts users type in directory arguments: a leading tilde and
// $VARIABLE or ${VARIABLE} references.
type PathExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	environmentLookup     EnvironmentLookup
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewPathExpander constructs a PathExpander backed by the process environment.
func NewPathExpander() *PathExpander {
	return NewPathExpanderWithProviders(os.UserHomeDir, os.LookupEnv)
}

// NewPathExpanderWithProviders constructs a PathExpander with custom lookups. Nil arguments
// select the operating system lookups.
func NewPathExpanderWithProviders(homeProvider HomeDirectoryProvider, environmentLookup EnvironmentLookup) *PathExpander {
	if homeProvider == nil {
		homeProvider = os.UserHomeDir
	}
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	return &PathExpander{homeDirectoryProvider: homeProvider, environmentLookup: environmentLookup}
}

// Expand substitutes environment references and then a leading tilde. Unknown variables
// expand to the empty string, as in the shell.
func (expander *PathExpander) Expand(candidatePath string) string {
	if expander == nil || len(candidatePath) == 0 {
		return candidatePath
	}

	expandedPath := os.Expand(candidatePath, expander.lookupVariable)
	if !strings.HasPrefix(expandedPath, tildeSymbolConstant) {
		return expandedPath
	}

	resolvedHomeDirectory := expander.resolveHomeDirectory()
	if len(resolvedHomeDirectory) == 0 {
		return expandedPath
	}

	switch {
	case expandedPath == tildeSymbolConstant:
		return resolvedHomeDirectory
	case strings.HasPrefix(expandedPath, tildeForwardSlashPrefixConstant):
		return filepath.Join(resolvedHomeDirectory, strings.TrimPrefix(expandedPath, tildeForwardSlashPrefixConstant))
	case strings.HasPrefix(expandedPath, tildeWithPathSeparatorPrefix):
		return filepath.Join(resolvedHomeDirectory, strings.TrimPrefix(expandedPath, tildeWithPathSeparatorPrefix))
	default:
		return expandedPath
	}
}

func (expander *PathExpander) lookupVariable(variableName string) string {
	if variableName == homeVariableNameConstant {
		return expander.resolveHomeDirectory()
	}
	variableValue, _ := expander.environmentLookup(variableName)
	return variableValue
}

func (expander *PathExpander) resolveHomeDirectory() string {
	expander.initializationGuard.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	if expander.homeDirectoryError != nil {
		return ""
	}
	return expander.homeDirectory
}

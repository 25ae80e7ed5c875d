package pathutils

import (
	"path/filepath"
	"runtime"
	"strings"
)

const windowsOperatingSystemConstant = "windows"

// SearchPathSanitizerConfiguration controls search path normalization.
type SearchPathSanitizerConfiguration struct {
	// ResolveRelative anchors relative entries at the working directory.
	ResolveRelative bool
	// RemoveDuplicates keeps only the first occurrence of each directory.
	RemoveDuplicates bool
}

// SearchPathSanitizer normalizes directory lists supplied through flags and configuration.
type SearchPathSanitizer struct {
	expander      *PathExpander
	configuration SearchPathSanitizerConfiguration
}

// NewSearchPathSanitizer constructs a sanitizer that resolves relative entries and removes duplicates.
func NewSearchPathSanitizer() *SearchPathSanitizer {
	return NewSearchPathSanitizerWithConfiguration(nil, SearchPathSanitizerConfiguration{ResolveRelative: true, RemoveDuplicates: true})
}

// NewSearchPathSanitizerWithConfiguration constructs a sanitizer using the provided expander and configuration.
func NewSearchPathSanitizerWithConfiguration(expander *PathExpander, configuration SearchPathSanitizerConfiguration) *SearchPathSanitizer {
	if expander == nil {
		expander = NewPathExpander()
	}
	return &SearchPathSanitizer{expander: expander, configuration: configuration}
}

// SanitizeDirectory trims and expands a single directory. An empty input stays empty.
func (sanitizer *SearchPathSanitizer) SanitizeDirectory(candidatePath string) string {
	sanitized := sanitizer.Sanitize([]string{candidatePath})
	if len(sanitized) == 0 {
		return ""
	}
	return sanitized[0]
}

// Sanitize trims whitespace, expands shortcuts, and drops empty entries. It returns nil when
// nothing remains.
func (sanitizer *SearchPathSanitizer) Sanitize(candidatePaths []string) []string {
	if sanitizer == nil {
		sanitizer = NewSearchPathSanitizer()
	}

	sanitizedPaths := make([]string, 0, len(candidatePaths))
	seenPaths := make(map[string]struct{}, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		trimmedCandidate := strings.TrimSpace(candidatePath)
		if len(trimmedCandidate) == 0 {
			continue
		}

		expandedPath := sanitizer.expander.Expand(trimmedCandidate)
		if len(expandedPath) == 0 {
			continue
		}
		if sanitizer.configuration.ResolveRelative && !filepath.IsAbs(expandedPath) {
			if absolutePath, absoluteError := filepath.Abs(expandedPath); absoluteError == nil {
				expandedPath = absolutePath
			}
		}
		expandedPath = filepath.Clean(expandedPath)

		if sanitizer.configuration.RemoveDuplicates {
			comparison := comparisonPath(expandedPath)
			if _, seen := seenPaths[comparison]; seen {
				continue
			}
			seenPaths[comparison] = struct{}{}
		}
		sanitizedPaths = append(sanitizedPaths, expandedPath)
	}

	if len(sanitizedPaths) == 0 {
		return nil
	}
	return sanitizedPaths
}

func comparisonPath(path string) string {
	if runtime.GOOS == windowsOperatingSystemConstant {
		return strings.ToLower(path)
	}
	return path
}

//go:build unix

package which_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/procstream/internal/which"
)

const (
	testProgramNameConstant        = "tool"
	testMissingProgramConstant     = "missing_tool"
	testBinOnlyProgramConstant     = "bin_only"
	testFirstDirectoryConstant     = "first"
	testSecondDirectoryConstant    = "second"
	testBinDirectoryConstant       = "bin"
	testUnreadableDirectoryConst   = "unused"
	testScriptContentsConstant     = "#!/bin/sh\nexit 0\n"
	testExecutableModeConstant     = 0o755
	testNonExecutableModeConstant  = 0o644
	testPathEnvironmentConstant    = "PATH"
	testRelativeProgramConstant    = "relative/tool"
	testRelativeSearchPathConstant = "relative/bin"
)

func writeProgram(testInstance *testing.T, directory string, name string, mode os.FileMode) string {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(directory, 0o755))
	programPath := filepath.Join(directory, name)
	require.NoError(testInstance, os.WriteFile(programPath, []byte(testScriptContentsConstant), mode))
	require.NoError(testInstance, os.Chmod(programPath, mode))
	return programPath
}

func TestResolveSearchesPathsInOrder(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	firstDirectory := filepath.Join(rootDirectory, testFirstDirectoryConstant)
	secondDirectory := filepath.Join(rootDirectory, testSecondDirectoryConstant)
	binDirectory := filepath.Join(rootDirectory, testBinDirectoryConstant)

	firstProgram := writeProgram(testInstance, firstDirectory, testProgramNameConstant, testExecutableModeConstant)
	secondProgram := writeProgram(testInstance, secondDirectory, testProgramNameConstant, testExecutableModeConstant)
	binOnlyProgram := writeProgram(testInstance, binDirectory, testBinOnlyProgramConstant, testExecutableModeConstant)

	testCases := []struct {
		name          string
		program       string
		searchPaths   []string
		expectedPath  string
		expectedFound bool
	}{
		{
			name:          "first_directory_wins",
			program:       testProgramNameConstant,
			searchPaths:   []string{firstDirectory, secondDirectory},
			expectedPath:  firstProgram,
			expectedFound: true,
		},
		{
			name:          "order_is_respected",
			program:       testProgramNameConstant,
			searchPaths:   []string{secondDirectory, firstDirectory},
			expectedPath:  secondProgram,
			expectedFound: true,
		},
		{
			name:          "later_directory_found",
			program:       testBinOnlyProgramConstant,
			searchPaths:   []string{firstDirectory, binDirectory},
			expectedPath:  binOnlyProgram,
			expectedFound: true,
		},
		{
			name:          "quoted_entry_is_unquoted",
			program:       testBinOnlyProgramConstant,
			searchPaths:   []string{binDirectory + `"`},
			expectedPath:  binOnlyProgram,
			expectedFound: true,
		},
		{
			name:          "absent_program",
			program:       testMissingProgramConstant,
			searchPaths:   []string{firstDirectory, binDirectory},
			expectedFound: false,
		},
		{
			name:          "empty_search_paths",
			program:       testProgramNameConstant,
			searchPaths:   []string{},
			expectedFound: false,
		},
		{
			name:          "absolute_program_returned_unchanged",
			program:       binOnlyProgram,
			searchPaths:   []string{firstDirectory},
			expectedPath:  binOnlyProgram,
			expectedFound: true,
		},
		{
			name:          "absolute_missing_program",
			program:       filepath.Join(firstDirectory, testMissingProgramConstant),
			searchPaths:   []string{firstDirectory},
			expectedFound: false,
		},
		{
			name:          "trailing_separator_is_not_a_file",
			program:       testProgramNameConstant + string(filepath.Separator),
			searchPaths:   []string{firstDirectory, secondDirectory},
			expectedFound: false,
		},
		{
			name:          "absolute_trailing_separator",
			program:       firstProgram + string(filepath.Separator),
			searchPaths:   []string{firstDirectory},
			expectedFound: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			resolvedPath, found, resolveError := which.Resolve(testCase.program, testCase.searchPaths)
			require.NoError(subTest, resolveError)
			require.Equal(subTest, testCase.expectedFound, found)
			require.Equal(subTest, testCase.expectedPath, resolvedPath)
		})
	}
}

func TestResolveSkipsNonExecutableFiles(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	firstDirectory := filepath.Join(rootDirectory, testFirstDirectoryConstant)
	secondDirectory := filepath.Join(rootDirectory, testSecondDirectoryConstant)

	writeProgram(testInstance, firstDirectory, testProgramNameConstant, testNonExecutableModeConstant)
	executableProgram := writeProgram(testInstance, secondDirectory, testProgramNameConstant, testExecutableModeConstant)
	require.NoError(testInstance, os.MkdirAll(filepath.Join(rootDirectory, testUnreadableDirectoryConst, testProgramNameConstant), 0o755))

	resolvedPath, found, resolveError := which.Resolve(testProgramNameConstant, []string{
		filepath.Join(rootDirectory, testUnreadableDirectoryConst),
		firstDirectory,
		secondDirectory,
	})
	require.NoError(testInstance, resolveError)
	require.True(testInstance, found)
	require.Equal(testInstance, executableProgram, resolvedPath)
}

func TestResolveUsesEnvironmentWhenPathsAreNil(testInstance *testing.T) {
	binDirectory := filepath.Join(testInstance.TempDir(), testBinDirectoryConstant)
	binOnlyProgram := writeProgram(testInstance, binDirectory, testBinOnlyProgramConstant, testExecutableModeConstant)
	testInstance.Setenv(testPathEnvironmentConstant, binDirectory+string(os.PathListSeparator)+testRelativeSearchPathConstant)

	resolvedPath, found, resolveError := which.Resolve(testBinOnlyProgramConstant, nil)
	require.NoError(testInstance, resolveError)
	require.True(testInstance, found)
	require.Equal(testInstance, binOnlyProgram, resolvedPath)

	resolvedValue, foundValue, resolveValueError := which.ResolveValue(testBinOnlyProgramConstant, nil)
	require.NoError(testInstance, resolveValueError)
	require.True(testInstance, foundValue)
	require.Equal(testInstance, binOnlyProgram, resolvedValue)
}

func TestResolveValueAcceptsDecodedLists(testInstance *testing.T) {
	binDirectory := filepath.Join(testInstance.TempDir(), testBinDirectoryConstant)
	binOnlyProgram := writeProgram(testInstance, binDirectory, testBinOnlyProgramConstant, testExecutableModeConstant)

	resolvedPath, found, resolveError := which.ResolveValue(testBinOnlyProgramConstant, []any{binDirectory})
	require.NoError(testInstance, resolveError)
	require.True(testInstance, found)
	require.Equal(testInstance, binOnlyProgram, resolvedPath)

	resolvedPath, found, resolveError = which.ResolveValue(testBinOnlyProgramConstant, []string{binDirectory})
	require.NoError(testInstance, resolveError)
	require.True(testInstance, found)
	require.Equal(testInstance, binOnlyProgram, resolvedPath)
}

func TestResolveRejectsInvalidArguments(testInstance *testing.T) {
	testCases := []struct {
		name            string
		program         any
		searchPaths     any
		expectedMessage string
	}{
		{
			name:            "program_not_string",
			program:         42,
			expectedMessage: "Parameter 'program' is not a string: '42'",
		},
		{
			name:            "relative_program_with_directory",
			program:         testRelativeProgramConstant,
			expectedMessage: "Relative path given: 'relative/tool'",
		},
		{
			name:            "paths_not_list",
			program:         testProgramNameConstant,
			searchPaths:     "/usr/bin",
			expectedMessage: "Parameter 'paths' is not a list: '/usr/bin'",
		},
		{
			name:            "relative_search_path",
			program:         testProgramNameConstant,
			searchPaths:     []string{testRelativeSearchPathConstant},
			expectedMessage: "Non absolute path given: 'relative/bin'",
		},
		{
			name:            "non_string_search_path",
			program:         testProgramNameConstant,
			searchPaths:     []any{7},
			expectedMessage: "Search path entry is not a string: '7'",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			resolvedPath, found, resolveError := which.ResolveValue(testCase.program, testCase.searchPaths)
			require.Error(subTest, resolveError)
			require.ErrorIs(subTest, resolveError, which.ErrInvalidArgument)
			require.EqualError(subTest, resolveError, testCase.expectedMessage)
			require.False(subTest, found)
			require.Empty(subTest, resolvedPath)

			var validationError *which.ValidationError
			require.ErrorAs(subTest, resolveError, &validationError)
		})
	}
}

package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/procstream/cmd/cli"
)

const (
	testConfigVerbConstant             = "config"
	testConfigFlagConstant             = "--config"
	testLogLevelFlagConstant           = "--log-level"
	testConfigurationFileNameConstant  = "config.yaml"
	testConfigurationFileContent       = "execution:\n  use_shell: true\n  chunk_size: 256\nwhich:\n  search_paths:\n    - /opt/tools\n"
	testChunkSizeEnvironmentName       = "PROCSTREAM_EXECUTION_CHUNK_SIZE"
	testChunkSizeEnvironmentValue      = "64"
	testConfigurationCommentPrefix     = "# configuration file: "
	testUnknownVerbConstant            = "bogus"
	testUnknownCommandErrorFragment    = "unknown command"
	testHelpOutputFragment             = "Verbs"
	testDebugLogLevelConstant          = "debug"
	testDefaultChunkSizeConstant       = 1024
	testConfiguredChunkSizeConstant    = 256
	testEnvironmentChunkSizeConstant   = 64
	testDefaultEmulateTerminalConstant = "auto"
	testDefaultLogLevelConstant        = "info"
	testDefaultLogFormatConstant       = "structured"
	testConfiguredSearchPathConstant   = "/opt/tools"
)

type applicationRun struct {
	standardOutput string
	standardError  string
	err            error
}

func executeApplication(testInstance *testing.T, arguments ...string) applicationRun {
	testInstance.Helper()
	application := cli.NewApplication()
	standardOutput := &bytes.Buffer{}
	standardError := &bytes.Buffer{}
	application.SetOutput(standardOutput, standardError)
	executionError := application.ExecuteWithArguments(context.Background(), arguments)
	return applicationRun{standardOutput: standardOutput.String(), standardError: standardError.String(), err: executionError}
}

func decodeConfiguration(testInstance *testing.T, output string) cli.ApplicationConfiguration {
	testInstance.Helper()
	configuration := cli.ApplicationConfiguration{}
	require.NoError(testInstance, yaml.Unmarshal([]byte(output), &configuration))
	return configuration
}

func TestConfigVerbPrintsEmbeddedDefaults(testInstance *testing.T) {
	result := executeApplication(testInstance, testConfigVerbConstant)
	require.NoError(testInstance, result.err)

	configuration := decodeConfiguration(testInstance, result.standardOutput)
	require.Equal(testInstance, testDefaultLogLevelConstant, configuration.Common.LogLevel)
	require.Equal(testInstance, testDefaultLogFormatConstant, configuration.Common.LogFormat)
	require.Equal(testInstance, testDefaultEmulateTerminalConstant, configuration.Execution.EmulateTerminal)
	require.Equal(testInstance, testDefaultChunkSizeConstant, configuration.Execution.ChunkSize)
	require.True(testInstance, configuration.Execution.PtyFallback)
	require.False(testInstance, configuration.Execution.UseShell)
	require.Empty(testInstance, configuration.Which.SearchPaths)
}

func TestConfigVerbAppliesOverrides(testInstance *testing.T) {
	testCases := []struct {
		name              string
		environment       map[string]string
		writeFile         bool
		extraArguments    []string
		expectedChunkSize int
		expectedUseShell  bool
		expectedLogLevel  string
		expectedPaths     []string
		expectComment     bool
	}{
		{
			name:              "configuration_file",
			writeFile:         true,
			expectedChunkSize: testConfiguredChunkSizeConstant,
			expectedUseShell:  true,
			expectedLogLevel:  testDefaultLogLevelConstant,
			expectedPaths:     []string{testConfiguredSearchPathConstant},
			expectComment:     true,
		},
		{
			name:              "environment_variable",
			environment:       map[string]string{testChunkSizeEnvironmentName: testChunkSizeEnvironmentValue},
			expectedChunkSize: testEnvironmentChunkSizeConstant,
			expectedLogLevel:  testDefaultLogLevelConstant,
		},
		{
			name:              "log_level_flag",
			extraArguments:    []string{testLogLevelFlagConstant, testDebugLogLevelConstant},
			expectedChunkSize: testDefaultChunkSizeConstant,
			expectedLogLevel:  testDebugLogLevelConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			for environmentName, environmentValue := range testCase.environment {
				subTest.Setenv(environmentName, environmentValue)
			}

			arguments := append([]string{}, testCase.extraArguments...)
			configurationPath := ""
			if testCase.writeFile {
				configurationPath = filepath.Join(subTest.TempDir(), testConfigurationFileNameConstant)
				require.NoError(subTest, os.WriteFile(configurationPath, []byte(testConfigurationFileContent), 0o600))
				arguments = append(arguments, testConfigFlagConstant, configurationPath)
			}
			arguments = append(arguments, testConfigVerbConstant)

			result := executeApplication(subTest, arguments...)
			require.NoError(subTest, result.err)

			configuration := decodeConfiguration(subTest, result.standardOutput)
			require.Equal(subTest, testCase.expectedChunkSize, configuration.Execution.ChunkSize)
			require.Equal(subTest, testCase.expectedUseShell, configuration.Execution.UseShell)
			require.Equal(subTest, testCase.expectedLogLevel, configuration.Common.LogLevel)
			if len(testCase.expectedPaths) > 0 {
				require.Equal(subTest, testCase.expectedPaths, configuration.Which.SearchPaths)
			}
			if testCase.expectComment {
				require.True(subTest, strings.HasPrefix(result.standardOutput, testConfigurationCommentPrefix+configurationPath))
			}
		})
	}
}

func TestApplicationRejectsUnknownVerb(testInstance *testing.T) {
	result := executeApplication(testInstance, testUnknownVerbConstant)
	require.Error(testInstance, result.err)
	require.Contains(testInstance, result.err.Error(), testUnknownCommandErrorFragment)
}

func TestApplicationPrintsHelpWithoutVerb(testInstance *testing.T) {
	result := executeApplication(testInstance)
	require.NoError(testInstance, result.err)
	require.Contains(testInstance, result.standardOutput, testHelpOutputFragment)
}

func TestExitStatusErrorMessage(testInstance *testing.T) {
	require.EqualError(testInstance, cli.ExitStatusError{Code: 3}, "command exited with status 3")
}

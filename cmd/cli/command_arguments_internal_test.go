package cli

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/procstream/internal/utils"
)

func TestCommandArgumentPreprocessorSplitsAtTerminator(t *testing.T) {
	flagArguments, extras := commandArgumentPreprocessor([]string{"--cwd", "/tmp", "--", "ls", "--all", "-l"})
	require.Equal(t, []string{"--cwd", "/tmp"}, flagArguments)
	require.Equal(t, []string{"ls", "--all", "-l"}, extras[commandExtrasKeyConstant])

	flagArguments, extras = commandArgumentPreprocessor([]string{"ls", "-l"})
	require.Equal(t, []string{"ls", "-l"}, flagArguments)
	require.Empty(t, extras)

	flagArguments, extras = commandArgumentPreprocessor([]string{"--"})
	require.Empty(t, flagArguments)
	require.NotNil(t, flagArguments)
	require.Equal(t, []string{}, extras[commandExtrasKeyConstant])
}

func TestResolveCommandVector(t *testing.T) {
	testCases := []struct {
		name           string
		extras         map[string]any
		positional     []string
		useShell       bool
		expectedVector []string
		expectedError  error
	}{
		{
			name:           "extras_take_priority",
			extras:         map[string]any{commandExtrasKeyConstant: []string{"ls", "-l"}},
			positional:     []string{"ignored"},
			expectedVector: []string{"ls", "-l"},
		},
		{
			name:           "positional_fallback",
			extras:         map[string]any{},
			positional:     []string{"echo", "hi"},
			expectedVector: []string{"echo", "hi"},
		},
		{
			name:           "single_string_split",
			extras:         map[string]any{commandExtrasKeyConstant: []string{"sh -c 'echo a b'"}},
			expectedVector: []string{"sh", "-c", "echo a b"},
		},
		{
			name:           "single_string_kept_for_shell",
			extras:         map[string]any{commandExtrasKeyConstant: []string{"echo $HOME | wc -c"}},
			useShell:       true,
			expectedVector: []string{"echo $HOME | wc -c"},
		},
		{
			name:          "missing_command",
			extras:        map[string]any{},
			expectedError: errMissingCommand,
		},
		{
			name:          "blank_command",
			extras:        map[string]any{commandExtrasKeyConstant: []string{"  "}},
			expectedError: errMissingCommand,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			vector, resolveError := resolveCommandVector(testCase.extras, testCase.positional, testCase.useShell)
			if testCase.expectedError != nil {
				require.ErrorIs(t, resolveError, testCase.expectedError)
				return
			}
			require.NoError(t, resolveError)
			require.Equal(t, testCase.expectedVector, vector)
		})
	}
}

func TestJoinSeparatedFlagValues(t *testing.T) {
	isValueFlag := func(name string) bool {
		return name == configFileFlagNameConstant || name == logLevelFlagNameConstant
	}

	require.Equal(t,
		[]string{"--config=/tmp/c.yaml", "--log-level=debug", "run", "--config", "x"},
		joinSeparatedFlagValues([]string{"--config", "/tmp/c.yaml", "--log-level", "debug", "run", "--config", "x"}, isValueFlag),
	)
	require.Equal(t,
		[]string{"--config=/a", "--verbose", "run"},
		joinSeparatedFlagValues([]string{"--config=/a", "--verbose", "run"}, isValueFlag),
	)
	require.Equal(t, []string{"--config"}, joinSeparatedFlagValues([]string{"--config"}, isValueFlag))
}

func TestExitStatusConversion(t *testing.T) {
	require.NoError(t, exitStatusFromCode(0))
	require.Equal(t, ExitStatusError{Code: 2}, exitStatusFromCode(2))
	require.Equal(t, ExitStatusError{Code: 137}, exitStatusFromCode(-9))
	require.Equal(t, ExitStatusError{Code: 130}, exitStatusFromSignal(syscall.SIGINT))
}

func TestApplicationValueFlagDetection(t *testing.T) {
	application := NewApplication()
	require.NoError(t, application.setupError)
	require.True(t, application.isValueFlag(configFileFlagNameConstant))
	require.True(t, application.isValueFlag(logFormatFlagNameConstant))
	require.False(t, application.isValueFlag("missing"))
}

func TestApplicationHumanReadableLogging(t *testing.T) {
	application := &Application{logger: zap.NewNop()}
	application.configuration.Common.LogFormat = " Console "
	require.True(t, application.humanReadableLoggingEnabled())
	application.configuration.Common.LogFormat = string(utils.LogFormatStructured)
	require.False(t, application.humanReadableLoggingEnabled())
}

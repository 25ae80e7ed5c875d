//go:build unix

package execshell_test

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/procstream/internal/execshell"
)

func TestExecutionReportsTerminatingSignalAsNegativeCode(testInstance *testing.T) {
	executionContext, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := execshell.NewPipeSource(execshell.EngineOptions{})
	execution, startError := source.Start(executionContext, helperCommand(fixtureSleepConstant, nil), false)
	require.NoError(testInstance, startError)

	var exitCodes []int
	for unit, unitError := range execution.Units() {
		require.NoError(testInstance, unitError)
		if _, isStandardOutput := unit.StandardOutput(); isStandardOutput {
			cancel()
		}
		if exitCode, isExitCode := unit.ExitCode(); isExitCode {
			exitCodes = append(exitCodes, exitCode)
		}
	}

	require.Equal(testInstance, []int{-int(syscall.SIGKILL)}, exitCodes)
}

func TestPtySourceMergedOutputUsesTerminalLineEndings(testInstance *testing.T) {
	source := execshell.NewPtySource(execshell.EngineOptions{})
	execution, startError := source.Start(context.Background(), helperCommand(fixtureInterleavedConstant, nil), true)
	if errors.Is(startError, execshell.ErrPtyUnavailable) {
		testInstance.Skipf("pseudo-terminals unavailable: %v", startError)
	}
	require.NoError(testInstance, startError)

	texts, exitCodes := collectLines(testInstance, execution)

	require.Equal(testInstance, []string{"out 1\r\n", "err 1\r\n", "out 2\r\n"}, texts)
	require.Equal(testInstance, []int{0}, exitCodes)
}

func TestPtySourceChildSeesTerminal(testInstance *testing.T) {
	testCases := []struct {
		name           string
		source         execshell.StreamSource
		expectedOutput string
	}{
		{name: "pty_per_stream", source: execshell.NewPtySource(execshell.EngineOptions{}), expectedOutput: "terminal\r\n"},
		{name: "pipe", source: execshell.NewPipeSource(execshell.EngineOptions{}), expectedOutput: fixturePipeOutputConstant},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			execution, startError := testCase.source.Start(context.Background(), helperCommand(fixtureTerminalConstant, nil), false)
			if errors.Is(startError, execshell.ErrPtyUnavailable) {
				testInstance.Skipf("pseudo-terminals unavailable: %v", startError)
			}
			require.NoError(testInstance, startError)

			collected := collectUnits(testInstance, execution)

			require.Equal(testInstance, []string{testCase.expectedOutput}, collected.standardOutput)
			require.Equal(testInstance, []string{testCase.expectedOutput}, collected.standardError)
			require.Equal(testInstance, []int{0}, collected.exitCodes)
		})
	}
}

func TestPtySupportedOnUnix(testInstance *testing.T) {
	require.True(testInstance, execshell.PtySupported())
}

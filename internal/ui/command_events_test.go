package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/procstream/internal/execshell"
	"github.com/temirov/procstream/internal/ui"
)

const (
	testCommandWorkingDirectoryConstant     = "/tmp/project"
	testCommandArgumentConstant             = "--prune"
	testCommandNameConstant                 = "make"
	testEngineConstant                      = "cooperative"
	testCommandNameFieldExpectationConstant = "make --prune (in /tmp/project)"
	testExecutionFailureReasonConstant      = "execution failed"
	testStandardErrorMessageConstant        = "make: *** no rule"
	testStartMessageExpectationConstant     = "Running " + testCommandNameFieldExpectationConstant
	testSuccessMessageExpectationConstant   = "Completed " + testCommandNameFieldExpectationConstant
	testFailureMessageExpectationConstant   = testCommandNameFieldExpectationConstant + " failed with exit code 2: " + testStandardErrorMessageConstant
	testSignalMessageExpectationConstant    = testCommandNameFieldExpectationConstant + " terminated by signal 15"
	testExecutionFailureMessageExpectation  = testCommandNameFieldExpectationConstant + " failed: " + testExecutionFailureReasonConstant
)

func TestCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name: execshell.CommandName(testCommandNameConstant),
		Details: execshell.CommandDetails{
			Arguments:        []string{testCommandArgumentConstant},
			WorkingDirectory: testCommandWorkingDirectoryConstant,
		},
	}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.CommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
		expectedFields  int
	}{
		{
			name: "command_started",
			invoke: func(logger *ui.CommandEventLogger) {
				logger.CommandStarted(command)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testStartMessageExpectationConstant,
			expectedFields:  2,
		},
		{
			name: "command_completed_success",
			invoke: func(logger *ui.CommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testSuccessMessageExpectationConstant,
			expectedFields:  3,
		},
		{
			name: "command_completed_failure",
			invoke: func(logger *ui.CommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 2, StandardError: testStandardErrorMessageConstant})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testFailureMessageExpectationConstant,
			expectedFields:  3,
		},
		{
			name: "command_terminated_by_signal",
			invoke: func(logger *ui.CommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: -15})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testSignalMessageExpectationConstant,
			expectedFields:  3,
		},
		{
			name: "command_execution_failure",
			invoke: func(logger *ui.CommandEventLogger) {
				logger.CommandExecutionFailed(command, errors.New(testExecutionFailureReasonConstant))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: testExecutionFailureMessageExpectation,
			expectedFields:  3,
		},
	}

	for _, testCase := range testCases {
		for _, humanReadable := range []bool{false, true} {
			testInstance.Run(testCase.name, func(testInstance *testing.T) {
				observerCore, observedLogs := observer.New(zapcore.DebugLevel)
				eventLogger := ui.NewCommandEventLogger(zap.New(observerCore), testEngineConstant, humanReadable)

				testCase.invoke(eventLogger)

				entries := observedLogs.All()
				require.Len(testInstance, entries, 1)
				require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
				require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
				if humanReadable {
					require.Empty(testInstance, entries[0].Context)
				} else {
					require.Len(testInstance, entries[0].Context, testCase.expectedFields)
				}
			})
		}
	}
}

func TestCommandEventLoggerToleratesNil(testInstance *testing.T) {
	var eventLogger *ui.CommandEventLogger
	eventLogger.CommandStarted(execshell.ShellCommand{})
	eventLogger.CommandCompleted(execshell.ShellCommand{}, execshell.ExecutionResult{})
	eventLogger.CommandExecutionFailed(execshell.ShellCommand{}, nil)

	require.NotNil(testInstance, ui.NewCommandEventLogger(nil, "", false))
}

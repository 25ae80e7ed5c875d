package execshell

import (
	"fmt"
	"strings"
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericSignalFailureTemplateConstant    = "%s terminated by signal %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	ptyFallbackTemplateConstant             = "Terminal unavailable for %s, using pipes: %s"
	commandLabelTemplateConstant            = "%s%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	terminalSuffixConstant                  = " [tty]"
	shellSuffixConstant                     = " [shell]"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(genericStartTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildSuccessMessage formats the message describing a command that exited with code zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return fmt.Sprintf(genericSuccessTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildFailureMessage formats the message describing a non-zero exit. Negative codes
// are reported as the signal that terminated the child.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)
	if result.ExitCode < 0 {
		return fmt.Sprintf(genericSignalFailureTemplateConstant, formatter.formatCommandLabel(command), -result.ExitCode, standardErrorSuffix)
	}
	return fmt.Sprintf(genericFailureTemplateConstant, formatter.formatCommandLabel(command), result.ExitCode, standardErrorSuffix)
}

// BuildExecutionFailureMessage formats the message describing a failure that prevented a result.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return fmt.Sprintf(genericExecutionFailureTemplateConstant, formatter.formatCommandLabel(command), formatter.describeFailure(failure))
}

// BuildPtyFallbackMessage formats the message emitted when a terminal could not be allocated.
func (formatter CommandMessageFormatter) BuildPtyFallbackMessage(command ShellCommand, failure error) string {
	return fmt.Sprintf(ptyFallbackTemplateConstant, command.Label(), formatter.describeFailure(failure))
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	modeSuffix := emptyStringConstant
	if command.Details.EmulateTerminal {
		modeSuffix += terminalSuffixConstant
	}
	if command.Details.UseShell {
		modeSuffix += shellSuffixConstant
	}
	return fmt.Sprintf(commandLabelTemplateConstant, command.Label(), modeSuffix, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

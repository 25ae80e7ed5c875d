package execshell

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	commandLabelJoinSeparatorConstant      = " "
	unixShellProgramConstant               = "/bin/sh"
	unixShellCommandFlagConstant           = "-c"
	windowsShellProgramConstant            = "cmd"
	windowsShellCommandFlagConstant        = "/C"
	windowsOperatingSystemConstant         = "windows"
)

// CommandName identifies the program a ShellCommand launches.
type CommandName string

// CommandDetails describes how a program is invoked.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	// ReplaceEnvironment discards the inherited environment so that only
	// EnvironmentVariables are visible to the child.
	ReplaceEnvironment bool
	// UseShell evaluates the joined command line with the platform shell.
	UseShell bool
	// EmulateTerminal attaches the child's output streams to a pseudo-terminal.
	EmulateTerminal bool
}

// ShellCommand couples a program with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// NewShellCommand builds a ShellCommand from an argument vector whose first element is the program.
func NewShellCommand(argumentVector []string, details CommandDetails) (ShellCommand, error) {
	if len(argumentVector) == 0 || len(strings.TrimSpace(argumentVector[0])) == 0 {
		return ShellCommand{}, ErrEmptyCommand
	}
	details.Arguments = append([]string{}, argumentVector[1:]...)
	return ShellCommand{Name: CommandName(argumentVector[0]), Details: details}, nil
}

// ArgumentVector returns the program followed by its arguments.
func (command ShellCommand) ArgumentVector() []string {
	return append([]string{string(command.Name)}, command.Details.Arguments...)
}

// Label renders the command line for log and error messages.
func (command ShellCommand) Label() string {
	return strings.Join(command.ArgumentVector(), commandLabelJoinSeparatorConstant)
}

// Clone copies the mutable parts so later caller edits do not affect a running execution.
func (command ShellCommand) Clone() ShellCommand {
	command.Details.Arguments = slices.Clone(command.Details.Arguments)
	command.Details.EnvironmentVariables = maps.Clone(command.Details.EnvironmentVariables)
	return command
}

// BuildProcess prepares an exec.Cmd for the command without attaching any standard streams.
func (command ShellCommand) BuildProcess(executionContext context.Context) *exec.Cmd {
	program, programArguments := command.resolveInvocation()
	process := exec.CommandContext(executionContext, program, programArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		process.Dir = command.Details.WorkingDirectory
	}

	if command.Details.EnvironmentVariables != nil || command.Details.ReplaceEnvironment {
		process.Env = command.mergedEnvironment()
	}

	return process
}

func (command ShellCommand) resolveInvocation() (string, []string) {
	if !command.Details.UseShell {
		return string(command.Name), append([]string{}, command.Details.Arguments...)
	}
	commandLine := command.Label()
	if runtime.GOOS == windowsOperatingSystemConstant {
		return windowsShellProgramConstant, []string{windowsShellCommandFlagConstant, commandLine}
	}
	return unixShellProgramConstant, []string{unixShellCommandFlagConstant, commandLine}
}

func (command ShellCommand) mergedEnvironment() []string {
	var mergedEnvironment []string
	if !command.Details.ReplaceEnvironment {
		mergedEnvironment = append(mergedEnvironment, os.Environ()...)
	}
	for _, environmentKey := range slices.Sorted(maps.Keys(command.Details.EnvironmentVariables)) {
		environmentValue := command.Details.EnvironmentVariables[environmentKey]
		mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
	}
	if mergedEnvironment == nil {
		mergedEnvironment = []string{}
	}
	return mergedEnvironment
}

// Package flags provides helpers for binding standardized execution flags to Cobra commands.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// TerminalFlagName exposes the shared terminal emulation flag name.
	TerminalFlagName = "tty"
	// TerminalFlagUsage describes the terminal emulation flag purpose.
	TerminalFlagUsage = "Attach the command output to a pseudo-terminal"
	// ShellFlagName exposes the shared shell evaluation flag name.
	ShellFlagName = "shell"
	// ShellFlagUsage describes the shell evaluation flag purpose.
	ShellFlagUsage = "Evaluate the command line with the platform shell"
	// WorkingDirectoryFlagName exposes the shared working directory flag name.
	WorkingDirectoryFlagName = "cwd"
	// WorkingDirectoryFlagUsage describes the working directory flag purpose.
	WorkingDirectoryFlagUsage = "Directory the command runs in"
	// EnvironmentFlagName exposes the shared environment assignment flag name.
	EnvironmentFlagName = "env"
	// EnvironmentFlagShorthand provides the shorthand for the environment flag.
	EnvironmentFlagShorthand = "e"
	// EnvironmentFlagUsage describes the environment assignment flag purpose.
	EnvironmentFlagUsage = "Environment assignment KEY=VALUE added to the inherited environment (repeatable)"

	environmentAssignmentSeparator        = "="
	environmentAssignmentErrorTemplate    = "invalid environment assignment %q: expected KEY=VALUE"
	environmentAssignmentPartCountLiteral = 2
)

// ExecutionFlagValues stores values for flags shared by the process-launching verbs.
type ExecutionFlagValues struct {
	EmulateTerminal  TriState
	UseShell         bool
	WorkingDirectory string
	Environment      []string
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	EmulateTerminal  ExecutionFlagDefinition
	UseShell         ExecutionFlagDefinition
	WorkingDirectory ExecutionFlagDefinition
	Environment      ExecutionFlagDefinition
}

// DefaultExecutionFlagDefinitions enables every execution flag with its shared name and usage.
func DefaultExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		EmulateTerminal:  ExecutionFlagDefinition{Name: TerminalFlagName, Usage: TerminalFlagUsage, Enabled: true},
		UseShell:         ExecutionFlagDefinition{Name: ShellFlagName, Usage: ShellFlagUsage, Enabled: true},
		WorkingDirectory: ExecutionFlagDefinition{Name: WorkingDirectoryFlagName, Usage: WorkingDirectoryFlagUsage, Enabled: true},
		Environment:      ExecutionFlagDefinition{Name: EnvironmentFlagName, Usage: EnvironmentFlagUsage, Shorthand: EnvironmentFlagShorthand, Enabled: true},
	}
}

// BindExecutionFlags attaches the enabled execution flags to the command's local flag set.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionFlagValues, definitions ExecutionFlagDefinitions) *ExecutionFlagValues {
	values := defaults
	values.Environment = append([]string{}, defaults.Environment...)
	if command == nil {
		return &values
	}

	flagSet := command.Flags()
	if definitions.EmulateTerminal.Enabled && len(definitions.EmulateTerminal.Name) > 0 {
		AddTriStateFlag(flagSet, &values.EmulateTerminal, definitions.EmulateTerminal.Name, definitions.EmulateTerminal.Shorthand, defaults.EmulateTerminal, definitions.EmulateTerminal.Usage)
	}
	if definitions.UseShell.Enabled && len(definitions.UseShell.Name) > 0 {
		AddToggleFlag(flagSet, &values.UseShell, definitions.UseShell.Name, definitions.UseShell.Shorthand, defaults.UseShell, definitions.UseShell.Usage)
	}
	bindStringFlag(flagSet, &values.WorkingDirectory, definitions.WorkingDirectory, defaults.WorkingDirectory)
	if definitions.Environment.Enabled && len(definitions.Environment.Name) > 0 {
		flagSet.StringArrayVarP(&values.Environment, definitions.Environment.Name, definitions.Environment.Shorthand, values.Environment, definitions.Environment.Usage)
	}

	return &values
}

// ParseEnvironmentAssignments converts KEY=VALUE assignments into a map. Later assignments win.
func ParseEnvironmentAssignments(assignments []string) (map[string]string, error) {
	if len(assignments) == 0 {
		return nil, nil
	}
	environment := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		assignmentParts := strings.SplitN(assignment, environmentAssignmentSeparator, environmentAssignmentPartCountLiteral)
		if len(assignmentParts) != environmentAssignmentPartCountLiteral || len(strings.TrimSpace(assignmentParts[0])) == 0 {
			return nil, fmt.Errorf(environmentAssignmentErrorTemplate, assignment)
		}
		environment[strings.TrimSpace(assignmentParts[0])] = assignmentParts[1]
	}
	return environment, nil
}

func bindStringFlag(flagSet *pflag.FlagSet, target *string, definition ExecutionFlagDefinition, defaultValue string) {
	if flagSet == nil || !definition.Enabled || len(definition.Name) == 0 {
		return
	}
	if len(definition.Shorthand) > 0 {
		flagSet.StringVarP(target, definition.Name, definition.Shorthand, defaultValue, definition.Usage)
		return
	}
	flagSet.StringVar(target, definition.Name, defaultValue, definition.Usage)
}

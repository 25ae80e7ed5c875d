package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"

	"github.com/temirov/procstream/internal/execshell"
	flagutils "github.com/temirov/procstream/internal/utils/flags"
	"github.com/temirov/procstream/internal/verbs"
)

const (
	argumentTerminatorConstant          = "--"
	commandExtrasKeyConstant            = "command"
	commandWhitespaceCharactersConstant = " \t\n"
	commandSplitErrorTemplateConstant   = "unable to split command %q: %w"
	missingCommandMessageConstant       = "a command to execute is required"
	longFlagPrefixConstant              = "--"
	flagValueSeparatorConstant          = "="
	booleanFlagTypeConstant             = "bool"
)

var errMissingCommand = errors.New(missingCommandMessageConstant)

// commandExtras is decoded from the extras of commandArgumentPreprocessor.
type commandExtras struct {
	Command []string `mapstructure:"command"`
}

// commandArgumentPreprocessor normalizes toggle flags and moves every token after "--" into the
// "command" extra, so the command's own flags never reach the verb's flag parser.
func commandArgumentPreprocessor(arguments []string) ([]string, map[string]any) {
	extras := map[string]any{}
	flagArguments := arguments
	for argumentIndex, argument := range arguments {
		if argument == argumentTerminatorConstant {
			flagArguments = arguments[:argumentIndex]
			extras[commandExtrasKeyConstant] = append([]string{}, arguments[argumentIndex+1:]...)
			break
		}
	}
	normalizedArguments := flagutils.NormalizeToggleArguments(flagArguments)
	if normalizedArguments == nil {
		normalizedArguments = []string{}
	}
	return normalizedArguments, extras
}

// resolveCommandVector picks the command from the preprocessor extras, falling back to the
// positional arguments. A single token containing whitespace is split with shell quoting
// rules unless the command runs through the shell.
func resolveCommandVector(extras map[string]any, positionalArguments []string, useShell bool) ([]string, error) {
	decodedExtras := commandExtras{}
	if decodeError := verbs.DecodeExtras(extras, &decodedExtras); decodeError != nil {
		return nil, decodeError
	}

	commandVector := decodedExtras.Command
	if len(commandVector) == 0 {
		commandVector = positionalArguments
	}
	if len(commandVector) == 0 {
		return nil, errMissingCommand
	}

	if len(commandVector) == 1 && !useShell && strings.ContainsAny(commandVector[0], commandWhitespaceCharactersConstant) {
		splitVector, splitError := shlex.Split(commandVector[0])
		if splitError != nil {
			return nil, fmt.Errorf(commandSplitErrorTemplateConstant, commandVector[0], splitError)
		}
		commandVector = splitVector
	}
	if len(commandVector) == 0 {
		return nil, errMissingCommand
	}
	return append([]string{}, commandVector...), nil
}

// buildShellCommand converts a command vector and details into an execshell.ShellCommand.
func buildShellCommand(commandVector []string, details execshell.CommandDetails) (execshell.ShellCommand, error) {
	command, commandError := execshell.NewShellCommand(commandVector, details)
	if commandError != nil {
		return execshell.ShellCommand{}, errMissingCommand
	}
	return command, nil
}

// joinSeparatedFlagValues rewrites "--flag value" into "--flag=value" for value-taking flags
// among the leading flags, so that the value is not mistaken for the verb.
func joinSeparatedFlagValues(arguments []string, isValueFlag func(name string) bool) []string {
	joinedArguments := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		argument := arguments[argumentIndex]
		if !strings.HasPrefix(argument, longFlagPrefixConstant) {
			return append(joinedArguments, arguments[argumentIndex:]...)
		}
		flagName := strings.TrimPrefix(argument, longFlagPrefixConstant)
		if len(flagName) > 0 && !strings.Contains(flagName, flagValueSeparatorConstant) && isValueFlag(flagName) && argumentIndex+1 < len(arguments) {
			joinedArguments = append(joinedArguments, argument+flagValueSeparatorConstant+arguments[argumentIndex+1])
			argumentIndex++
			continue
		}
		joinedArguments = append(joinedArguments, argument)
	}
	return joinedArguments
}

package verbs

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
)

const (
	flagMarkerConstant                  = "-"
	verbMetavarPrefixConstant           = "["
	verbMetavarSuffixConstant           = "]"
	verbMetavarSeparatorConstant        = " | "
	defaultTitleTemplateConstant        = "%s command"
	verbHelpDescriptionTemplateConstant = "Call `%s %s -h` for help on each verb."
	extrasDecodeErrorTemplateConstant   = "verbs: unable to decode extras: %w"
)

// VerbArguments is the result of SplitArgumentsByVerb.
type VerbArguments struct {
	Verb     string
	Found    bool
	PreVerb  []string
	PostVerb []string
}

// CreateSubcommands adds one subcommand per verb to parent, grouped under title, and returns
// the argument preprocessor and configured command of every verb. Verbs without a
// preprocessor receive DefaultArgumentPreprocessor. An empty title becomes "<commandName> command".
func CreateSubcommands(parent *cobra.Command, commandName string, verbNames []string, registry *Registry, group string, systemArguments []string, title string) (map[string]ArgumentPreprocessor, map[string]*cobra.Command, error) {
	if parent == nil {
		return nil, nil, ErrParentCommandNotConfigured
	}
	if registry == nil {
		return nil, nil, ErrRegistryNotConfigured
	}

	descriptors := make([]Descriptor, 0, len(verbNames))
	for _, verbName := range verbNames {
		descriptor, loadError := registry.LoadVerbDescription(group, verbName)
		if loadError != nil {
			return nil, nil, loadError
		}
		descriptors = append(descriptors, descriptor)
	}

	if len(strings.TrimSpace(title)) == 0 {
		title = fmt.Sprintf(defaultTitleTemplateConstant, commandName)
	}
	metavar := verbMetavarPrefixConstant + strings.Join(verbNames, verbMetavarSeparatorConstant) + verbMetavarSuffixConstant
	if len(group) > 0 && !parent.ContainsGroup(group) {
		parent.AddGroup(&cobra.Group{ID: group, Title: title})
	}
	if len(parent.Long) == 0 {
		parent.Long = fmt.Sprintf(verbHelpDescriptionTemplateConstant, commandName, metavar)
	}

	argumentPreprocessors := make(map[string]ArgumentPreprocessor, len(descriptors))
	verbCommands := make(map[string]*cobra.Command, len(descriptors))
	for descriptorIndex, descriptor := range descriptors {
		verbCommand := &cobra.Command{
			Use:   descriptor.Verb,
			Short: descriptor.Description,
			Long:  descriptor.Description,
		}
		if descriptor.PrepareArguments != nil {
			if replacement := descriptor.PrepareArguments(verbCommand, systemArguments); replacement != nil {
				verbCommand = replacement
			}
		}
		verbCommand.GroupID = group
		if descriptor.Main != nil {
			verbCommand.RunE = descriptor.Main
		}
		parent.AddCommand(verbCommand)

		preprocessor := descriptor.ArgumentPreprocessor
		if preprocessor == nil {
			preprocessor = DefaultArgumentPreprocessor
		}
		verbName := verbNames[descriptorIndex]
		argumentPreprocessors[verbName] = preprocessor
		verbCommands[verbName] = verbCommand
	}

	return argumentPreprocessors, verbCommands, nil
}

// DefaultArgumentPreprocessor returns the arguments unchanged with no extras.
func DefaultArgumentPreprocessor(arguments []string) ([]string, map[string]any) {
	return arguments, map[string]any{}
}

// SplitArgumentsByVerb treats the first argument that is not a flag as the verb. Everything
// before it is returned as pre-verb flags and everything after it as post-verb arguments.
// When every argument is a flag, Found is false and all arguments are pre-verb flags.
func SplitArgumentsByVerb(arguments []string) VerbArguments {
	verbArguments := VerbArguments{PreVerb: []string{}, PostVerb: []string{}}
	for argumentIndex, argument := range arguments {
		if !strings.HasPrefix(argument, flagMarkerConstant) {
			verbArguments.Verb = argument
			verbArguments.Found = true
			verbArguments.PostVerb = append(verbArguments.PostVerb, arguments[argumentIndex+1:]...)
			return verbArguments
		}
		verbArguments.PreVerb = append(verbArguments.PreVerb, argument)
	}
	return verbArguments
}

// PreprocessArguments runs the preprocessor of the verb found in arguments over its
// post-verb arguments and reassembles the argument list. Arguments without a known verb are
// returned unchanged with empty extras.
func PreprocessArguments(arguments []string, argumentPreprocessors map[string]ArgumentPreprocessor) ([]string, map[string]any) {
	verbArguments := SplitArgumentsByVerb(arguments)
	preprocessor, known := argumentPreprocessors[verbArguments.Verb]
	if !verbArguments.Found || !known {
		return arguments, map[string]any{}
	}

	postVerbArguments, extras := preprocessor(verbArguments.PostVerb)
	if extras == nil {
		extras = map[string]any{}
	}
	processedArguments := make([]string, 0, len(verbArguments.PreVerb)+1+len(postVerbArguments))
	processedArguments = append(processedArguments, verbArguments.PreVerb...)
	processedArguments = append(processedArguments, verbArguments.Verb)
	processedArguments = append(processedArguments, postVerbArguments...)
	return processedArguments, extras
}

// DecodeExtras decodes preprocessor extras into target using mapstructure tags.
func DecodeExtras(extras map[string]any, target any) error {
	if decodeError := mapstructure.Decode(extras, target); decodeError != nil {
		return fmt.Errorf(extrasDecodeErrorTemplateConstant, decodeError)
	}
	return nil
}

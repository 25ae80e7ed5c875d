package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/temirov/procstream/internal/utils"
	"github.com/temirov/procstream/internal/verbs"
)

const (
	configVerbNameConstant            = "config"
	configVerbDescriptionConstant     = "Print the effective configuration as YAML"
	configFileCommentTemplateConstant = "# configuration file: %s\n"
	overridesCommentTemplateConstant  = "# environment overrides: %s\n"
	overridesSeparatorConstant        = ", "
	configEncoderIndentationConstant  = 2
	configVerbUseConstant             = "config"
)

// ConfigurationCommandBuilder assembles the config verb.
type ConfigurationCommandBuilder struct {
	ConfigurationProvider func() ApplicationConfiguration
	MetadataProvider      func() utils.LoadedConfiguration
	ContextAccessor       utils.CommandContextAccessor
}

// Descriptor returns the verb descriptor registered with the verb registry.
func (builder *ConfigurationCommandBuilder) Descriptor() verbs.Descriptor {
	return verbs.Descriptor{
		Verb:             configVerbNameConstant,
		Description:      configVerbDescriptionConstant,
		PrepareArguments: builder.prepareArguments,
		Main:             builder.run,
	}
}

func (builder *ConfigurationCommandBuilder) prepareArguments(command *cobra.Command, _ []string) *cobra.Command {
	command.Use = configVerbUseConstant
	command.Args = cobra.NoArgs
	return nil
}

func (builder *ConfigurationCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := ApplicationConfiguration{}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	output := command.OutOrStdout()
	if configurationFilePath, available := builder.ContextAccessor.ConfigurationFilePath(command.Context()); available && len(configurationFilePath) > 0 {
		fmt.Fprintf(output, configFileCommentTemplateConstant, configurationFilePath)
	}
	if builder.MetadataProvider != nil {
		if overrides := builder.MetadataProvider().EnvironmentOverrides; len(overrides) > 0 {
			fmt.Fprintf(output, overridesCommentTemplateConstant, strings.Join(overrides, overridesSeparatorConstant))
		}
	}

	encoder := yaml.NewEncoder(output)
	encoder.SetIndent(configEncoderIndentationConstant)
	if encodeError := encoder.Encode(configuration); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}

package utils

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	pathutils "github.com/temirov/procstream/internal/utils/path"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	configurationFileEnvironmentSuffixConstant      = "_CONFIG"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
	listValueSeparatorConstant                      = ","
)

// ConfigurationLoader layers embedded defaults, a configuration file, and prefixed environment
// variables with Viper. The file is taken from the explicit path, then from the
// <PREFIX>_CONFIG variable, then from the first search path holding <name>.<type>.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	environmentKeyReplacer    *strings.Replacer
	embeddedConfiguration     []byte
	embeddedConfigurationType string
	pathExpander              *pathutils.PathExpander
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
	// Settings holds every resolved key after defaults, files, and environment overrides.
	Settings map[string]any
	// EnvironmentOverrides lists, sorted, the keys whose value came from the environment.
	EnvironmentOverrides []string
}

// NewConfigurationLoader creates a loader for <configurationName>.<configurationType> files.
// Search paths may use ~ and $VARIABLE references.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName:      configurationName,
		configurationType:      configurationType,
		environmentPrefix:      strings.ToUpper(strings.TrimSpace(environmentPrefix)),
		searchPaths:            slices.Clone(searchPaths),
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
		pathExpander:           pathutils.NewPathExpander(),
	}
}

// SetEmbeddedConfiguration stores configuration data merged beneath any configuration file.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)
	loader.embeddedConfiguration = bytes.Clone(configurationData)
	if len(loader.embeddedConfiguration) == 0 {
		loader.embeddedConfiguration = nil
	}
}

// ConfigurationFileEnvironmentName returns the variable that names a configuration file.
func (loader *ConfigurationLoader) ConfigurationFileEnvironmentName() string {
	return loader.environmentPrefix + configurationFileEnvironmentSuffixConstant
}

// EnvironmentVariableName returns the variable that overrides configurationKey.
func (loader *ConfigurationLoader) EnvironmentVariableName(configurationKey string) string {
	return loader.environmentPrefix + environmentKeySeparatorNewConstant + strings.ToUpper(loader.environmentKeyReplacer.Replace(configurationKey))
}

// LoadConfiguration populates targetConfiguration from defaults, embedded data, the configuration
// file, and environment variables, in increasing precedence.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	if mergeError := loader.mergeEmbeddedConfiguration(viperInstance); mergeError != nil {
		return LoadedConfiguration{}, mergeError
	}

	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(loader.pathExpander.Expand(searchPath))
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if resolvedFilePath := loader.resolveConfigurationFilePath(configurationFilePath); len(resolvedFilePath) > 0 {
		viperInstance.SetConfigFile(resolvedFilePath)
	}

	readError := viperInstance.MergeInConfig()
	if readError != nil {
		if _, isNotFound := readError.(viper.ConfigFileNotFoundError); !isNotFound {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	unmarshalError := viperInstance.Unmarshal(targetConfiguration, viper.DecodeHook(configurationDecodeHook()))
	if unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{
		ConfigFileUsed:       viperInstance.ConfigFileUsed(),
		Settings:             viperInstance.AllSettings(),
		EnvironmentOverrides: loader.environmentOverrides(viperInstance.AllKeys()),
	}, nil
}

func (loader *ConfigurationLoader) mergeEmbeddedConfiguration(viperInstance *viper.Viper) error {
	if len(loader.embeddedConfiguration) == 0 {
		return nil
	}
	if len(loader.embeddedConfigurationType) > 0 {
		viperInstance.SetConfigType(loader.embeddedConfigurationType)
		defer viperInstance.SetConfigType(loader.configurationType)
	}
	if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration)); mergeError != nil {
		return fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
	}
	return nil
}

func (loader *ConfigurationLoader) resolveConfigurationFilePath(configurationFilePath string) string {
	trimmedPath := strings.TrimSpace(configurationFilePath)
	if len(trimmedPath) == 0 {
		environmentPath, available := os.LookupEnv(loader.ConfigurationFileEnvironmentName())
		if !available {
			return ""
		}
		trimmedPath = strings.TrimSpace(environmentPath)
	}
	if len(trimmedPath) == 0 {
		return ""
	}
	return loader.pathExpander.Expand(trimmedPath)
}

func (loader *ConfigurationLoader) environmentOverrides(configurationKeys []string) []string {
	var overriddenKeys []string
	for _, configurationKey := range configurationKeys {
		if _, available := os.LookupEnv(loader.EnvironmentVariableName(configurationKey)); available {
			overriddenKeys = append(overriddenKeys, configurationKey)
		}
	}
	slices.Sort(overriddenKeys)
	return overriddenKeys
}

// configurationDecodeHook lets environment overrides supply durations and comma separated lists.
func configurationDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(listValueSeparatorConstant),
		mapstructure.TextUnmarshallerHookFunc(),
	)
}

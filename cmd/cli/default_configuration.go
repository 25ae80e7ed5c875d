package cli

import (
	_ "embed"

	"github.com/temirov/procstream/internal/execshell"
	"github.com/temirov/procstream/internal/linebuffer"
	"github.com/temirov/procstream/internal/utils"
	flagutils "github.com/temirov/procstream/internal/utils/flags"
)

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns the embedded default configuration data and type identifier.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	duplicatedContent := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(duplicatedContent, embeddedDefaultConfigurationContent)
	return duplicatedContent, configurationTypeConstant
}

// DefaultConfigurationValues returns the defaults applied beneath the embedded configuration.
func DefaultConfigurationValues() map[string]any {
	return map[string]any{
		commonLogLevelConfigKeyConstant:            string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:           string(utils.LogFormatStructured),
		executionEmulateTerminalConfigKeyConstant:  string(flagutils.TriStateAuto),
		executionUseShellConfigKeyConstant:         false,
		executionPtyFallbackConfigKeyConstant:      true,
		executionWorkingDirectoryConfigKeyConstant: "",
		executionEnvironmentConfigKeyConstant:      []string{},
		executionChunkSizeConfigKeyConstant:        execshell.DefaultChunkSize,
		executionLineSeparatorConfigKeyConstant:    linebuffer.DefaultSeparator,
		whichSearchPathsConfigKeyConstant:          []string{},
	}
}

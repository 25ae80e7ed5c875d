package cli

import "github.com/temirov/procstream/internal/execshell"

const (
	commonConfigurationKeyConstant             = "common"
	commonLogLevelConfigKeyConstant            = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant           = commonConfigurationKeyConstant + ".log_format"
	executionConfigurationKeyConstant          = "execution"
	executionEmulateTerminalConfigKeyConstant  = executionConfigurationKeyConstant + ".emulate_tty"
	executionUseShellConfigKeyConstant         = executionConfigurationKeyConstant + ".use_shell"
	executionPtyFallbackConfigKeyConstant      = executionConfigurationKeyConstant + ".pty_fallback"
	executionWorkingDirectoryConfigKeyConstant = executionConfigurationKeyConstant + ".working_directory"
	executionEnvironmentConfigKeyConstant      = executionConfigurationKeyConstant + ".environment"
	executionChunkSizeConfigKeyConstant        = executionConfigurationKeyConstant + ".chunk_size"
	executionLineSeparatorConfigKeyConstant    = executionConfigurationKeyConstant + ".line_separator"
	whichSearchPathsConfigKeyConstant          = "which.search_paths"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration    `mapstructure:"common" yaml:"common"`
	Execution ApplicationExecutionConfiguration `mapstructure:"execution" yaml:"execution"`
	Which     ApplicationWhichConfiguration     `mapstructure:"which" yaml:"which"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// ApplicationExecutionConfiguration holds defaults for the process-launching verbs.
type ApplicationExecutionConfiguration struct {
	// EmulateTerminal is yes, no, or auto; auto attaches a terminal when standard output is one.
	EmulateTerminal  string   `mapstructure:"emulate_tty" yaml:"emulate_tty"`
	UseShell         bool     `mapstructure:"use_shell" yaml:"use_shell"`
	PtyFallback      bool     `mapstructure:"pty_fallback" yaml:"pty_fallback"`
	WorkingDirectory string   `mapstructure:"working_directory" yaml:"working_directory"`
	Environment      []string `mapstructure:"environment" yaml:"environment"`
	ChunkSize        int      `mapstructure:"chunk_size" yaml:"chunk_size"`
	LineSeparator    string   `mapstructure:"line_separator" yaml:"line_separator"`
}

// ApplicationWhichConfiguration holds defaults for the which verb.
type ApplicationWhichConfiguration struct {
	// SearchPaths replaces PATH when non-empty.
	SearchPaths []string `mapstructure:"search_paths" yaml:"search_paths"`
}

// engineOptions converts the execution configuration into engine tuning.
func (configuration ApplicationExecutionConfiguration) engineOptions() execshell.EngineOptions {
	return execshell.EngineOptions{
		ChunkSize:     configuration.ChunkSize,
		LineSeparator: configuration.LineSeparator,
	}
}

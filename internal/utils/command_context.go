package utils

import "context"

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	verbExtrasContextKeyConstant            = commandContextKey("verbExtras")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return context.WithValue(ensureContext(parentContext), configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, configurationFilePathAvailable := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	return configurationFilePath, configurationFilePathAvailable
}

// WithVerbExtras attaches the extras produced by a verb's argument preprocessor.
func (accessor CommandContextAccessor) WithVerbExtras(parentContext context.Context, extras map[string]any) context.Context {
	return context.WithValue(ensureContext(parentContext), verbExtrasContextKeyConstant, extras)
}

// VerbExtras extracts preprocessor extras; it returns an empty map when none were attached.
func (accessor CommandContextAccessor) VerbExtras(executionContext context.Context) map[string]any {
	if executionContext == nil {
		return map[string]any{}
	}
	extras, extrasAvailable := executionContext.Value(verbExtrasContextKeyConstant).(map[string]any)
	if !extrasAvailable || extras == nil {
		return map[string]any{}
	}
	return extras
}

func ensureContext(parentContext context.Context) context.Context {
	if parentContext == nil {
		return context.Background()
	}
	return parentContext
}

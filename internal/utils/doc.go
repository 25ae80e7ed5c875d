// Package utils exposes reusable helpers consumed by multiple commands.
//
// ConfigurationLoader and LoggerFactory integrate Viper, environment variables, and zap
// logging for the CLI. FlushingWriter delivers streamed command output line by line, and
// CommandContextAccessor carries per-invocation values through Cobra command contexts.
package utils

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/procstream/internal/utils"
	pathutils "github.com/temirov/procstream/internal/utils/path"
	"github.com/temirov/procstream/internal/verbs"
	"github.com/temirov/procstream/internal/which"
)

const (
	whichVerbNameConstant            = "which"
	whichVerbDescriptionConstant     = "Locate executables in the search path"
	whichUseConstant                 = "which [flags] program [program...]"
	whichPathFlagNameConstant        = "path"
	whichPathFlagUsageConstant       = "Directory to search instead of PATH (repeatable)"
	whichNotFoundTemplateConstant    = "%s: not found\n"
	whichResolvedTemplateConstant    = "%s\n"
	whichResolvedLogMessageConstant  = "Executable resolved"
	whichMissingLogMessageConstant   = "Executable not found"
	whichProgramLogFieldConstant     = "program"
	whichPathLogFieldConstant        = "path"
	whichSearchPathsLogFieldConstant = "search_paths"
	whichMissingExitCodeConstant     = 1
)

// WhichCommandBuilder assembles the which verb.
type WhichCommandBuilder struct {
	LoggerProvider        func() *zap.Logger
	ConfigurationProvider func() ApplicationWhichConfiguration
	searchPaths           []string
}

// Descriptor returns the verb descriptor registered with the verb registry.
func (builder *WhichCommandBuilder) Descriptor() verbs.Descriptor {
	return verbs.Descriptor{
		Verb:             whichVerbNameConstant,
		Description:      whichVerbDescriptionConstant,
		PrepareArguments: builder.prepareArguments,
		Main:             builder.run,
	}
}

func (builder *WhichCommandBuilder) prepareArguments(command *cobra.Command, _ []string) *cobra.Command {
	command.Use = whichUseConstant
	command.Args = cobra.MinimumNArgs(1)
	command.Flags().StringArrayVar(&builder.searchPaths, whichPathFlagNameConstant, nil, whichPathFlagUsageConstant)
	return nil
}

func (builder *WhichCommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := resolveLogger(builder.LoggerProvider)
	searchPaths := builder.resolveSearchPaths(command)

	standardOutput := utils.NewFlushingWriter(command.OutOrStdout())
	standardError := utils.NewFlushingWriter(command.ErrOrStderr())
	defer func() {
		_ = standardOutput.Flush()
		_ = standardError.Flush()
	}()

	allFound := true
	for _, program := range arguments {
		resolvedPath, found, resolveError := which.Resolve(program, searchPaths)
		if resolveError != nil {
			return resolveError
		}
		if !found {
			allFound = false
			logger.Debug(whichMissingLogMessageConstant, zap.String(whichProgramLogFieldConstant, program), zap.Strings(whichSearchPathsLogFieldConstant, searchPaths))
			fmt.Fprintf(standardError, whichNotFoundTemplateConstant, program)
			continue
		}
		logger.Debug(whichResolvedLogMessageConstant, zap.String(whichProgramLogFieldConstant, program), zap.String(whichPathLogFieldConstant, resolvedPath))
		fmt.Fprintf(standardOutput, whichResolvedTemplateConstant, resolvedPath)
	}

	if !allFound {
		return ExitStatusError{Code: whichMissingExitCodeConstant}
	}
	return nil
}

// resolveSearchPaths prefers --path, then configured search paths. Nil selects PATH.
func (builder *WhichCommandBuilder) resolveSearchPaths(command *cobra.Command) []string {
	sanitizer := pathutils.NewSearchPathSanitizer()
	if command.Flags().Changed(whichPathFlagNameConstant) {
		if sanitized := sanitizer.Sanitize(builder.searchPaths); len(sanitized) > 0 {
			return sanitized
		}
	}
	if builder.ConfigurationProvider == nil {
		return nil
	}
	return sanitizer.Sanitize(builder.ConfigurationProvider().SearchPaths)
}

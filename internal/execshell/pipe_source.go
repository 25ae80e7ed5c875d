package execshell

import (
	"context"
	"os"
)

// PipeSource runs commands with their output streams attached to anonymous pipes.
type PipeSource struct {
	options EngineOptions
}

// NewPipeSource constructs a PipeSource.
func NewPipeSource(options EngineOptions) *PipeSource {
	return &PipeSource{options: options.normalized()}
}

// Start spawns the command. When mergeStandardError is set both output streams share one
// pipe and every unit is reported as standard output. Standard input is a pipe held open
// by the execution until it is closed.
func (source *PipeSource) Start(executionContext context.Context, command ShellCommand, mergeStandardError bool) (*Execution, error) {
	command = command.Clone()
	plan := launchPlan{command: command, options: source.options}

	standardInReader, standardInWriter, pipeError := os.Pipe()
	if pipeError != nil {
		return nil, &LaunchError{Command: command, Err: pipeError}
	}
	plan.childFiles = append(plan.childFiles, standardInReader)
	plan.standardIn = standardInWriter

	standardOutReader, standardOutWriter, pipeError := os.Pipe()
	if pipeError != nil {
		plan.release()
		return nil, &LaunchError{Command: command, Err: pipeError}
	}
	plan.childFiles = append(plan.childFiles, standardOutWriter)
	plan.streams = append(plan.streams, newStreamHandle(UnitStandardOutput, standardOutReader, source.options.LineSeparator))

	standardErrWriter := standardOutWriter
	if !mergeStandardError {
		standardErrReader, separateWriter, pipeError := os.Pipe()
		if pipeError != nil {
			plan.release()
			return nil, &LaunchError{Command: command, Err: pipeError}
		}
		standardErrWriter = separateWriter
		plan.childFiles = append(plan.childFiles, separateWriter)
		plan.streams = append(plan.streams, newStreamHandle(UnitStandardError, standardErrReader, source.options.LineSeparator))
	}

	process := command.BuildProcess(executionContext)
	process.Stdin = standardInReader
	process.Stdout = standardOutWriter
	process.Stderr = standardErrWriter
	plan.process = process

	return launch(plan)
}

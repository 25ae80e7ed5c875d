package ui

import (
	"context"
	"io"
	"iter"

	"github.com/temirov/procstream/internal/execshell"
)

// OutputPrinter copies execution output to writers as it arrives.
type OutputPrinter struct {
	standardOutput io.Writer
	standardError  io.Writer
}

// NewOutputPrinter constructs a printer. Nil writers discard their stream.
func NewOutputPrinter(standardOutput io.Writer, standardError io.Writer) *OutputPrinter {
	if standardOutput == nil {
		standardOutput = io.Discard
	}
	if standardError == nil {
		standardError = io.Discard
	}
	return &OutputPrinter{standardOutput: standardOutput, standardError: standardError}
}

// PrintLines writes every line to standard output and returns the exit code. Iteration stops
// early when the context is cancelled; the caller's execution then releases its descriptors.
func (printer *OutputPrinter) PrintLines(executionContext context.Context, lines iter.Seq2[execshell.Line, error]) (int, error) {
	for line, lineError := range lines {
		if lineError != nil {
			return 0, lineError
		}
		if line.Exited {
			return line.ExitCode, nil
		}
		if _, writeError := io.WriteString(printer.standardOutput, line.Text); writeError != nil {
			return 0, writeError
		}
		if contextError := executionContext.Err(); contextError != nil {
			return 0, contextError
		}
	}
	return 0, nil
}

// PrintUnits routes standard output and standard error units to their writers and returns the
// exit code.
func (printer *OutputPrinter) PrintUnits(executionContext context.Context, units iter.Seq2[execshell.OutputUnit, error]) (int, error) {
	for unit, unitError := range units {
		if unitError != nil {
			return 0, unitError
		}
		var destination io.Writer
		switch unit.Kind {
		case execshell.UnitExitCode:
			return unit.Code, nil
		case execshell.UnitStandardError:
			destination = printer.standardError
		default:
			destination = printer.standardOutput
		}
		if _, writeError := destination.Write(unit.Data); writeError != nil {
			return 0, writeError
		}
		if contextError := executionContext.Err(); contextError != nil {
			return 0, contextError
		}
	}
	return 0, nil
}

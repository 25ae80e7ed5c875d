package execshell

import (
	"github.com/temirov/procstream/internal/linebuffer"
)

const (
	unitStandardOutputLabelConstant = "stdout"
	unitStandardErrorLabelConstant  = "stderr"
	unitExitCodeLabelConstant       = "exit"
	unitUnknownLabelConstant        = "unknown"
)

// UnitKind tags the payload carried by an OutputUnit.
type UnitKind int

// Supported unit kinds.
const (
	UnitStandardOutput UnitKind = iota + 1
	UnitStandardError
	UnitExitCode
)

// String returns the stream label.
func (kind UnitKind) String() string {
	switch kind {
	case UnitStandardOutput:
		return unitStandardOutputLabelConstant
	case UnitStandardError:
		return unitStandardErrorLabelConstant
	case UnitExitCode:
		return unitExitCodeLabelConstant
	default:
		return unitUnknownLabelConstant
	}
}

// OutputUnit is one element of an execution's output sequence.
// Exactly one payload is meaningful: Data for stream units, Code for the exit unit.
type OutputUnit struct {
	Kind UnitKind
	Data []byte
	Code int
}

// Text decodes the stream payload, replacing invalid UTF-8 sequences.
func (unit OutputUnit) Text() string {
	return linebuffer.DecodeText(unit.Data)
}

// StandardOutput returns the text of a standard output unit.
func (unit OutputUnit) StandardOutput() (string, bool) {
	if unit.Kind != UnitStandardOutput {
		return "", false
	}
	return unit.Text(), true
}

// StandardError returns the text of a standard error unit.
func (unit OutputUnit) StandardError() (string, bool) {
	if unit.Kind != UnitStandardError {
		return "", false
	}
	return unit.Text(), true
}

// ExitCode returns the code carried by the final unit.
func (unit OutputUnit) ExitCode() (int, bool) {
	if unit.Kind != UnitExitCode {
		return 0, false
	}
	return unit.Code, true
}

// Line is one element of the merged output sequence.
// The final Line has Exited set, carries the exit code, and no text.
type Line struct {
	Text     string
	ExitCode int
	Exited   bool
}

// ExecutionResult captures the collected output of a finished command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

func newStreamUnit(kind UnitKind, data []byte) OutputUnit {
	return OutputUnit{Kind: kind, Data: data}
}

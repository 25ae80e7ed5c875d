//go:build !unix

package execshell

import "context"

// PtySupported reports whether PtySource can allocate pseudo-terminals on this platform.
func PtySupported() bool {
	return false
}

// PtySource is unavailable on this platform; Start always fails with ErrPtyUnsupported.
type PtySource struct{}

// NewPtySource constructs a PtySource.
func NewPtySource(EngineOptions) *PtySource {
	return &PtySource{}
}

// Start reports ErrPtyUnsupported.
func (source *PtySource) Start(context.Context, ShellCommand, bool) (*Execution, error) {
	return nil, ErrPtyUnsupported
}

// Package cli constructs the procstream command-line interface, wiring the
// Cobra command hierarchy, verb registry, configuration loader, and structured
// logging primitives. Each verb streams a child process through one of the
// execution engines and mirrors the child's exit status.
package cli

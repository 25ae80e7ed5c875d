// Package execshell runs child processes and streams their output as it is produced.
//
// PipeSource and PtySource spawn a command and return an Execution whose Units method
// yields standard output and standard error chunks, reassembled on line boundaries, followed
// by exactly one exit-code unit. Lines offers the merged line-by-line view. On unix the
// blocking engine multiplexes descriptors with poll(2); elsewhere reader goroutines emulate
// readiness. ShellExecutor picks an engine per command, falls back to pipes when a terminal
// cannot be allocated, collects output with Run, and reports lifecycle events to zap and
// to a CommandEventObserver.
package execshell

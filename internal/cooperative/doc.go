// Package cooperative drives child processes through callback protocols executed on a
// single-goroutine event loop.
//
// A Loop runs scheduled callbacks one at a time in FIFO order. ExecuteProcess spawns a
// command, delivers its output and lifecycle notifications to a Protocol on the loop, and
// resolves the protocol's Completion with the exit code exactly once. LoopProvider owns the
// loop shared by one subsystem and replaces it when it is no longer running.
package cooperative

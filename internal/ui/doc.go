// Package ui renders command execution for people at a terminal.
//
// OutputPrinter copies streamed output to the console as it arrives, and CommandEventLogger
// reports lifecycle events for engines that have no executor of their own.
package ui

package cooperative

import "errors"

const (
	completionAlreadyResolvedMessageConstant = "cooperative: completion already resolved"
	loopClosedMessageConstant                = "cooperative: loop closed"
	loopNotConfiguredMessageConstant         = "cooperative: loop not configured"
	protocolFactoryNotConfiguredConstant     = "cooperative: protocol factory not configured"
	loopProviderNotConfiguredMessageConstant = "cooperative: loop provider not configured"
)

var (
	// ErrCompletionAlreadyResolved is returned when a Completion is resolved a second time.
	ErrCompletionAlreadyResolved = errors.New(completionAlreadyResolvedMessageConstant)
	// ErrLoopClosed is returned when work is scheduled on a closed Loop.
	ErrLoopClosed = errors.New(loopClosedMessageConstant)
	// ErrLoopNotConfigured indicates that a nil Loop was supplied.
	ErrLoopNotConfigured = errors.New(loopNotConfiguredMessageConstant)
	// ErrProtocolFactoryNotConfigured indicates that a nil ProtocolFactory was supplied.
	ErrProtocolFactoryNotConfigured = errors.New(protocolFactoryNotConfiguredConstant)
	// ErrLoopProviderNotConfigured indicates that a nil LoopProvider was supplied.
	ErrLoopProviderNotConfigured = errors.New(loopProviderNotConfiguredMessageConstant)
)

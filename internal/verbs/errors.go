package verbs

import "errors"

const (
	duplicateVerbMessageConstant        = "verbs: verb already registered"
	unknownVerbMessageConstant          = "verbs: verb not registered"
	invalidDescriptorMessageConstant    = "verbs: descriptor requires a verb name"
	parentCommandMissingMessageConstant = "verbs: parent command not configured"
	registryMissingMessageConstant      = "verbs: registry not configured"
)

var (
	// ErrDuplicateVerb indicates that a group already holds a descriptor with the same verb name.
	ErrDuplicateVerb = errors.New(duplicateVerbMessageConstant)
	// ErrUnknownVerb indicates that a group holds no descriptor for the requested verb.
	ErrUnknownVerb = errors.New(unknownVerbMessageConstant)
	// ErrInvalidDescriptor indicates a descriptor without a verb name.
	ErrInvalidDescriptor = errors.New(invalidDescriptorMessageConstant)
	// ErrParentCommandNotConfigured indicates a missing parent command.
	ErrParentCommandNotConfigured = errors.New(parentCommandMissingMessageConstant)
	// ErrRegistryNotConfigured indicates a missing registry.
	ErrRegistryNotConfigured = errors.New(registryMissingMessageConstant)
)

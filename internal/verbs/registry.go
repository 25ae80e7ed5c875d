package verbs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

const (
	verbErrorTemplateConstant = "%w: %s/%s"
)

// ArgumentPreprocessor rewrites the post-verb arguments before parsing and returns extra
// values recovered from them.
type ArgumentPreprocessor func(arguments []string) ([]string, map[string]any)

// PrepareArgumentsFunc populates the verb's command with flags. It receives the raw system
// arguments and may return a replacement command; nil keeps the command it was given.
type PrepareArgumentsFunc func(command *cobra.Command, systemArguments []string) *cobra.Command

// Descriptor describes one installable verb.
type Descriptor struct {
	Verb                 string
	Description          string
	PrepareArguments     PrepareArgumentsFunc
	Main                 func(command *cobra.Command, arguments []string) error
	ArgumentPreprocessor ArgumentPreprocessor
}

// Registry maps discovery groups to the descriptors installed in them.
type Registry struct {
	mutex       sync.RWMutex
	descriptors map[string]map[string]Descriptor
	order       map[string][]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]map[string]Descriptor),
		order:       make(map[string][]string),
	}
}

// Register installs a descriptor in the group.
func (registry *Registry) Register(group string, descriptor Descriptor) error {
	verbName := strings.TrimSpace(descriptor.Verb)
	if len(verbName) == 0 {
		return ErrInvalidDescriptor
	}
	descriptor.Verb = verbName

	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	groupDescriptors, groupExists := registry.descriptors[group]
	if !groupExists {
		groupDescriptors = make(map[string]Descriptor)
		registry.descriptors[group] = groupDescriptors
	}
	if _, duplicate := groupDescriptors[verbName]; duplicate {
		return fmt.Errorf(verbErrorTemplateConstant, ErrDuplicateVerb, group, verbName)
	}
	groupDescriptors[verbName] = descriptor
	registry.order[group] = append(registry.order[group], verbName)
	return nil
}

// ListVerbs returns the verb names of a group in registration order.
func (registry *Registry) ListVerbs(group string) []string {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	return append([]string{}, registry.order[group]...)
}

// LoadVerbDescription returns the descriptor registered for the verb in the group.
func (registry *Registry) LoadVerbDescription(group string, verbName string) (Descriptor, error) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	descriptor, found := registry.descriptors[group][verbName]
	if !found {
		return Descriptor{}, fmt.Errorf(verbErrorTemplateConstant, ErrUnknownVerb, group, verbName)
	}
	return descriptor, nil
}

package cooperative

import (
	"sync"
)

// LoopProvider owns the Loop used by one subsystem. Acquire reuses the current loop while it
// runs and replaces a missing, idle or closed one with a freshly started loop. A replaced loop
// that is still open is closed.
type LoopProvider struct {
	mutex   sync.Mutex
	current *Loop
}

// NewLoopProvider constructs a provider without a loop; the first Acquire creates one.
func NewLoopProvider() *LoopProvider {
	return &LoopProvider{}
}

// Acquire returns a running loop.
func (provider *LoopProvider) Acquire() (*Loop, error) {
	provider.mutex.Lock()
	defer provider.mutex.Unlock()

	if provider.current != nil && provider.current.Running() {
		return provider.current, nil
	}

	replacement := NewLoop()
	if startError := replacement.Start(); startError != nil {
		return nil, startError
	}
	provider.release()
	provider.current = replacement
	return replacement, nil
}

// Install makes loop the current loop, closing the previous one. An idle or closed loop is
// replaced by the next Acquire.
func (provider *LoopProvider) Install(loop *Loop) {
	provider.mutex.Lock()
	defer provider.mutex.Unlock()
	if provider.current != loop {
		provider.release()
	}
	provider.current = loop
}

// Current returns the current loop, which may be nil, idle or closed.
func (provider *LoopProvider) Current() *Loop {
	provider.mutex.Lock()
	defer provider.mutex.Unlock()
	return provider.current
}

// Close closes the current loop if it is still open.
func (provider *LoopProvider) Close() error {
	provider.mutex.Lock()
	defer provider.mutex.Unlock()
	if provider.current == nil || provider.current.Closed() {
		return nil
	}
	return provider.current.Close()
}

// release closes the current loop unless it is already closed. The caller holds the mutex.
func (provider *LoopProvider) release() {
	if provider.current != nil && !provider.current.Closed() {
		_ = provider.current.Close()
	}
}

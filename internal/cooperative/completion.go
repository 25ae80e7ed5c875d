package cooperative

import (
	"context"
	"sync"
)

// Completion is a single-assignment exit code shared by a protocol and its awaiters.
type Completion struct {
	mutex     sync.Mutex
	loop      *Loop
	resolved  bool
	exitCode  int
	done      chan struct{}
	callbacks []func(exitCode int)
}

// NewCompletion constructs an unresolved Completion whose callbacks run on loop.
// A nil loop runs callbacks on the resolving goroutine.
func NewCompletion(loop *Loop) *Completion {
	return &Completion{loop: loop, done: make(chan struct{})}
}

// Resolve stores exitCode, releases Wait callers and schedules the registered callbacks in
// registration order. Only the first call succeeds.
func (completion *Completion) Resolve(exitCode int) error {
	completion.mutex.Lock()
	if completion.resolved {
		completion.mutex.Unlock()
		return ErrCompletionAlreadyResolved
	}
	completion.resolved = true
	completion.exitCode = exitCode
	callbacks := completion.callbacks
	completion.callbacks = nil
	close(completion.done)
	completion.mutex.Unlock()

	completion.dispatch(callbacks, exitCode)
	return nil
}

// OnComplete registers callback to receive the exit code. Callbacks registered after
// resolution are scheduled immediately.
func (completion *Completion) OnComplete(callback func(exitCode int)) {
	completion.mutex.Lock()
	if !completion.resolved {
		completion.callbacks = append(completion.callbacks, callback)
		completion.mutex.Unlock()
		return
	}
	exitCode := completion.exitCode
	completion.mutex.Unlock()

	completion.dispatch([]func(int){callback}, exitCode)
}

// Wait blocks until the completion is resolved or the context ends. Every call after
// resolution returns the same exit code.
func (completion *Completion) Wait(waitContext context.Context) (int, error) {
	select {
	case <-completion.done:
		completion.mutex.Lock()
		defer completion.mutex.Unlock()
		return completion.exitCode, nil
	case <-waitContext.Done():
		return 0, waitContext.Err()
	}
}

// Done is closed when the completion is resolved.
func (completion *Completion) Done() <-chan struct{} {
	return completion.done
}

// Result returns the exit code once resolved.
func (completion *Completion) Result() (int, bool) {
	completion.mutex.Lock()
	defer completion.mutex.Unlock()
	return completion.exitCode, completion.resolved
}

func (completion *Completion) dispatch(callbacks []func(int), exitCode int) {
	if len(callbacks) == 0 {
		return
	}
	runCallbacks := func() {
		for _, callback := range callbacks {
			callback(exitCode)
		}
	}
	if completion.loop == nil || completion.loop.Call(runCallbacks) != nil {
		runCallbacks()
	}
}

package cooperative

import (
	"sync"
)

// Loop executes scheduled callbacks sequentially on one goroutine.
// Callbacks run in the order they were scheduled. A Loop is created idle; Start launches
// its goroutine and Close stops it after the already scheduled callbacks have run.
type Loop struct {
	mutex    sync.Mutex
	queue    []func()
	wakeup   chan struct{}
	stopping chan struct{}
	stopped  chan struct{}
	running  bool
	closed   bool
}

// NewLoop constructs an idle Loop.
func NewLoop() *Loop {
	return &Loop{
		wakeup:   make(chan struct{}, 1),
		stopping: make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start launches the loop goroutine. Starting a running loop does nothing.
func (loop *Loop) Start() error {
	loop.mutex.Lock()
	defer loop.mutex.Unlock()
	if loop.closed {
		return ErrLoopClosed
	}
	if loop.running {
		return nil
	}
	loop.running = true
	go loop.run()
	return nil
}

// Call schedules callback to run on the loop goroutine.
// Callbacks may be scheduled on an idle loop; they run once it starts.
func (loop *Loop) Call(callback func()) error {
	loop.mutex.Lock()
	if loop.closed {
		loop.mutex.Unlock()
		return ErrLoopClosed
	}
	loop.queue = append(loop.queue, callback)
	loop.mutex.Unlock()

	select {
	case loop.wakeup <- struct{}{}:
	default:
	}
	return nil
}

// Running reports whether the loop goroutine is active and accepting work.
func (loop *Loop) Running() bool {
	loop.mutex.Lock()
	defer loop.mutex.Unlock()
	return loop.running && !loop.closed
}

// Closed reports whether Close was called.
func (loop *Loop) Closed() bool {
	loop.mutex.Lock()
	defer loop.mutex.Unlock()
	return loop.closed
}

// Close rejects further work and lets the goroutine finish the callbacks already queued.
// Closing twice returns ErrLoopClosed.
func (loop *Loop) Close() error {
	loop.mutex.Lock()
	defer loop.mutex.Unlock()
	if loop.closed {
		return ErrLoopClosed
	}
	loop.closed = true
	close(loop.stopping)
	if !loop.running {
		close(loop.stopped)
	}
	return nil
}

// Done is closed once the loop goroutine has exited, or immediately for a loop closed idle.
func (loop *Loop) Done() <-chan struct{} {
	return loop.stopped
}

func (loop *Loop) run() {
	defer close(loop.stopped)
	for {
		select {
		case <-loop.wakeup:
			loop.drain()
		case <-loop.stopping:
			loop.drain()
			return
		}
	}
}

func (loop *Loop) drain() {
	for {
		loop.mutex.Lock()
		if len(loop.queue) == 0 {
			loop.mutex.Unlock()
			return
		}
		pending := loop.queue
		loop.queue = nil
		loop.mutex.Unlock()

		for _, callback := range pending {
			callback()
		}
	}
}

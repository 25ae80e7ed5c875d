//go:build !unix

package execshell

import (
	"reflect"
	"sync"
	"time"
)

// exitDrainGracePeriod bounds how long a drain after exit waits for a feeder that is still
// inside a read. Grandchildren holding the streams open cannot stall completion past it.
const exitDrainGracePeriod = 100 * time.Millisecond

// streamChunk is one read performed by a feeder goroutine.
type streamChunk struct {
	data []byte
	err  error
}

// readinessPoller emulates readiness on platforms without poll(2): one goroutine per
// stream performs blocking reads and parks each chunk until the engine asks for it.
type readinessPoller struct {
	chunkSize  int
	feeds      map[*streamHandle]chan streamChunk
	pending    map[*streamHandle]streamChunk
	wake       chan struct{}
	done       chan struct{}
	notifyOnce sync.Once
	closeOnce  sync.Once
}

func newReadinessPoller(chunkSize int) (*readinessPoller, error) {
	return &readinessPoller{
		chunkSize: chunkSize,
		feeds:     make(map[*streamHandle]chan streamChunk),
		pending:   make(map[*streamHandle]streamChunk),
		wake:      make(chan struct{}),
		done:      make(chan struct{}),
	}, nil
}

func (poller *readinessPoller) feed(stream *streamHandle) chan streamChunk {
	if feed, exists := poller.feeds[stream]; exists {
		return feed
	}
	feed := make(chan streamChunk, 1)
	poller.feeds[stream] = feed
	go func() {
		for {
			buffer := make([]byte, poller.chunkSize)
			readCount, readError := stream.file.Read(buffer)
			if readCount == 0 && readError == nil {
				continue
			}
			select {
			case feed <- streamChunk{data: buffer[:readCount], err: readError}:
			case <-poller.done:
				return
			}
			if readError != nil {
				return
			}
		}
	}()
	return feed
}

func (poller *readinessPoller) wait(liveStreams []*streamHandle, block bool) ([]*streamHandle, error) {
	readyStreams := make([]*streamHandle, 0, len(liveStreams))
	for _, stream := range liveStreams {
		if _, parked := poller.pending[stream]; parked {
			readyStreams = append(readyStreams, stream)
			continue
		}
		select {
		case chunk := <-poller.feed(stream):
			poller.pending[stream] = chunk
			readyStreams = append(readyStreams, stream)
		default:
		}
	}
	if len(readyStreams) > 0 || len(liveStreams) == 0 {
		return readyStreams, nil
	}

	// After exit a feeder may still hold the final bytes inside Read, so the drain waits for
	// it briefly instead of reporting the streams idle.
	interrupt := reflect.ValueOf(poller.wake)
	if !block {
		drainTimer := time.NewTimer(exitDrainGracePeriod)
		defer drainTimer.Stop()
		interrupt = reflect.ValueOf(drainTimer.C)
	}

	selectCases := make([]reflect.SelectCase, 0, len(liveStreams)+1)
	for _, stream := range liveStreams {
		selectCases = append(selectCases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(poller.feed(stream))})
	}
	selectCases = append(selectCases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: interrupt})

	chosenIndex, receivedValue, _ := reflect.Select(selectCases)
	if chosenIndex == len(liveStreams) {
		return nil, nil
	}
	chosenStream := liveStreams[chosenIndex]
	poller.pending[chosenStream] = receivedValue.Interface().(streamChunk)
	return []*streamHandle{chosenStream}, nil
}

func (poller *readinessPoller) read(stream *streamHandle, buffer []byte) (int, error) {
	chunk := poller.pending[stream]
	delete(poller.pending, stream)
	return copy(buffer, chunk.data), chunk.err
}

func (poller *readinessPoller) notifyExit() {
	poller.notifyOnce.Do(func() {
		close(poller.wake)
	})
}

func (poller *readinessPoller) close() error {
	poller.closeOnce.Do(func() {
		close(poller.done)
	})
	return nil
}

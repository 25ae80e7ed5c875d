//go:build unix

package execshell

import (
	"errors"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	pollSystemCallNameConstant = "poll"
	blockIndefinitelyConstant  = -1
	returnImmediatelyConstant  = 0
	readableEventsConstant     = unix.POLLIN | unix.POLLHUP | unix.POLLERR
)

// readinessPoller multiplexes stream descriptors with poll(2). A wake pipe joins the
// descriptor set while blocking so that process exit interrupts the wait.
type readinessPoller struct {
	wakeReader *os.File
	wakeWriter *os.File
	notifyOnce sync.Once
	closeOnce  sync.Once
	closeError error
}

func newReadinessPoller(int) (*readinessPoller, error) {
	wakeReader, wakeWriter, pipeError := os.Pipe()
	if pipeError != nil {
		return nil, pipeError
	}
	return &readinessPoller{wakeReader: wakeReader, wakeWriter: wakeWriter}, nil
}

// wait returns the streams that can be read without blocking, in the order given.
// When block is false the call never sleeps.
func (poller *readinessPoller) wait(liveStreams []*streamHandle, block bool) ([]*streamHandle, error) {
	descriptors := make([]unix.PollFd, 0, len(liveStreams)+1)
	for _, stream := range liveStreams {
		descriptor, descriptorError := fileDescriptor(stream.file)
		if descriptorError != nil {
			return nil, descriptorError
		}
		descriptors = append(descriptors, unix.PollFd{Fd: int32(descriptor), Events: unix.POLLIN})
	}

	timeout := returnImmediatelyConstant
	if block {
		wakeDescriptor, descriptorError := fileDescriptor(poller.wakeReader)
		if descriptorError != nil {
			return nil, descriptorError
		}
		descriptors = append(descriptors, unix.PollFd{Fd: int32(wakeDescriptor), Events: unix.POLLIN})
		timeout = blockIndefinitelyConstant
	}

	for {
		_, pollError := unix.Poll(descriptors, timeout)
		if pollError == nil {
			break
		}
		if errors.Is(pollError, unix.EINTR) {
			continue
		}
		return nil, os.NewSyscallError(pollSystemCallNameConstant, pollError)
	}

	readyStreams := make([]*streamHandle, 0, len(liveStreams))
	for index, stream := range liveStreams {
		returnedEvents := descriptors[index].Revents
		if returnedEvents&unix.POLLNVAL != 0 {
			return nil, os.NewSyscallError(pollSystemCallNameConstant, unix.EBADF)
		}
		if returnedEvents&readableEventsConstant != 0 {
			readyStreams = append(readyStreams, stream)
		}
	}
	return readyStreams, nil
}

func (poller *readinessPoller) read(stream *streamHandle, buffer []byte) (int, error) {
	return stream.file.Read(buffer)
}

// notifyExit makes the wake pipe readable for every later wait.
func (poller *readinessPoller) notifyExit() {
	poller.notifyOnce.Do(func() {
		_ = poller.wakeWriter.Close()
	})
}

func (poller *readinessPoller) close() error {
	poller.closeOnce.Do(func() {
		poller.closeError = poller.wakeReader.Close()
	})
	return poller.closeError
}

// fileDescriptor reads the descriptor through SyscallConn so the file keeps its non-blocking mode.
func fileDescriptor(file *os.File) (int, error) {
	rawConnection, connectionError := file.SyscallConn()
	if connectionError != nil {
		return 0, connectionError
	}
	descriptor := 0
	controlError := rawConnection.Control(func(rawDescriptor uintptr) {
		descriptor = int(rawDescriptor)
	})
	return descriptor, controlError
}

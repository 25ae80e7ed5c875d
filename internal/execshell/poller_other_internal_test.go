//go:build !unix

package execshell

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/procstream/internal/linebuffer"
)

func TestReadinessPollerDrainWaitsForInFlightRead(t *testing.T) {
	readEnd, writeEnd, pipeError := os.Pipe()
	require.NoError(t, pipeError)
	defer func() { _ = readEnd.Close() }()

	poller, pollerError := newReadinessPoller(DefaultChunkSize)
	require.NoError(t, pollerError)
	defer func() { _ = poller.close() }()

	stream := newStreamHandle(UnitStandardOutput, readEnd, linebuffer.DefaultSeparator)
	poller.feed(stream)
	poller.notifyExit()

	go func() {
		time.Sleep(10 * time.Millisecond)
		_, _ = writeEnd.WriteString("x\n")
		_ = writeEnd.Close()
	}()

	readyStreams, waitError := poller.wait([]*streamHandle{stream}, false)
	require.NoError(t, waitError)
	require.Equal(t, []*streamHandle{stream}, readyStreams)

	buffer := make([]byte, DefaultChunkSize)
	readCount, readError := poller.read(stream, buffer)
	require.NoError(t, readError)
	require.Equal(t, "x\n", string(buffer[:readCount]))
}

func TestReadinessPollerDrainGivesUpOnHeldStream(t *testing.T) {
	readEnd, writeEnd, pipeError := os.Pipe()
	require.NoError(t, pipeError)
	defer func() { _ = writeEnd.Close() }()
	defer func() { _ = readEnd.Close() }()

	poller, pollerError := newReadinessPoller(DefaultChunkSize)
	require.NoError(t, pollerError)
	defer func() { _ = poller.close() }()

	stream := newStreamHandle(UnitStandardOutput, readEnd, linebuffer.DefaultSeparator)
	poller.notifyExit()

	readyStreams, waitError := poller.wait([]*streamHandle{stream}, false)
	require.NoError(t, waitError)
	require.Empty(t, readyStreams)
}

package utils

import (
	"bufio"
	"bytes"
	"io"
	"sync"
)

const lineTerminatorsConstant = "\n\r"

// FlushingWriter buffers partial lines and flushes whenever a write completes a line, so
// streamed command output appears line by line without a system call per chunk.
type FlushingWriter struct {
	writer *bufio.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps the provided writer. A nil writer yields nil.
func NewFlushingWriter(writer io.Writer) *FlushingWriter {
	if writer == nil {
		return nil
	}
	if alreadyWrapped, isFlushingWriter := writer.(*FlushingWriter); isFlushingWriter {
		return alreadyWrapped
	}
	return &FlushingWriter{writer: bufio.NewWriter(writer)}
}

// Write buffers data and flushes when it contains a line terminator.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if bytes.ContainsAny(data, lineTerminatorsConstant) {
		if flushError := flushingWriter.writer.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}
	return bytesWritten, nil
}

// WriteString writes text through Write.
func (flushingWriter *FlushingWriter) WriteString(text string) (int, error) {
	return flushingWriter.Write([]byte(text))
}

// Flush writes any buffered partial line.
func (flushingWriter *FlushingWriter) Flush() error {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return nil
	}
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()
	return flushingWriter.writer.Flush()
}

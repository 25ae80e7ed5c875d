package linebuffer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

const (
	lineFeedByteConstant       = '\n'
	carriageReturnByteConstant = '\r'
	replacementTextConstant    = string(utf8.RuneError)
	lineBreakBytesConstant     = "\r\n"

	// DefaultSeparator is the separator that terminates a line on the host platform.
	DefaultSeparator = defaultSeparatorConstant
)

// Reassemble combines the bytes left over from a previous read with newly read bytes.
// It returns the bytes that form complete segments and can be emitted now, together with
// the new left-over. Segments are terminated by "\n", "\r\n" or "\r". When the combined
// data ends with separator every segment is emitted; otherwise the trailing segment is
// retained as the new left-over. Empty combined data emits nil and keeps leftOver.
func Reassemble(incoming []byte, leftOver []byte, separator string) ([]byte, []byte) {
	combined := make([]byte, 0, len(leftOver)+len(incoming))
	combined = append(combined, leftOver...)
	combined = append(combined, incoming...)

	if len(combined) == 0 {
		return nil, leftOver
	}

	if len(separator) > 0 && bytes.HasSuffix(combined, []byte(separator)) {
		return combined, []byte{}
	}

	trailingStart := lastSegmentStart(combined)
	emitted := combined[:trailingStart:trailingStart]
	retained := append([]byte{}, combined[trailingStart:]...)
	return emitted, retained
}

// lastSegmentStart returns the offset at which the final segment begins.
func lastSegmentStart(data []byte) int {
	searchEnd := len(data)
	// A trailing terminator belongs to the final segment.
	if searchEnd > 0 && data[searchEnd-1] == lineFeedByteConstant {
		searchEnd--
		if searchEnd > 0 && data[searchEnd-1] == carriageReturnByteConstant {
			searchEnd--
		}
	} else if searchEnd > 0 && data[searchEnd-1] == carriageReturnByteConstant {
		searchEnd--
	}

	breakIndex := bytes.LastIndexAny(data[:searchEnd], lineBreakBytesConstant)
	if breakIndex < 0 {
		return 0
	}
	return breakIndex + 1
}

// SplitSegments splits data into segments with their terminators attached.
// A final segment without a terminator is returned as is.
func SplitSegments(data []byte) [][]byte {
	var segments [][]byte
	for len(data) > 0 {
		breakIndex := bytes.IndexAny(data, lineBreakBytesConstant)
		if breakIndex < 0 {
			segments = append(segments, data)
			break
		}
		segmentEnd := breakIndex + 1
		if data[breakIndex] == carriageReturnByteConstant && segmentEnd < len(data) && data[segmentEnd] == lineFeedByteConstant {
			segmentEnd++
		}
		segments = append(segments, data[:segmentEnd:segmentEnd])
		data = data[segmentEnd:]
	}
	return segments
}

// DecodeText converts emitted bytes into text, replacing invalid UTF-8 sequences.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), replacementTextConstant)
}

// Buffer keeps the left-over bytes of a single stream between reads.
type Buffer struct {
	separator string
	leftOver  []byte
}

// NewBuffer constructs a Buffer that treats separator as the line terminator.
// An empty separator selects DefaultSeparator.
func NewBuffer(separator string) *Buffer {
	if len(separator) == 0 {
		separator = DefaultSeparator
	}
	return &Buffer{separator: separator}
}

// Write consumes a chunk and returns the bytes that are ready to be emitted, if any.
func (buffer *Buffer) Write(chunk []byte) []byte {
	emitted, leftOver := Reassemble(chunk, buffer.leftOver, buffer.separator)
	buffer.leftOver = leftOver
	if len(emitted) == 0 {
		return nil
	}
	return emitted
}

// Flush returns the unterminated residue and empties the buffer.
func (buffer *Buffer) Flush() []byte {
	if len(buffer.leftOver) == 0 {
		return nil
	}
	flushed := buffer.leftOver
	buffer.leftOver = nil
	return flushed
}

// Pending reports the number of buffered bytes not yet emitted.
func (buffer *Buffer) Pending() int {
	return len(buffer.leftOver)
}

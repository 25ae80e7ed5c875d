package execshell

import (
	"errors"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/temirov/procstream/internal/linebuffer"
)

// streamHandle owns the parent side of one child output stream.
type streamHandle struct {
	kind       UnitKind
	file       *os.File
	buffer     *linebuffer.Buffer
	live       bool
	closeOnce  sync.Once
	closeError error
}

func newStreamHandle(kind UnitKind, file *os.File, separator string) *streamHandle {
	return &streamHandle{
		kind:   kind,
		file:   file,
		buffer: linebuffer.NewBuffer(separator),
		live:   true,
	}
}

func (stream *streamHandle) close() error {
	stream.closeOnce.Do(func() {
		stream.live = false
		stream.closeError = stream.file.Close()
	})
	return stream.closeError
}

// isEndOfStream reports whether a read error marks a clean end of stream.
// A pty master reports EIO once every slave descriptor is closed.
func isEndOfStream(readError error) bool {
	return errors.Is(readError, io.EOF) || errors.Is(readError, syscall.EIO)
}

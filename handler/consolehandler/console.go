package consolehandler

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// ConsoleHandler writes lines to an io.Writer, by default os.Stdout.
// Unlike the file sink it may share its writer with other code, so
// every call is serialized by a mutex.
type ConsoleHandler struct {
	mu        sync.Mutex
	writer    io.Writer
	bufWriter *bufio.Writer
	closed    bool
}

// New creates a console handler writing to w. A nil w means os.Stdout.
func New(w io.Writer) *ConsoleHandler {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleHandler{
		writer:    w,
		bufWriter: bufio.NewWriterSize(w, 4096),
	}
}

// Write buffers p
func (h *ConsoleHandler) Write(p []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return os.ErrClosed
	}
	_, err := h.bufWriter.Write(p)
	return err
}

// Flush writes buffered bytes to the underlying writer
func (h *ConsoleHandler) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	return h.bufWriter.Flush()
}

// Close flushes the buffer. The underlying writer is left open since
// the handler does not own it.
func (h *ConsoleHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.bufWriter.Flush()
}

package handler

// Handler is the sink the writer goroutine appends formatted lines to.
// A Handler is owned by exactly one writer; implementations need not be
// safe for concurrent use unless they say so.
type Handler interface {
	// Write appends one formatted line
	Write(p []byte) error

	// Flush pushes buffered bytes to the operating system
	Flush() error

	// Close flushes and releases the underlying resource. Calls after
	// the first return nil.
	Close() error
}

// Named is implemented by handlers backed by a file path
type Named interface {
	Path() string
}

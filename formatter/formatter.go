package formatter

import (
	"bytes"
	"io"
	"sync"

	"github.com/philipp01105/tradingengine/core"
)

// Formatter turns a record into one output line, newline included
type Formatter interface {
	Format(r *core.Record) ([]byte, error)
}

// WriterFormatter writes the line straight into w. The writer streams
// into its handler through it when the formatter is not a
// BufferFormatter.
type WriterFormatter interface {
	FormatTo(r *core.Record, w io.Writer) error
}

// BufferFormatter appends the line to buf. The writer goroutine keeps
// one buffer for its lifetime and calls this for every record.
type BufferFormatter interface {
	FormatRecord(r *core.Record, buf *bytes.Buffer)
}

// Config holds formatter configuration
type Config struct {
	// TimestampFormat is a time layout; empty means TimestampLayout
	TimestampFormat string
}

const (
	// the columns before the message take roughly 80 bytes
	initialLineSize = 160
	maxPooledLine   = 64 << 10
)

var linePool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, initialLineSize))
	},
}

func acquireLine() *bytes.Buffer {
	buf := linePool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// releaseLine returns buf to the pool unless an oversized message grew it
func releaseLine(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledLine {
		return
	}
	linePool.Put(buf)
}

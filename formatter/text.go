package formatter

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/philipp01105/tradingengine/core"
)

const (
	// TimestampLayout renders yyyy-MM-dd HH-mm-ss with seven fixed
	// fractional digits.
	TimestampLayout = "2006-01-02 15-04-05.0000000"

	// ThreadNameWidth is the column the thread name is padded or cut to
	ThreadNameWidth = 30

	// threadIDDigits is the minimum width of the zero-padded thread id
	threadIDDigits = 3
)

// TextFormatter writes one line per record:
//
//	[2024-03-01 09-30-00.1234567] [matcher                       :042] [Information] message
//
// Tools downstream parse this layout, see ParseLine.
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = TimestampLayout
	}
	return &TextFormatter{Config: cfg}
}

// Format formats a record as text
func (f *TextFormatter) Format(r *core.Record) ([]byte, error) {
	buf := acquireLine()
	defer releaseLine(buf)

	f.formatToBuffer(r, buf)

	// Copy buffer content to return
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatTo formats a record and writes it directly to the writer
func (f *TextFormatter) FormatTo(r *core.Record, w io.Writer) error {
	buf := acquireLine()

	f.formatToBuffer(r, buf)

	_, err := w.Write(buf.Bytes())
	releaseLine(buf)
	return err
}

// FormatRecord formats a record into the given buffer (implements BufferFormatter).
func (f *TextFormatter) FormatRecord(r *core.Record, buf *bytes.Buffer) {
	f.formatToBuffer(r, buf)
}

// pre-formatted level strings to avoid multiple WriteString calls
var levelBrackets = [...]string{
	core.Debug:       "] [Debug] ",
	core.Information: "] [Information] ",
	core.Warning:     "] [Warning] ",
	core.Error:       "] [Error] ",
	core.Critical:    "] [Critical] ",
}

var spaces = bytes.Repeat([]byte{' '}, ThreadNameWidth)

// formatToBuffer writes the formatted record into the given buffer
func (f *TextFormatter) formatToBuffer(r *core.Record, buf *bytes.Buffer) {
	buf.WriteByte('[')
	buf.Write(r.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteString("] [")

	writeThreadName(buf, r.ThreadName)
	buf.WriteByte(':')
	var scratch [20]byte
	id := strconv.AppendUint(scratch[:0], r.ThreadID, 10)
	for i := len(id); i < threadIDDigits; i++ {
		buf.WriteByte('0')
	}
	buf.Write(id)

	if r.Level.Valid() {
		buf.WriteString(levelBrackets[r.Level])
	} else {
		buf.WriteString("] [")
		buf.WriteString(r.Level.String())
		buf.WriteString("] ")
	}

	writeMessage(buf, r.Message)
	buf.WriteByte('\n')
}

// writeMessage keeps a record on one line: CR and LF are written as the
// two-character sequences \r and \n.
func writeMessage(buf *bytes.Buffer, msg string) {
	if strings.IndexAny(msg, "\r\n") < 0 {
		buf.WriteString(msg)
		return
	}
	start := 0
	for i := 0; i < len(msg); i++ {
		var esc string
		switch msg[i] {
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		default:
			continue
		}
		buf.WriteString(msg[start:i])
		buf.WriteString(esc)
		start = i + 1
	}
	buf.WriteString(msg[start:])
}

// writeThreadName left-justifies name in ThreadNameWidth runes, cutting
// anything longer
func writeThreadName(buf *bytes.Buffer, name string) {
	n := 0
	for i := range name {
		if n == ThreadNameWidth {
			name = name[:i]
			break
		}
		n++
	}
	buf.WriteString(name)
	if n < ThreadNameWidth {
		buf.Write(spaces[:ThreadNameWidth-n])
	}
}

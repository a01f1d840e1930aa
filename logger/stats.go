package logger

import (
	"github.com/philipp01105/tradingengine/core"
)

// Stats is a point-in-time view of a logger's counters
type Stats struct {
	// Posted counts records accepted into the queue
	Posted uint64
	// Rejected counts records refused after Close or a writer failure
	Rejected uint64
	// Dropped counts records lost to a bounded queue's overflow policy
	Dropped map[core.Level]uint64
	// Written counts records handed to the output
	Written uint64
	// BytesWritten counts formatted bytes handed to the output
	BytesWritten uint64
	// Abandoned counts records left in the queue at shutdown
	Abandoned uint64
	// Pending is the current queue length
	Pending int
	// WriterUp is false once the writer has stopped
	WriterUp bool
}

// TotalDropped sums Dropped over all levels
func (s Stats) TotalDropped() uint64 {
	var total uint64
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// Stats returns the logger's counters
func (l *Logger) Stats() Stats {
	qs := l.queue.Stats().GetSnapshot()
	ws := l.writer.Status()
	return Stats{
		Posted:       qs.Posted,
		Rejected:     qs.Rejected,
		Dropped:      qs.Dropped,
		Written:      ws.Written,
		BytesWritten: ws.Bytes,
		Abandoned:    ws.Abandoned,
		Pending:      l.queue.Len(),
		WriterUp:     ws.Alive,
	}
}

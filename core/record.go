package core

import (
	"time"
)

// Record is one log event. It is built once at the call site and passed
// by value from then on, so nothing downstream can change what was
// captured.
type Record struct {
	Time       time.Time
	Level      Level
	Module     string
	Message    string
	ThreadID   uint64
	ThreadName string
}

// NewRecord captures the current time and the identity of the calling
// goroutine.
func NewRecord(level Level, module, message string) Record {
	return NewRecordAt(time.Now(), level, module, message)
}

// NewRecordAt is like NewRecord but uses the supplied timestamp. Adapters
// that receive events with their own time use it.
func NewRecordAt(t time.Time, level Level, module, message string) Record {
	id := GoroutineID()
	return Record{
		Time:       t,
		Level:      level,
		Module:     module,
		Message:    message,
		ThreadID:   id,
		ThreadName: nameOf(id),
	}
}

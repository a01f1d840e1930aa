// Package core defines the shared types used across the logger.
//
// It provides the Level type, the Record type that represents a single
// log event, the goroutine identity helpers used in place of thread ids,
// and the error values every other package returns.
//
// A Record is a plain value. NewRecord stamps it with time.Now() and the
// id and label of the calling goroutine, so the record reflects when and
// where it was emitted even though formatting happens later on the
// writer goroutine.
//
// Go does not expose goroutine identity. GoroutineID parses it out of
// the runtime.Stack header, which costs a small fixed amount per call.
// Labels are opt-in: a goroutine that wants a readable name calls
// NameGoroutine at its start.
package core

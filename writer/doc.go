// Package writer runs the background goroutine that drains a queue into
// a handler.
//
// A Writer moves through Starting, Running, Draining and Closed. While
// Running it blocks in Queue.Receive, formats each record, writes it and
// flushes before receiving again, so a crash loses at most what is still
// queued. Cancel moves it to Draining: the queue is closed to new
// records, and pending ones are either written (DrainOnClose, bounded by
// a timeout) or abandoned (DropOnClose). The handler is closed exactly
// once on every exit path.
//
// A write or flush failure ends the loop early. The writer then closes
// the queue so producers stop accumulating records, keeps the error for
// Err and Status, and passes it to the configured error handler.
package writer

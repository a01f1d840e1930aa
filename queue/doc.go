// Package queue provides the ordered hand-off between log producers and
// the single writer goroutine.
//
// A Queue is a mutex-guarded slice with a one-slot notification channel.
// Post appends and leaves a wake-up token; Receive pops from the front or
// waits on the token, the close signal, or the caller's context. Records
// come out in the order Post returned, which under concurrent producers
// is not necessarily timestamp order.
//
// The queue is unbounded unless WithCapacity is given. A bounded queue
// applies its OverflowPolicy when full and counts every lost record per
// level in Stats.
package queue

package core

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

var goroutinePrefix = []byte("goroutine ")

// GoroutineID returns the id of the calling goroutine as reported in
// the runtime.Stack header ("goroutine 42 [running]:").
func GoroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// goroutineNames maps goroutine id to the label set by NameGoroutine
var goroutineNames sync.Map

// NameGoroutine labels the calling goroutine. Records captured on it
// carry name as their ThreadName until the returned restore func runs,
// which puts back whatever label was there before. Call restore on the
// same goroutine, usually with defer.
func NameGoroutine(name string) (restore func()) {
	id := GoroutineID()
	prev, hadPrev := goroutineNames.Load(id)
	if name == "" {
		goroutineNames.Delete(id)
	} else {
		goroutineNames.Store(id, name)
	}
	return func() {
		if hadPrev {
			goroutineNames.Store(id, prev)
			return
		}
		goroutineNames.Delete(id)
	}
}

// GoroutineName returns the label of the calling goroutine, or "".
func GoroutineName() string {
	return nameOf(GoroutineID())
}

func nameOf(id uint64) string {
	if v, ok := goroutineNames.Load(id); ok {
		return v.(string)
	}
	return ""
}

package logger

import (
	"fmt"
	"os"
	"sync"
)

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// newDefault builds the console logger on stderr that Default falls back to
func newDefault() *Logger {
	l, err := NewBuilder(Config{Kind: ConsoleKind}).
		WithWriter(os.Stderr).
		BuildConsole()
	if err != nil {
		// a ConsoleKind config always validates
		panic(err)
	}
	return l
}

// Default returns the default logger. Until SetDefault is called it is
// a console logger writing to stderr, created on first use.
func Default() *Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = newDefault()
	}
	return defaultLogger
}

// SetDefault sets the default logger and returns the previous one, which
// the caller is responsible for closing. The previous value may be nil
// if Default was never used; setting nil restores the lazy stderr logger.
func SetDefault(l *Logger) *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultLogger
	defaultLogger = l
	return prev
}

// Package-level convenience functions using the default logger

// Log logs a message using the default logger
func Log(level Level, module, message string) {
	Default().Log(level, module, message)
}

// Logf logs a formatted message using the default logger
func Logf(level Level, module, format string, args ...interface{}) {
	Default().Log(level, module, fmt.Sprintf(format, args...))
}

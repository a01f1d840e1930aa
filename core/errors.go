package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConfigurationMismatch is returned when a logger is built from a
	// configuration meant for a different logger kind
	ErrConfigurationMismatch = errors.New("configuration does not match logger kind")

	// ErrInvalidConfig is returned when a configuration fails validation
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCancelled is returned by a blocking receive once shutdown was
	// signalled and nothing is left to hand out
	ErrCancelled = errors.New("cancelled")

	// ErrQueueClosed is returned by a receive on a closed, empty queue
	ErrQueueClosed = errors.New("queue closed")

	// ErrLoggerClosed is returned when operating on a closed logger
	ErrLoggerClosed = errors.New("logger is closed")
)

// FileCreateError reports that the exclusive log file could not be created.
type FileCreateError struct {
	Path string
	Err  error
}

func (e *FileCreateError) Error() string {
	return fmt.Sprintf("create log file %s: %v", e.Path, e.Err)
}

func (e *FileCreateError) Unwrap() error {
	return e.Err
}

// IsFileCreateError reports whether err is, or wraps, a *FileCreateError.
func IsFileCreateError(err error) bool {
	var fce *FileCreateError
	return errors.As(err, &fce)
}

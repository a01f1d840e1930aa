package logger

import (
	"github.com/philipp01105/tradingengine/core"
)

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	Debug       = core.Debug
	Information = core.Information
	Warning     = core.Warning
	Error       = core.Error
	Critical    = core.Critical
)

// ParseLevel converts a string to a Level
func ParseLevel(s string) (Level, error) {
	return core.ParseLevel(s)
}

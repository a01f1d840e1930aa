package core

import (
	"strings"

	"github.com/pkg/errors"
)

// Level represents the severity of a log record
type Level int8

const (
	// Debug for detailed debugging information
	Debug Level = iota
	// Information for general informational messages
	Information
	// Warning for conditions worth a second look
	Warning
	// Error for failed operations
	Error
	// Critical for failures that leave the process unable to continue
	Critical
)

var levelNames = [...]string{
	Debug:       "Debug",
	Information: "Information",
	Warning:     "Warning",
	Error:       "Error",
	Critical:    "Critical",
}

// String returns the level name as written to the log file
func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "Unknown"
}

// Valid reports whether l is one of the defined levels
func (l Level) Valid() bool {
	return l >= Debug && l <= Critical
}

// ParseLevel converts a string to a Level. Matching is case-insensitive
// and accepts the short forms info, warn and crit.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "information", "info":
		return Information, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	case "critical", "crit":
		return Critical, nil
	default:
		return Information, errors.Errorf("unknown level %q", s)
	}
}

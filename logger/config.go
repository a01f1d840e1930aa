package logger

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/philipp01105/tradingengine/core"
	"github.com/philipp01105/tradingengine/queue"
	"github.com/philipp01105/tradingengine/writer"
)

// Kind selects which logger a Config is meant for
type Kind int

const (
	// TextKind writes to a dated file
	TextKind Kind = iota
	// ConsoleKind writes to stdout or a supplied writer
	ConsoleKind
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case TextKind:
		return "Text"
	case ConsoleKind:
		return "Console"
	default:
		return "Unknown"
	}
}

// ParseKind converts a string to a Kind, case-insensitively
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "file":
		return TextKind, nil
	case "console":
		return ConsoleKind, nil
	default:
		return TextKind, errors.Wrapf(core.ErrInvalidConfig, "unknown logger kind %q", s)
	}
}

// Config holds logger configuration
type Config struct {
	// Kind must match the constructor used
	Kind Kind
	// Directory is the base directory; a yyyy-MM-dd directory is created
	// inside it per logger instance
	Directory string
	// Filename is the file name prefix; the creation time is appended
	Filename string
	// FileExtension is appended after a dot (a leading dot is accepted)
	FileExtension string
	// Capacity bounds the queue (0 = unbounded)
	Capacity int
	// Overflow applies when a bounded queue is full (default: DropNewest)
	Overflow queue.OverflowPolicy
	// Shutdown decides what Close does with pending records (default: DrainOnClose)
	Shutdown writer.ShutdownPolicy
	// DrainTimeout bounds DrainOnClose (default: 5s)
	DrainTimeout time.Duration
}

// DefaultConfig returns the configuration used by the server binary
func DefaultConfig() Config {
	return Config{
		Kind:          TextKind,
		Directory:     "logs",
		Filename:      "TradingEngine",
		FileExtension: "log",
		DrainTimeout:  writer.DefaultDrainTimeout,
	}
}

// applyDefaults fills in zero-value fields with defaults.
func applyDefaults(cfg *Config) {
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = writer.DefaultDrainTimeout
	}
	if cfg.Capacity < 0 {
		cfg.Capacity = 0
	}
}

// Validate checks the fields the configured kind needs
func (c Config) Validate() error {
	switch c.Kind {
	case TextKind:
		if strings.TrimSpace(c.Directory) == "" {
			return errors.Wrap(core.ErrInvalidConfig, "directory is required")
		}
		if strings.TrimSpace(c.Filename) == "" {
			return errors.Wrap(core.ErrInvalidConfig, "filename is required")
		}
		if strings.ContainsAny(c.Filename, `/\`) {
			return errors.Wrapf(core.ErrInvalidConfig, "filename %q must not contain a path separator", c.Filename)
		}
	case ConsoleKind:
	default:
		return errors.Wrapf(core.ErrInvalidConfig, "unknown logger kind %d", int(c.Kind))
	}
	return nil
}

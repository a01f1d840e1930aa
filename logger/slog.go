package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/philipp01105/tradingengine/core"
)

// ModuleKey is the attribute that overrides the module of a slog or zap
// record when present
const ModuleKey = "module"

// SlogHandler is an adapter that implements slog.Handler on top of a
// Logger, so code written against log/slog ends up in the same file.
// Attributes are appended to the message as key=value pairs.
type SlogHandler struct {
	logger *Logger
	module string
	attrs  []string
	group  string
}

// NewSlogHandler creates a new slog.Handler adapter. Records are logged
// under module unless they carry a ModuleKey attribute.
func NewSlogHandler(l *Logger, module string) *SlogHandler {
	return &SlogHandler{
		logger: l,
		module: module,
	}
}

// NewSlog is shorthand for slog.New(NewSlogHandler(l, module))
func NewSlog(l *Logger, module string) *slog.Logger {
	return slog.New(NewSlogHandler(l, module))
}

// Enabled reports true for every level; the logger does not filter.
func (s *SlogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle converts a slog.Record into a record and posts it.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	module := s.module
	var b strings.Builder
	b.WriteString(record.Message)
	for _, a := range s.attrs {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		if s.group == "" && a.Key == ModuleKey {
			module = a.Value.String()
			return true
		}
		appendAttr(&b, s.group, a)
		return true
	})

	r := core.NewRecordAt(record.Time, slogLevelToCore(record.Level), module, b.String())
	if record.Time.IsZero() {
		r.Time = s.logger.clock()
	}
	s.logger.post(r)
	return nil
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	module := s.module
	newAttrs := make([]string, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		if s.group == "" && a.Key == ModuleKey {
			module = a.Value.String()
			continue
		}
		var b strings.Builder
		appendAttr(&b, s.group, a)
		newAttrs = append(newAttrs, strings.TrimPrefix(b.String(), " "))
	}
	return &SlogHandler{
		logger: s.logger,
		module: module,
		attrs:  newAttrs,
		group:  s.group,
	}
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	newGroup := name
	if s.group != "" {
		newGroup = s.group + "." + name
	}
	newAttrs := make([]string, len(s.attrs))
	copy(newAttrs, s.attrs)
	return &SlogHandler{
		logger: s.logger,
		module: s.module,
		attrs:  newAttrs,
		group:  newGroup,
	}
}

// slogLevelToCore converts a slog.Level to a core.Level. Anything at
// least four steps above slog.LevelError is Critical.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError+4:
		return core.Critical
	case level >= slog.LevelError:
		return core.Error
	case level >= slog.LevelWarn:
		return core.Warning
	case level >= slog.LevelInfo:
		return core.Information
	default:
		return core.Debug
	}
}

// appendAttr writes " key=value", prefixing the group and flattening
// group values.
func appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + a.Key
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key == "" {
			key = group
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, key, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	fmt.Fprint(b, a.Value.Any())
}

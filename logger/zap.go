package logger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/tradingengine/core"
)

// zapCore implements zapcore.Core on top of a Logger. Fields are
// rendered as key=value after the message, sorted by key.
type zapCore struct {
	logger *Logger
	module string
	fields []zapcore.Field
}

// NewZapCore returns a zapcore.Core that posts to l. Entries are logged
// under module unless the zap logger is named or carries a ModuleKey
// field.
func NewZapCore(l *Logger, module string) zapcore.Core {
	return &zapCore{logger: l, module: module}
}

// NewZap is shorthand for zap.New(NewZapCore(l, module))
func NewZap(l *Logger, module string, opts ...zap.Option) *zap.Logger {
	return zap.New(NewZapCore(l, module), opts...)
}

// Enabled reports true for every level; the logger does not filter.
func (c *zapCore) Enabled(zapcore.Level) bool {
	return true
}

func (c *zapCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &zapCore{logger: c.logger, module: c.module, fields: merged}
}

func (c *zapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, c)
}

func (c *zapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	module := c.module
	if ent.LoggerName != "" {
		module = ent.LoggerName
	}
	if m, ok := enc.Fields[ModuleKey].(string); ok {
		module = m
		delete(enc.Fields, ModuleKey)
	}

	var b strings.Builder
	b.WriteString(ent.Message)
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, enc.Fields[k])
	}

	r := core.NewRecordAt(ent.Time, zapLevelToCore(ent.Level), module, b.String())
	if ent.Time.IsZero() {
		r.Time = c.logger.clock()
	}
	c.logger.post(r)

	// zap exits or panics right after writing these
	if ent.Level >= zapcore.DPanicLevel {
		return c.Sync()
	}
	return nil
}

// Sync waits until everything posted so far is in the file, bounded by
// the logger's drain timeout.
func (c *zapCore) Sync() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.logger.syncTimeout)
	defer cancel()
	return c.logger.Sync(ctx)
}

func zapLevelToCore(level zapcore.Level) core.Level {
	switch {
	case level >= zapcore.DPanicLevel:
		return core.Critical
	case level >= zapcore.ErrorLevel:
		return core.Error
	case level >= zapcore.WarnLevel:
		return core.Warning
	case level >= zapcore.InfoLevel:
		return core.Information
	default:
		return core.Debug
	}
}

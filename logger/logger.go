package logger

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/philipp01105/tradingengine/core"
	"github.com/philipp01105/tradingengine/formatter"
	"github.com/philipp01105/tradingengine/handler"
	"github.com/philipp01105/tradingengine/handler/consolehandler"
	"github.com/philipp01105/tradingengine/handler/filehandler"
	"github.com/philipp01105/tradingengine/queue"
	"github.com/philipp01105/tradingengine/writer"
)

// Interface is what the rest of the system logs through
type Interface interface {
	Log(level Level, module, message string)
	Debug(module, message string)
	Information(module, message string)
	Warning(module, message string)
	Error(module, message string)
	Critical(module, message string)
	Close() error
}

// Logger hands records to a background writer. Logging never blocks on
// I/O and never reports failure to the caller; writer health is
// available through Status and Err.
type Logger struct {
	kind    Kind
	path    string
	clock   func() time.Time
	queue   *queue.Queue
	writer  *writer.Writer
	cleanup runtime.Cleanup
	// syncTimeout bounds Sync calls that carry no deadline of their own
	syncTimeout time.Duration

	mu       sync.Mutex
	disposed bool
}

var _ Interface = (*Logger)(nil)

// Builder provides a fluent API for building Logger instances
type Builder struct {
	cfg       Config
	clock     func() time.Time
	formatter formatter.Formatter
	out       io.Writer
	onError   func(error)
}

// NewBuilder creates a new logger builder
func NewBuilder(cfg Config) *Builder {
	return &Builder{
		cfg:   cfg,
		clock: time.Now,
	}
}

// WithClock sets the time source for record timestamps and the file name
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	if clock != nil {
		b.clock = clock
	}
	return b
}

// WithFormatter replaces the default TextFormatter
func (b *Builder) WithFormatter(f formatter.Formatter) *Builder {
	b.formatter = f
	return b
}

// WithWriter sets the destination of a console logger (default: os.Stdout)
func (b *Builder) WithWriter(w io.Writer) *Builder {
	b.out = w
	return b
}

// WithErrorHandler receives the error that stops the writer
func (b *Builder) WithErrorHandler(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// BuildText creates a logger writing to
// <Directory>/<yyyy-MM-dd>/<Filename>-<HH-mm-ss>.<FileExtension>. The
// file is created before BuildText returns; a name collision or an
// unwritable directory yields a *core.FileCreateError. A configuration
// of another kind yields core.ErrConfigurationMismatch and touches
// nothing on disk.
func (b *Builder) BuildText() (*Logger, error) {
	cfg := b.cfg
	if cfg.Kind != TextKind {
		return nil, errors.Wrapf(core.ErrConfigurationMismatch,
			"text logger doesn't match logger kind %s", cfg.Kind)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	path := filehandler.LogPath(cfg.Directory, cfg.Filename, cfg.FileExtension, b.clock())
	h, err := filehandler.Open(path)
	if err != nil {
		return nil, err
	}
	return b.start(cfg, h), nil
}

// BuildConsole creates a logger writing lines to the builder's writer
func (b *Builder) BuildConsole() (*Logger, error) {
	cfg := b.cfg
	if cfg.Kind != ConsoleKind {
		return nil, errors.Wrapf(core.ErrConfigurationMismatch,
			"console logger doesn't match logger kind %s", cfg.Kind)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return b.start(cfg, consolehandler.New(b.out)), nil
}

// orphan is what the cleanup needs to stop a writer whose Logger was
// dropped without Close. It must not reference the Logger.
type orphan struct {
	queue  *queue.Queue
	writer *writer.Writer
}

func stopOrphan(o orphan) {
	o.queue.Close()
	o.writer.Cancel()
}

func (b *Builder) start(cfg Config, h handler.Handler) *Logger {
	q := queue.New(
		queue.WithCapacity(cfg.Capacity),
		queue.WithOverflowPolicy(cfg.Overflow),
	)
	opts := []writer.Option{
		writer.WithShutdownPolicy(cfg.Shutdown),
		writer.WithDrainTimeout(cfg.DrainTimeout),
	}
	if b.onError != nil {
		opts = append(opts, writer.WithErrorHandler(b.onError))
	}
	w := writer.New(q, h, b.formatter, opts...)

	l := &Logger{
		kind:        cfg.Kind,
		clock:       b.clock,
		queue:       q,
		writer:      w,
		syncTimeout: cfg.DrainTimeout,
	}
	if n, ok := h.(handler.Named); ok {
		l.path = n.Path()
	}
	w.Start()
	l.cleanup = runtime.AddCleanup(l, stopOrphan, orphan{queue: q, writer: w})
	return l
}

// NewTextLogger is shorthand for NewBuilder(cfg).BuildText()
func NewTextLogger(cfg Config) (*Logger, error) {
	return NewBuilder(cfg).BuildText()
}

// NewConsoleLogger is shorthand for NewBuilder(cfg).BuildConsole()
func NewConsoleLogger(cfg Config) (*Logger, error) {
	return NewBuilder(cfg).BuildConsole()
}

// Log records message at level. The timestamp and goroutine identity are
// taken here, on the caller's goroutine. Line breaks in message are
// escaped so the record stays on one line.
func (l *Logger) Log(level Level, module, message string) {
	l.post(core.NewRecordAt(l.clock(), level, module, message))
}

// post hands r to the writer. A closed logger drops it; the drop is
// counted in Stats.
func (l *Logger) post(r core.Record) {
	l.queue.Post(r)
}

// Debug logs a debug message
func (l *Logger) Debug(module, message string) {
	l.Log(core.Debug, module, message)
}

// Information logs an informational message
func (l *Logger) Information(module, message string) {
	l.Log(core.Information, module, message)
}

// Warning logs a warning message
func (l *Logger) Warning(module, message string) {
	l.Log(core.Warning, module, message)
}

// Error logs an error message
func (l *Logger) Error(module, message string) {
	l.Log(core.Error, module, message)
}

// Critical logs a critical message
func (l *Logger) Critical(module, message string) {
	l.Log(core.Critical, module, message)
}

// Logf logs a message with formatting
func (l *Logger) Logf(level Level, module, format string, args ...interface{}) {
	l.Log(level, module, fmt.Sprintf(format, args...))
}

// Kind returns the kind the logger was built as
func (l *Logger) Kind() Kind {
	return l.kind
}

// Path returns the log file of a text logger, or "" for other kinds
func (l *Logger) Path() string {
	return l.path
}

// Status returns the writer's health
func (l *Logger) Status() writer.Status {
	return l.writer.Status()
}

// Err returns the error that stopped the writer, if any
func (l *Logger) Err() error {
	return l.writer.Err()
}

// Done is closed once the writer has released its output
func (l *Logger) Done() <-chan struct{} {
	return l.writer.Done()
}

// syncPollInterval is how often Sync checks the writer's progress
const syncPollInterval = time.Millisecond

// Sync waits until every record posted before the call has been written
// and flushed, or was lost to overflow or shutdown. It returns early with
// ctx's error, or with the writer's error once the writer has stopped.
// Logging may continue while Sync waits; later records are not waited
// for.
func (l *Logger) Sync(ctx context.Context) error {
	target := l.queue.Appended()

	ticker := time.NewTicker(syncPollInterval)
	defer ticker.Stop()
	for {
		// records that left the queue without reaching the writer
		if l.writer.Flushed()+l.queue.Skipped() >= target {
			return nil
		}
		select {
		case <-l.writer.Done():
			return l.writer.Err()
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Shutdown stops accepting records, signals the writer and waits for it
// to release its output or for ctx to end. Only the first call signals;
// every call waits. It returns the error that stopped the writer, if
// any.
func (l *Logger) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	if !l.disposed {
		l.disposed = true
		l.cleanup.Stop()
		l.queue.Close()
		l.writer.Cancel()
	}
	l.mu.Unlock()

	return l.writer.Wait(ctx)
}

// Close is Shutdown without a deadline beyond the drain timeout
func (l *Logger) Close() error {
	return l.Shutdown(context.Background())
}

// Closed reports whether Close or Shutdown has been called
func (l *Logger) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.disposed
}

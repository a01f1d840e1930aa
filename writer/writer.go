package writer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/philipp01105/tradingengine/core"
	"github.com/philipp01105/tradingengine/formatter"
	"github.com/philipp01105/tradingengine/handler"
	"github.com/philipp01105/tradingengine/queue"
)

// DefaultDrainTimeout bounds DrainOnClose
const DefaultDrainTimeout = 5 * time.Second

// Writer is the single consumer of a queue. It owns the handler from
// Start until its goroutine exits, and is the only code that touches it.
type Writer struct {
	queue           *queue.Queue
	handler         handler.Handler
	formatter       formatter.Formatter
	bufferFormatter formatter.BufferFormatter
	writerFormatter formatter.WriterFormatter
	buf             bytes.Buffer

	policy       ShutdownPolicy
	drainTimeout time.Duration
	onError      func(error)

	ctx    context.Context
	cancel context.CancelFunc

	state     atomic.Int32
	written   atomic.Uint64
	flushed   atomic.Uint64
	bytes     atomic.Uint64
	abandoned atomic.Uint64

	errMu sync.Mutex
	err   error

	startOnce sync.Once
	done      chan struct{}
}

// Option configures a Writer
type Option func(*Writer)

// WithShutdownPolicy sets what happens to pending records on Cancel
func WithShutdownPolicy(p ShutdownPolicy) Option {
	return func(w *Writer) {
		w.policy = p
	}
}

// WithDrainTimeout bounds how long DrainOnClose keeps writing. Zero or
// less keeps DefaultDrainTimeout.
func WithDrainTimeout(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.drainTimeout = d
		}
	}
}

// WithErrorHandler receives the error that stops the loop. The default
// prints it to stderr.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Writer) {
		if fn != nil {
			w.onError = fn
		}
	}
}

// New creates a Writer draining q into h. Nothing happens until Start.
func New(q *queue.Queue, h handler.Handler, f formatter.Formatter, opts ...Option) *Writer {
	if f == nil {
		f = formatter.NewTextFormatter(formatter.Config{})
	}
	w := &Writer{
		queue:        q,
		handler:      h,
		formatter:    f,
		drainTimeout: DefaultDrainTimeout,
		onError:      reportToStderr,
		done:         make(chan struct{}),
	}
	w.bufferFormatter, _ = f.(formatter.BufferFormatter)
	if w.bufferFormatter != nil {
		w.buf.Grow(256)
	} else {
		w.writerFormatter, _ = f.(formatter.WriterFormatter)
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func reportToStderr(err error) {
	fmt.Fprintf(os.Stderr, "tradingengine: log writer stopped: %v\n", err)
}

// Start launches the writer goroutine. Further calls do nothing.
func (w *Writer) Start() {
	w.startOnce.Do(func() {
		go w.run()
	})
}

// Cancel signals the goroutine to stop. It does not wait; use Done or
// Wait for that. Safe to call more than once and before Start.
func (w *Writer) Cancel() {
	w.cancel()
}

// Done is closed once the goroutine has released the handler
func (w *Writer) Done() <-chan struct{} {
	return w.done
}

// Wait blocks until the goroutine exits or ctx is done, and returns the
// error that stopped the loop, if any.
func (w *Writer) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return w.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the failure that stopped the loop, or nil
func (w *Writer) Err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

// State returns the current lifecycle stage
func (w *Writer) State() State {
	return State(w.state.Load())
}

// Status returns a snapshot of the writer's health
func (w *Writer) Status() Status {
	st := w.State()
	return Status{
		State:     st,
		Alive:     st != Closed,
		Written:   w.written.Load(),
		Flushed:   w.flushed.Load(),
		Bytes:     w.bytes.Load(),
		Abandoned: w.abandoned.Load(),
		Err:       w.Err(),
	}
}

// Flushed returns how many records have been written and flushed to
// the handler's destination.
func (w *Writer) Flushed() uint64 {
	return w.flushed.Load()
}

func (w *Writer) run() {
	defer close(w.done)
	defer w.release()

	w.state.Store(int32(Running))
	var held *core.Record
	for {
		r, err := w.queue.Receive(w.ctx)
		if err != nil {
			// ErrCancelled, or ErrQueueClosed with nothing left
			break
		}
		// Receive hands out pending records after cancellation; those
		// belong to the shutdown policy, not the running loop.
		if w.ctx.Err() != nil {
			held = &r
			break
		}
		if err := w.write(&r); err != nil {
			w.fail(errors.Wrap(err, "write record"))
			return
		}
		if err := w.flush(); err != nil {
			w.fail(err)
			return
		}
	}

	w.state.Store(int32(Draining))
	w.queue.Close()
	if w.policy == DropOnClose {
		if held != nil {
			w.abandoned.Add(1)
		}
		w.abandoned.Add(uint64(w.queue.Discard()))
		return
	}
	if held != nil {
		if err := w.write(held); err != nil {
			w.fail(errors.Wrap(err, "write record"))
			return
		}
	}
	if err := w.drain(); err != nil {
		w.fail(err)
	}
}

func (w *Writer) flush() error {
	if err := w.handler.Flush(); err != nil {
		return errors.Wrap(err, "flush")
	}
	w.flushed.Store(w.written.Load())
	return nil
}

// drain writes what is left in the queue until it is empty or the drain
// timeout passes; anything left after that is abandoned.
func (w *Writer) drain() error {
	deadline := time.Now().Add(w.drainTimeout)
	for time.Now().Before(deadline) {
		r, ok := w.queue.TryReceive()
		if !ok {
			return w.flush()
		}
		if err := w.write(&r); err != nil {
			return errors.Wrap(err, "write record")
		}
	}
	w.abandoned.Add(uint64(w.queue.Discard()))
	return w.flush()
}

func (w *Writer) write(r *core.Record) error {
	var n int
	switch {
	case w.bufferFormatter != nil:
		w.buf.Reset()
		w.bufferFormatter.FormatRecord(r, &w.buf)
		if err := w.handler.Write(w.buf.Bytes()); err != nil {
			return err
		}
		n = w.buf.Len()
	case w.writerFormatter != nil:
		cw := countingWriter{h: w.handler}
		if err := w.writerFormatter.FormatTo(r, &cw); err != nil {
			return err
		}
		n = cw.n
	default:
		data, err := w.formatter.Format(r)
		if err != nil {
			return err
		}
		if err := w.handler.Write(data); err != nil {
			return err
		}
		n = len(data)
	}
	w.written.Add(1)
	w.bytes.Add(uint64(n))
	return nil
}

// countingWriter lets a WriterFormatter write straight into a handler
type countingWriter struct {
	h handler.Handler
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if err := c.h.Write(p); err != nil {
		return 0, err
	}
	c.n += len(p)
	return len(p), nil
}

// fail records err and stops accepting records, so producers are not
// left filling a queue nobody reads.
func (w *Writer) fail(err error) {
	w.setErr(err)
	w.queue.Close()
	w.abandoned.Add(uint64(w.queue.Discard()))
}

func (w *Writer) setErr(err error) {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.err == nil {
		w.err = err
	}
}

// release closes the handler exactly once on every exit path and
// reports the terminal error.
func (w *Writer) release() {
	if err := w.handler.Close(); err != nil {
		w.setErr(errors.Wrap(err, "close handler"))
	}
	w.state.Store(int32(Closed))
	w.cancel()
	if err := w.Err(); err != nil {
		w.onError(err)
	}
}

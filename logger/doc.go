// Package logger is the public API of the trading engine's text logger.
// Most code only needs this package.
//
// A Logger is built once from a Config whose Kind must match the
// constructor. A text logger creates
//
//	<Directory>/<yyyy-MM-dd>/<Filename>-<HH-mm-ss>.<FileExtension>
//
// exclusively before returning and starts one writer goroutine that owns
// the file from then on:
//
//	log, err := logger.NewTextLogger(logger.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer log.Close()
//
//	log.Information("Core", "Starting")
//
// Log and its level helpers capture the time and the calling goroutine,
// post the record and return. They never block on I/O and never fail
// from the caller's point of view. If the writer stops because of an I/O
// error, Status reports it and later records are rejected rather than
// queued forever.
//
// Sync is the barrier for code that must know its records are in the
// file, for example before os.Exit: it waits until everything posted
// before the call has been written and flushed, without closing the
// logger.
//
// Close may be called any number of times from any goroutine. The first
// call closes the queue to new records and cancels the writer, which
// then drains what was already posted (DrainOnClose, the default) or
// abandons it (DropOnClose) and closes the file. Every call waits for
// the writer to finish. A Logger that becomes unreachable without Close
// has its writer cancelled by a runtime cleanup, but that is a fallback,
// not a substitute for Close.
//
// NewSlogHandler and NewZapCore let code written against log/slog or
// go.uber.org/zap log into the same file. The zap core's Sync maps to
// Logger.Sync, and DPanic, Panic and Fatal entries are synced before zap
// panics or exits.
package logger

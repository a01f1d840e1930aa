// Package handler defines the Handler interface the writer goroutine
// appends to, and hosts its implementations in subpackages.
//
// Built-in handlers:
//
//   - filehandler.FileHandler owns one log file created exclusively
//     under <base>/<yyyy-MM-dd>/<prefix>-<HH-mm-ss>.<ext>, buffered and
//     advisory-locked for its lifetime.
//   - consolehandler.ConsoleHandler writes to any io.Writer (default:
//     os.Stdout).
//
// Handlers see bytes, not records. Formatting happens on the writer
// goroutine before Write is called.
package handler

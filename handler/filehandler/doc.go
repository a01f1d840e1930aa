// Package filehandler provides the file sink of the text logger.
//
// A FileHandler is created once per logger instance by Open, which
// creates the day directory when missing and then the file itself with
// O_EXCL, so two loggers that resolve to the same name within one second
// cannot share a file: the second gets a *core.FileCreateError. While
// open, the file also carries an advisory lock (gofrs/flock) that
// cooperating tools can test before reading.
//
// Writes go through a 4 KiB bufio.Writer. The writer goroutine calls
// Flush whenever it has drained the queue, so data reaches the
// operating system before the goroutine blocks again.
package filehandler

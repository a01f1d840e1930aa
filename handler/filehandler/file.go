package filehandler

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/philipp01105/tradingengine/core"
)

const (
	// DirLayout names the per-day directory (yyyy-MM-dd)
	DirLayout = "2006-01-02"
	// FileLayout is the time part of the file name (HH-mm-ss)
	FileLayout = "15-04-05"

	bufferSize = 4096
)

// tryLock takes the advisory lock; tests replace it to simulate a lock
// held elsewhere.
var tryLock = func(l *flock.Flock) (bool, error) {
	return l.TryLock()
}

// FileHandler appends to a single log file it created. It is not safe
// for concurrent use; the writer goroutine is its only caller.
type FileHandler struct {
	path      string
	file      *os.File
	lock      *flock.Flock
	bufWriter *bufio.Writer
	closed    bool
}

// LogPath returns <dir>/<yyyy-MM-dd>/<prefix>-<HH-mm-ss>.<ext> for now.
// A leading dot on ext is ignored; an empty ext yields no extension.
func LogPath(dir, prefix string, ext string, now time.Time) string {
	name := prefix + "-" + now.Format(FileLayout)
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		name += "." + ext
	}
	return filepath.Join(dir, now.Format(DirLayout), name)
}

// EnsureDir creates dir and any missing parents
func EnsureDir(dir string) error {
	// #nosec G301 - log directories are read by other tools
	return os.MkdirAll(dir, 0755)
}

// Open creates path exclusively, creating its directory if needed, and
// takes an advisory lock on it. Any failure is a *core.FileCreateError;
// in particular an existing file at path is never reused.
func Open(path string) (*FileHandler, error) {
	path = filepath.Clean(path)

	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return nil, &core.FileCreateError{Path: path, Err: errors.Wrap(err, "create directory")}
	}

	// #nosec G302 G304 - log files are meant to be readable
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, &core.FileCreateError{Path: path, Err: err}
	}

	lock := flock.New(path)
	locked, err := tryLock(lock)
	if err != nil || !locked {
		_ = file.Close()
		// the file is ours and empty; leave the name free for a retry
		_ = os.Remove(path)
		if err == nil {
			err = errors.New("file is locked by another process")
		}
		return nil, &core.FileCreateError{Path: path, Err: errors.Wrap(err, "lock")}
	}

	return &FileHandler{
		path:      path,
		file:      file,
		lock:      lock,
		bufWriter: bufio.NewWriterSize(file, bufferSize),
	}, nil
}

// Write appends p to the buffer, spilling to the file when it fills
func (h *FileHandler) Write(p []byte) error {
	if h.closed {
		return os.ErrClosed
	}
	_, err := h.bufWriter.Write(p)
	return err
}

// Flush writes buffered bytes to the file
func (h *FileHandler) Flush() error {
	if h.closed {
		return nil
	}
	return h.bufWriter.Flush()
}

// Path returns the file the handler writes to
func (h *FileHandler) Path() string {
	return h.path
}

// Close flushes, syncs, unlocks and closes the file. It reports the
// first error but always attempts every step.
func (h *FileHandler) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	var first error
	keep := func(err error, what string) {
		if err != nil && first == nil {
			first = errors.Wrap(err, what)
		}
	}

	keep(h.bufWriter.Flush(), "flush")
	keep(h.file.Sync(), "sync")
	keep(h.lock.Unlock(), "unlock")
	keep(h.file.Close(), "close")
	return first
}

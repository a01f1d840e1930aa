package benchmark

import (
	"sync/atomic"

	"github.com/philipp01105/tradingengine/handler"
)

// countingHandler accepts every line and only counts bytes, so writer
// benchmarks measure queueing and formatting without I/O.
type countingHandler struct {
	bytes atomic.Uint64
	lines atomic.Uint64
}

var _ handler.Handler = (*countingHandler)(nil)

func (h *countingHandler) Write(p []byte) error {
	h.bytes.Add(uint64(len(p)))
	h.lines.Add(1)
	return nil
}

func (h *countingHandler) Flush() error { return nil }

func (h *countingHandler) Close() error { return nil }

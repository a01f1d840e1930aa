package queue

import (
	"sync/atomic"

	"github.com/philipp01105/tradingengine/core"
)

// OverflowPolicy defines what a bounded queue does with a record that
// arrives while it is full. Unbounded queues never consult it.
type OverflowPolicy int

const (
	// DropNewest drops the record being posted when the queue is full
	DropNewest OverflowPolicy = iota
	// DropOldest evicts the oldest pending record to make room
	DropOldest
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	default:
		return "Unknown"
	}
}

// Stats tracks queue statistics
type Stats struct {
	posted   atomic.Uint64
	rejected atomic.Uint64
	// dropped is indexed by level
	dropped [core.Critical + 1]atomic.Uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementPosted counts a record accepted by Post
func (s *Stats) IncrementPosted() {
	s.posted.Add(1)
}

// IncrementRejected counts a record refused because the queue was closed
func (s *Stats) IncrementRejected() {
	s.rejected.Add(1)
}

// IncrementDropped counts a record lost to the overflow policy
func (s *Stats) IncrementDropped(level core.Level) {
	if level.Valid() {
		s.dropped[level].Add(1)
	}
}

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	if !level.Valid() {
		return 0
	}
	return s.dropped[level].Load()
}

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += s.dropped[i].Load()
	}
	return total
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	Posted   uint64
	Rejected uint64
	Dropped  map[core.Level]uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	snap := Snapshot{
		Posted:   s.posted.Load(),
		Rejected: s.rejected.Load(),
		Dropped:  make(map[core.Level]uint64, len(s.dropped)),
	}
	for lvl := core.Debug; lvl <= core.Critical; lvl++ {
		snap.Dropped[lvl] = s.dropped[lvl].Load()
	}
	return snap
}

// TotalDropped sums the per-level drop counts of the snapshot
func (s Snapshot) TotalDropped() uint64 {
	var total uint64
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

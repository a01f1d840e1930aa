package writer

// State is the lifecycle stage of a Writer
type State int32

const (
	// Starting until the goroutine has begun its loop
	Starting State = iota
	// Running while records are being received and written
	Running
	// Draining after cancellation, while pending records are handled
	// according to the ShutdownPolicy
	Draining
	// Closed once the handler has been released
	Closed
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Starting:
		return "Starting"
	case Running:
		return "Running"
	case Draining:
		return "Draining"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// ShutdownPolicy decides what happens to records still queued when the
// writer is cancelled
type ShutdownPolicy int

const (
	// DrainOnClose writes every record posted before cancellation,
	// bounded by the drain timeout
	DrainOnClose ShutdownPolicy = iota
	// DropOnClose stops at once and abandons pending records
	DropOnClose
)

// String returns the string representation of the policy
func (p ShutdownPolicy) String() string {
	switch p {
	case DrainOnClose:
		return "DrainOnClose"
	case DropOnClose:
		return "DropOnClose"
	default:
		return "Unknown"
	}
}

// Status is a snapshot of a Writer's health
type Status struct {
	State State
	// Alive is false once the loop has exited, cleanly or not
	Alive   bool
	Written uint64
	// Flushed trails Written until the handler has been flushed
	Flushed uint64
	// Bytes counts formatted bytes handed to the handler
	Bytes     uint64
	Abandoned uint64
	// Err is the failure that stopped the loop, if any
	Err error
}

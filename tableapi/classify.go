package tableapi

import "strings"

// Canonical failure-message substrings. Backends compose per-item failure
// messages around these markers; ClassifyFailure is the only consumer.
const (
	MsgValueNotFound       = "Value not found"
	MsgConcurrencyConflict = "Concurrency conflict"
	MsgValueAlreadyExists  = "Value already exists"
)

// FailureClass is the enumerated reason behind a per-item batch failure.
type FailureClass int

const (
	// FailureTerminal covers every reason that is neither retryable nor
	// resolvable by creation. Terminal items are counted and surfaced,
	// never resubmitted.
	FailureTerminal FailureClass = iota

	// FailureMissing means the target cell does not exist yet; the item
	// should be routed to the create phase.
	FailureMissing

	// FailureConflict means the presented lock version was stale; the item
	// is eligible for the single conflict retry.
	FailureConflict

	// FailureExists means the cell already existed on a create attempt.
	// Re-running a completed sync is expected to hit this; it is treated
	// as success.
	FailureExists
)

// String returns the class name for logs.
func (c FailureClass) String() string {
	switch c {
	case FailureMissing:
		return "missing"
	case FailureConflict:
		return "conflict"
	case FailureExists:
		return "exists"
	default:
		return "terminal"
	}
}

// ClassifyFailure translates a per-item failure message into a FailureClass.
// Matching is by substring because the service reports free-form messages; a
// backend with structured error codes should map them onto the canonical
// message constants instead of teaching the engine new formats.
func ClassifyFailure(message string) FailureClass {
	switch {
	case strings.Contains(message, MsgValueNotFound):
		return FailureMissing
	case strings.Contains(message, MsgConcurrencyConflict):
		return FailureConflict
	case strings.Contains(message, MsgValueAlreadyExists):
		return FailureExists
	default:
		return FailureTerminal
	}
}

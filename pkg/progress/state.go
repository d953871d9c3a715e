package progress

import (
	"math/big"
	"time"
)

// Status is the lifecycle stage of a search run.
type Status int

const (
	Ready           Status = iota // Nothing has run yet
	Working                       // Init was called, workers are running
	FinishedSuccess               // Finalized with at least one result
	FinishedFail                  // Finalized without a result
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Working:
		return "Working"
	case FinishedSuccess:
		return "Finished (success)"
	case FinishedFail:
		return "Finished (fail)"
	default:
		return "Unknown"
	}
}

// IsFinished reports whether the status is terminal.
func (s Status) IsFinished() bool {
	return s == FinishedSuccess || s == FinishedFail
}

// State is a read-only copy of the coordinator's progress record as seen
// by the presentation layer.
type State struct {
	Status          Status
	Message         string        // Accumulated message log, one line per message
	Percent         float64       // 0..100
	ProgressVisible bool          // Set once the work has been split into shares
	Found           bool          // At least one worker reported a result
	Elapsed         time.Duration // Live while working, frozen by Finalize
	Total           *big.Int      // Candidate space size, nil if never set
}

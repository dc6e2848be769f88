// ABOUTME: Decision records and the DecisionStore interface
// ABOUTME: Tracks whether each candidate dispatch went out or was throttled

package store

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidOutcome is returned when a decision carries an unknown outcome.
var ErrInvalidOutcome = errors.New("invalid decision outcome")

// Outcome is what happened to a candidate dispatch.
type Outcome string

const (
	OutcomeDispatched Outcome = "dispatched"
	OutcomeThrottled  Outcome = "throttled"
	OutcomeFailed     Outcome = "failed" // dispatch function returned an error
)

// ValidOutcomes lists all valid outcomes.
var ValidOutcomes = []Outcome{OutcomeDispatched, OutcomeThrottled, OutcomeFailed}

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	for _, v := range ValidOutcomes {
		if o == v {
			return true
		}
	}
	return false
}

// Decision is one throttle decision for a dispatched record.
type Decision struct {
	ID         string         // UUID v4
	Path       string         // dotted canonical log path
	ActionType string         // pipeline type name of the record
	Outcome    Outcome        // what happened
	Timestamp  time.Time      // when the decision was made
	Detail     map[string]any // additional context
}

// DecisionFilter specifies filtering options for listing decisions.
type DecisionFilter struct {
	Since   *time.Time // decisions at or after this time
	Until   *time.Time // decisions at or before this time
	Path    *string    // exact dotted path
	Outcome *Outcome   // filter by outcome
	Limit   int        // max results (default 100, max 1000)
}

// DecisionStore records dispatch decisions for later inspection.
type DecisionStore interface {
	RecordDecision(ctx context.Context, d *Decision) error
	ListDecisions(ctx context.Context, f DecisionFilter) ([]Decision, error)
	Close() error
}

// normalizeLimit applies default (100) and cap (1000) to a list limit.
func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

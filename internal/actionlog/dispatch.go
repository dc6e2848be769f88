// ABOUTME: Dispatch helpers that log records and skip throttled requests
// ABOUTME: Records each decision to an optional DecisionRecorder

package actionlog

import (
	"context"
	"fmt"

	"github.com/2389/coven-throttle/internal/action"
	"github.com/2389/coven-throttle/internal/logpath"
	"github.com/2389/coven-throttle/internal/store"
)

// DispatchFunc hands a record to the host pipeline.
type DispatchFunc func(ctx context.Context, rec action.Record) error

// DecisionRecorder receives one Decision per dispatch candidate.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, d *store.Decision) error
}

// Dispatch logs rec and then hands it to fn unconditionally.
func (l *Log) Dispatch(ctx context.Context, rec action.Record, fn DispatchFunc) error {
	path, err := l.WriteFromAction(rec)
	if err != nil {
		return err
	}
	return l.send(ctx, path, rec, fn)
}

// DispatchIfNotThrottled hands rec to fn unless an attempt at the same path
// was logged within Config.RequestThrottle. The check and the log write happen
// under one lock; fn runs after it is released. It reports whether fn ran.
func (l *Log) DispatchIfNotThrottled(ctx context.Context, rec action.Record, fn DispatchFunc) (bool, error) {
	path, err := logpath.Resolve(rec)
	if err != nil {
		return false, err
	}
	check, err := attemptPath(rec)
	if err != nil {
		return false, err
	}

	ts := l.stamp(rec)

	l.mu.Lock()
	last, seen := l.root.get(check)
	if seen && l.isRecent(last, l.cfg.RequestThrottle) {
		l.mu.Unlock()
		l.logger.Debug("throttled dispatch", "path", path.String(), "last_attempt", last)
		l.record(ctx, path, rec, store.OutcomeThrottled, map[string]any{
			"last_attempt": last,
			"throttle":     l.cfg.RequestThrottle.String(),
		})
		return false, nil
	}
	l.root.set(path, ts)
	l.mu.Unlock()

	return true, l.send(ctx, path, rec, fn)
}

func (l *Log) send(ctx context.Context, path logpath.Path, rec action.Record, fn DispatchFunc) error {
	l.logger.Info("dispatching", "path", path.String(), "type", action.TypeName(rec))
	if err := fn(ctx, rec); err != nil {
		l.record(ctx, path, rec, store.OutcomeFailed, map[string]any{"error": err.Error()})
		return fmt.Errorf("dispatching %s: %w", path, err)
	}
	l.record(ctx, path, rec, store.OutcomeDispatched, nil)
	return nil
}

// record is best effort; a failing recorder never blocks dispatch.
func (l *Log) record(ctx context.Context, path logpath.Path, rec action.Record, outcome store.Outcome, detail map[string]any) {
	if l.recorder == nil {
		return
	}
	d := &store.Decision{
		Path:       path.String(),
		ActionType: action.TypeName(rec),
		Outcome:    outcome,
		Timestamp:  l.now().UTC(),
		Detail:     detail,
	}
	if err := l.recorder.RecordDecision(ctx, d); err != nil {
		l.logger.Warn("failed to record decision", "path", d.Path, "outcome", outcome, "error", err)
	}
}

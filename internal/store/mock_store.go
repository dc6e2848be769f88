// ABOUTME: In-memory DecisionStore implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory DecisionStore implementation for testing.
type MockStore struct {
	mu        sync.RWMutex
	decisions []Decision
}

var _ DecisionStore = (*MockStore)(nil)

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// RecordDecision stores a copy of d, filling ID and Timestamp when unset.
func (m *MockStore) RecordDecision(ctx context.Context, d *Decision) error {
	if !d.Outcome.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, d.Outcome)
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, *d)
	return nil
}

// ListDecisions returns matching decisions, newest first.
func (m *MockStore) ListDecisions(ctx context.Context, f DecisionFilter) ([]Decision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Decision{}
	for _, d := range m.decisions {
		if f.Since != nil && d.Timestamp.Before(*f.Since) {
			continue
		}
		if f.Until != nil && d.Timestamp.After(*f.Until) {
			continue
		}
		if f.Path != nil && d.Path != *f.Path {
			continue
		}
		if f.Outcome != nil && d.Outcome != *f.Outcome {
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if limit := normalizeLimit(f.Limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

// ABOUTME: Tests for the SQLite decision store
// ABOUTME: Covers append, filtering, ordering and limits

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func TestSQLiteStore_RecordDecision(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	d := &Decision{
		Path:       "APPLES.ID_1.REQUEST",
		ActionType: "APPLES_REQUEST",
		Outcome:    OutcomeDispatched,
		Detail:     map[string]any{"cutoff": "10s"},
	}
	require.NoError(t, store.RecordDecision(ctx, d))

	// Should have generated ID and timestamp
	assert.NotEmpty(t, d.ID)
	assert.False(t, d.Timestamp.IsZero())

	decisions, err := store.ListDecisions(ctx, DecisionFilter{})
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, d.ID, decisions[0].ID)
	assert.Equal(t, "APPLES.ID_1.REQUEST", decisions[0].Path)
	assert.Equal(t, OutcomeDispatched, decisions[0].Outcome)
	assert.Equal(t, "10s", decisions[0].Detail["cutoff"])
	assert.True(t, d.Timestamp.Equal(decisions[0].Timestamp))
}

func TestSQLiteStore_RecordDecision_InvalidOutcome(t *testing.T) {
	store := setupTestStore(t)

	err := store.RecordDecision(context.Background(), &Decision{Path: "A.GLOBAL", Outcome: "maybe"})
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestSQLiteStore_ListDecisions_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	for i, outcome := range []Outcome{OutcomeDispatched, OutcomeThrottled, OutcomeFailed} {
		require.NoError(t, store.RecordDecision(ctx, &Decision{
			Path:       "APPLES.ID_1.REQUEST",
			ActionType: "APPLES_REQUEST",
			Outcome:    outcome,
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		}))
	}

	decisions, err := store.ListDecisions(ctx, DecisionFilter{})
	require.NoError(t, err)
	require.Len(t, decisions, 3)
	assert.Equal(t, OutcomeFailed, decisions[0].Outcome)
	assert.Equal(t, OutcomeDispatched, decisions[2].Outcome)
}

func TestSQLiteStore_ListDecisions_Filters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	records := []*Decision{
		{Path: "APPLES.ID_1.REQUEST", ActionType: "APPLES_REQUEST", Outcome: OutcomeDispatched, Timestamp: base},
		{Path: "APPLES.ID_1.REQUEST", ActionType: "APPLES_REQUEST", Outcome: OutcomeThrottled, Timestamp: base.Add(10 * time.Minute)},
		{Path: "PEARS.GLOBAL.REQUEST", ActionType: "PEARS_REQUEST", Outcome: OutcomeDispatched, Timestamp: base.Add(20 * time.Minute)},
	}
	for _, d := range records {
		require.NoError(t, store.RecordDecision(ctx, d))
	}

	path := "APPLES.ID_1.REQUEST"
	decisions, err := store.ListDecisions(ctx, DecisionFilter{Path: &path})
	require.NoError(t, err)
	assert.Len(t, decisions, 2)

	throttled := OutcomeThrottled
	decisions, err = store.ListDecisions(ctx, DecisionFilter{Outcome: &throttled})
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, records[1].ID, decisions[0].ID)

	since := base.Add(5 * time.Minute)
	until := base.Add(15 * time.Minute)
	decisions, err = store.ListDecisions(ctx, DecisionFilter{Since: &since, Until: &until})
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, OutcomeThrottled, decisions[0].Outcome)

	decisions, err = store.ListDecisions(ctx, DecisionFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, "PEARS.GLOBAL.REQUEST", decisions[0].Path)
}

func TestSQLiteStore_ListDecisions_Empty(t *testing.T) {
	store := setupTestStore(t)

	decisions, err := store.ListDecisions(context.Background(), DecisionFilter{})
	require.NoError(t, err)
	assert.NotNil(t, decisions)
	assert.Empty(t, decisions)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RecordDecision(context.Background(), &Decision{
		Path:    "KIWIS.GLOBAL",
		Outcome: OutcomeDispatched,
	}))
	decisions, err := store.ListDecisions(context.Background(), DecisionFilter{})
	require.NoError(t, err)
	assert.Len(t, decisions, 1)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 100, normalizeLimit(0))
	assert.Equal(t, 100, normalizeLimit(-5))
	assert.Equal(t, 25, normalizeLimit(25))
	assert.Equal(t, 1000, normalizeLimit(5000))
}

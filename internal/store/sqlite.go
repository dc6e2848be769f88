// ABOUTME: SQLite implementation of DecisionStore using modernc.org/sqlite
// ABOUTME: Appends decisions and lists them newest first with optional filters

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// tsLayout is fixed width so stored timestamps sort lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements DecisionStore using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ DecisionStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// An in-memory database lives per connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS dispatch_decisions (
			decision_id  TEXT PRIMARY KEY,
			path         TEXT NOT NULL,
			action_type  TEXT NOT NULL,
			outcome      TEXT NOT NULL,
			ts           TEXT NOT NULL,
			detail_json  TEXT,

			CHECK (outcome IN ('dispatched', 'throttled', 'failed'))
		);

		CREATE INDEX IF NOT EXISTS idx_decisions_ts ON dispatch_decisions(ts DESC);
		CREATE INDEX IF NOT EXISTS idx_decisions_path ON dispatch_decisions(path);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordDecision appends a decision. Generates ID and Timestamp if not set.
func (s *SQLiteStore) RecordDecision(ctx context.Context, d *Decision) error {
	if !d.Outcome.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, d.Outcome)
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now().UTC()
	}

	var detailJSON *string
	if d.Detail != nil {
		data, err := json.Marshal(d.Detail)
		if err != nil {
			return fmt.Errorf("marshaling decision detail: %w", err)
		}
		str := string(data)
		detailJSON = &str
	}

	query := `
		INSERT INTO dispatch_decisions (decision_id, path, action_type, outcome, ts, detail_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		d.ID,
		d.Path,
		d.ActionType,
		d.Outcome,
		d.Timestamp.UTC().Format(tsLayout),
		detailJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting decision: %w", err)
	}

	s.logger.Debug("recorded decision",
		"id", d.ID,
		"path", d.Path,
		"outcome", d.Outcome,
	)
	return nil
}

// scanDecision scans a row into a Decision.
func scanDecision(scanner interface{ Scan(dest ...any) error }) (Decision, error) {
	var d Decision
	var outcomeStr, tsStr string
	var detailJSON *string

	if err := scanner.Scan(
		&d.ID,
		&d.Path,
		&d.ActionType,
		&outcomeStr,
		&tsStr,
		&detailJSON,
	); err != nil {
		return d, fmt.Errorf("scanning decision: %w", err)
	}

	d.Outcome = Outcome(outcomeStr)
	var err error
	d.Timestamp, err = time.Parse(time.RFC3339Nano, tsStr)
	if err != nil {
		return d, fmt.Errorf("parsing timestamp: %w", err)
	}

	if detailJSON != nil {
		if err := json.Unmarshal([]byte(*detailJSON), &d.Detail); err != nil {
			return d, fmt.Errorf("unmarshaling detail: %w", err)
		}
	}
	return d, nil
}

const decisionQuery = `
	SELECT decision_id, path, action_type, outcome, ts, detail_json
	FROM dispatch_decisions
	WHERE (? IS NULL OR ts >= ?)
	  AND (? IS NULL OR ts <= ?)
	  AND (? IS NULL OR path = ?)
	  AND (? IS NULL OR outcome = ?)
	ORDER BY ts DESC
	LIMIT ?
`

// ListDecisions returns decisions matching the filter, newest first.
func (s *SQLiteStore) ListDecisions(ctx context.Context, f DecisionFilter) ([]Decision, error) {
	limit := normalizeLimit(f.Limit)

	var sinceStr, untilStr, outcomeStr *string
	if f.Since != nil {
		v := f.Since.UTC().Format(tsLayout)
		sinceStr = &v
	}
	if f.Until != nil {
		v := f.Until.UTC().Format(tsLayout)
		untilStr = &v
	}
	if f.Outcome != nil {
		v := string(*f.Outcome)
		outcomeStr = &v
	}

	rows, err := s.db.QueryContext(ctx, decisionQuery,
		sinceStr, sinceStr,
		untilStr, untilStr,
		f.Path, f.Path,
		outcomeStr, outcomeStr,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying decisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decisions []Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating decisions: %w", err)
	}

	if decisions == nil {
		decisions = []Decision{}
	}
	return decisions, nil
}

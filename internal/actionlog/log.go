// ABOUTME: Log owns the action tree and answers recency questions about it
// ABOUTME: Resolves record paths, stamps them with the clock and reads them back

package actionlog

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/2389/coven-throttle/internal/action"
	"github.com/2389/coven-throttle/internal/logpath"
)

// ErrEmptyPath is returned when writing at a path with no segments.
var ErrEmptyPath = errors.New("empty log path")

// Defaults applied when Config leaves a window unset.
const (
	DefaultRequestThrottle = 10 * time.Second
	DefaultFreshnessCutoff = 300 * time.Second
)

// TimestampLayout is the ISO-8601 form written for clock-derived entries.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Config holds the two recency windows.
type Config struct {
	// RequestThrottle is how long an attempt blocks an identical request.
	RequestThrottle time.Duration
	// FreshnessCutoff is how long a success counts as fresh.
	FreshnessCutoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.RequestThrottle <= 0 {
		c.RequestThrottle = DefaultRequestThrottle
	}
	if c.FreshnessCutoff <= 0 {
		c.FreshnessCutoff = DefaultFreshnessCutoff
	}
	return c
}

// Option configures a Log.
type Option func(*Log)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// WithRecorder records every dispatch decision to r.
func WithRecorder(r DecisionRecorder) Option {
	return func(l *Log) { l.recorder = r }
}

// Log is the action log. It is safe for concurrent use.
type Log struct {
	mu       sync.RWMutex
	root     *node
	cfg      Config
	now      func() time.Time
	logger   *slog.Logger
	recorder DecisionRecorder
}

// New creates an empty log. Zero windows in cfg fall back to the defaults.
func New(cfg Config, opts ...Option) *Log {
	l := &Log{
		root:   newBranch(),
		cfg:    cfg.withDefaults(),
		now:    time.Now,
		logger: slog.Default().With("component", "actionlog"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Config returns the effective windows.
func (l *Log) Config() Config {
	return l.cfg
}

// Write stores ts at path, replacing any leaf or subtree already there.
func (l *Log) Write(path logpath.Path, ts string) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.root.set(path, ts)
	return nil
}

// Read returns the timestamp at path. Missing paths and paths that lead to a
// subtree report false.
func (l *Log) Read(path logpath.Path) (string, bool) {
	if len(path) == 0 {
		return "", false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.root.get(path)
}

// Remove deletes the value or subtree at path. Missing paths are ignored.
func (l *Log) Remove(path logpath.Path) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.root.unset(path)
}

// Reset drops every entry.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.root = newBranch()
}

// Len returns the number of leaves.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.root.leaves()
}

// Flatten returns one "SEG--SEG--...--TIMESTAMP" string per leaf, depth
// first, siblings in insertion order.
func (l *Log) Flatten() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.root.flatten(nil, []string{})
}

// WriteFromAction stamps the record's path with its timestamp override, or
// the clock when it has none.
func (l *Log) WriteFromAction(rec action.Record) (logpath.Path, error) {
	path, err := logpath.Resolve(rec)
	if err != nil {
		return nil, err
	}
	ts := l.stamp(rec)
	if err := l.Write(path, ts); err != nil {
		return nil, err
	}
	l.logger.Debug("wrote log entry", "path", path.String(), "ts", ts)
	return path, nil
}

// ReadFromAction reads the record's entry. A non-empty overrideTerminal
// replaces the final path segment first, e.g. "SUCCESS" to look up the
// response to a request.
func (l *Log) ReadFromAction(rec action.Record, overrideTerminal string) (string, bool, error) {
	path, err := logpath.Resolve(rec)
	if err != nil {
		return "", false, err
	}
	if overrideTerminal != "" {
		path = path.WithTerminal(overrideTerminal)
	}
	ts, ok := l.Read(path)
	return ts, ok, nil
}

// HasRecentAttempt reports whether the record's request was logged less than
// cutoff ago. A zero cutoff uses Config.RequestThrottle. Plain records are
// checked at their own path.
func (l *Log) HasRecentAttempt(rec action.Record, cutoff time.Duration) (bool, error) {
	if cutoff <= 0 {
		cutoff = l.cfg.RequestThrottle
	}
	path, err := attemptPath(rec)
	if err != nil {
		return false, err
	}
	ts, ok := l.Read(path)
	return ok && l.isRecent(ts, cutoff), nil
}

// HasRecentSuccess reports whether the record's SUCCESS sibling was logged
// less than cutoff ago. A zero cutoff uses Config.FreshnessCutoff. Plain
// records have no success stage and always report false.
func (l *Log) HasRecentSuccess(rec action.Record, cutoff time.Duration) (bool, error) {
	if cutoff <= 0 {
		cutoff = l.cfg.FreshnessCutoff
	}
	kind, err := action.Classify(rec)
	if err != nil {
		return false, fmt.Errorf("resolving path: %w", err)
	}
	if kind == action.KindPlain {
		return false, nil
	}
	ts, ok, err := l.ReadFromAction(rec, string(action.Success))
	if err != nil {
		return false, err
	}
	return ok && l.isRecent(ts, cutoff), nil
}

// attemptPath is the path holding the record's most recent attempt: the
// REQUEST sibling for async records, the record's own path otherwise.
func attemptPath(rec action.Record) (logpath.Path, error) {
	path, err := logpath.Resolve(rec)
	if err != nil {
		return nil, err
	}
	if kind, _ := action.Classify(rec); kind == action.KindPlain {
		return path, nil
	}
	return path.WithTerminal(string(action.Request)), nil
}

func (l *Log) stamp(rec action.Record) string {
	if ts := rec.TimestampOverride(); ts != "" {
		return ts
	}
	return l.now().UTC().Format(TimestampLayout)
}

// isRecent reports whether ts is less than cutoff before now. Timestamps that
// do not parse are never recent.
func (l *Log) isRecent(ts string, cutoff time.Duration) bool {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return false
	}
	return l.now().Sub(t) < cutoff
}

// ABOUTME: Shared fixtures for actionlog tests
// ABOUTME: Fake clock plus request and plain record builders

package actionlog

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/2389/coven-throttle/internal/action"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeAPIAction builds an outgoing request, optionally stamped with now.
func fakeAPIAction(id, base, now string) action.Emitting {
	req := action.NewRequest(base, id)
	req.Now = now
	return req
}

// fakeAction builds a plain action with two string extras.
func fakeAction(id, typ, now string) action.Plain {
	return action.Plain{
		Type: typ,
		ID:   id,
		Fields: []action.Field{
			{Name: "value", Value: "Whatever"},
			{Name: "value2", Value: "Whatever2"},
		},
		Now: now,
	}
}

func newTestLog(clock *fakeClock, opts ...Option) *Log {
	return New(Config{}, append([]Option{WithClock(clock.Now)}, opts...)...)
}

// writeABunchOfLogs seeds the log with a mix of requests, a plain action and
// a response.
func writeABunchOfLogs(t *testing.T, l *Log) {
	t.Helper()
	for _, rec := range []action.Record{
		fakeAPIAction("1", "APPLES", "time1"),
		fakeAPIAction("2", "APPLES", "time2"),
		fakeAPIAction("2", "ORANGES", "time2"),
		fakeAPIAction("", "BANANAS", "time3"),
		fakeAction("", "KIWIS", "time4"),
		action.Returning{Type: "APPLES_SUCCESS", ID: "2", Now: "time5"},
	} {
		_, err := l.WriteFromAction(rec)
		require.NoError(t, err)
	}
}

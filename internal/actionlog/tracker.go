// ABOUTME: Reducer-style hook that writes every observed record to the log
// ABOUTME: Skips init markers and caller-supplied type prefixes

package actionlog

import (
	"strings"

	"github.com/2389/coven-throttle/internal/action"
)

// TrackingSentinel is what the tracking hook returns instead of state.
const TrackingSentinel = "This reducer is for tracking alone and does not return viable data."

// InitMarker prefixes internal initialization types, e.g. "@@INIT".
const InitMarker = "@"

// Reducer has the shape of a pipeline reducer.
type Reducer func(state any, rec action.Record) any

// TrackingHook returns a Reducer that writes every record to l unless its
// type starts with InitMarker or one of ignoredPrefixes. The state argument
// is ignored and TrackingSentinel is always returned.
func TrackingHook(l *Log, ignoredPrefixes ...string) Reducer {
	ignored := []string{InitMarker}
	for _, p := range ignoredPrefixes {
		if p != "" {
			ignored = append(ignored, p)
		}
	}

	return func(_ any, rec action.Record) any {
		typ := action.TypeName(rec)
		for _, p := range ignored {
			if strings.HasPrefix(typ, p) {
				return TrackingSentinel
			}
		}
		if _, err := l.WriteFromAction(rec); err != nil {
			l.logger.Warn("tracking hook skipped record", "type", typ, "error", err)
		}
		return TrackingSentinel
	}
}

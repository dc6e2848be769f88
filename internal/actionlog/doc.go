// Package actionlog keeps the "last time this operation reached state X" log
// that the dispatcher uses to throttle duplicate requests.
//
// # Tree
//
// Entries live in a tree addressed by logpath.Path. Each leaf holds an
// ISO-8601 timestamp:
//
//	APPLES
//	├── ID_1
//	│   └── REQUEST: 2026-10-15T12:00:00.000Z
//	└── ID_2
//	    ├── REQUEST: 2026-10-15T12:00:03.000Z
//	    └── SUCCESS: 2026-10-15T12:00:04.000Z
//
// Writing at a path replaces whatever was there. Siblings keep insertion
// order, so Flatten output must be sorted by callers that need determinism.
//
// # Throttling
//
//	log := actionlog.New(actionlog.Config{RequestThrottle: 10 * time.Second})
//	sent, err := log.DispatchIfNotThrottled(ctx, action.NewRequest("FETCH_SITE", "7"), dispatch)
//
// DispatchIfNotThrottled checks and records the attempt under one lock, so
// concurrent callers racing on the same path dispatch exactly once.
//
// # Tracking
//
// TrackingHook returns a reducer-style function that writes every record it
// sees to the log, except init markers and ignored type prefixes.
package actionlog

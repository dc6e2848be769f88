// Package store records throttle decisions for later inspection.
//
// # Architecture
//
// DecisionStore is the single interface. SQLiteStore implements it on top of
// modernc.org/sqlite; MockStore keeps decisions in memory for tests.
//
// The action log itself is never persisted here. Decisions are an append-only
// trail of what the dispatcher did, not state it reloads on startup.
//
// # Data Model
//
//   - Decision: one dispatch candidate with its canonical path, type and
//     Outcome (dispatched, throttled, failed)
//
// # SQLite Configuration
//
// File databases use WAL mode:
//
//	PRAGMA journal_mode=WAL;
//
// Use NewSQLiteStore(":memory:") for throwaway databases.
//
// # Errors
//
//   - ErrInvalidOutcome: decision outcome is not one of ValidOutcomes
//
// All methods accept context.Context for cancellation support.
package store

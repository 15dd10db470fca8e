// Package app provides the orchestration layer for shelfwatch.
//
// # Overview
//
// This package is the composition root. It loads configuration, opens the
// state backend, builds the catalogue client and notifiers, and runs one of
// the commands:
//
//   - RunCheck: a single transition check for one or more catalogue numbers
//   - RunWatch: RunCheck repeated on a ticker
//   - RunStock: the per-branch stock table for a BAC number
//   - RunTheme: show or store the output theme
//
// # Check Flow
//
//	Backend.Load
//	    │
//	    ▼
//	fetchAll ── errgroup, limited by concurrency and requests_per_second
//	    │
//	    ▼
//	availability.FromCopies → availability.Reduce   (every item, before any diff)
//	    │
//	    ▼
//	State.RecordAndDiff ── BecameAvailable? ── Dispatcher.Dispatch
//	    │
//	    ▼
//	Backend.Save (once) → metrics push
//
// Any fetch, parse or reduction error aborts the run before the diff step, so
// the stored state is left untouched. Notifier failures are reported in the
// Report and logged but never abort the run.
//
// # Components
//
//   - app.go: Options, configuration and dependency wiring, RunTheme
//   - check.go: Checker and RunCheck
//   - fetch.go: concurrent catalogue fetches and request timing
//   - stock.go: RunStock
//   - watch.go: RunWatch
//
// # Testing
//
// Checker takes its dependencies as fields, so tests pass a fake
// catalog.Fetcher, a file backend in a temp dir and a recording notifier.
// The Run* functions are exercised end to end against httptest servers.
package app

// Package state persists the last known availability of each catalogue
// number between runs and detects transitions.
//
// # Overview
//
// A run loads the State once, records the new verdict for each checked
// catalogue number with RecordAndDiff, and saves the State once before it
// exits:
//
//	backend.Load()  ->  state.RecordAndDiff(...)  ->  backend.Save()
//
// RecordAndDiff returns a Transition only when the stored status changes.
// A notification is due when Transition.BecameAvailable reports true.
//
// # Defaults
//
// A catalogue number that was never recorded is treated as on loan
// (DefaultStatus). The default is applied at the lookup site in Status and
// RecordAndDiff; the map itself never holds synthetic entries. The first
// available sighting of a new number is therefore a transition.
//
// # Backends
//
//   - file: TOML document, written via temp file and rename (default)
//   - sqlite: one row per number in a local database (modernc.org/sqlite)
//   - postgres: one row per number (pgx)
//   - redis: TOML document under one key
//   - s3: TOML document as one object
//
// The relational backends build their statements with goqu and rewrite the
// whole table inside a transaction on Save.
//
// # Corruption
//
// Storage that exists but cannot be decoded (bad TOML, unknown status text,
// unsupported version) fails with ErrCorrupt. Resetting to an empty State
// would re-announce every item that is already available, so Load never does
// that silently.
//
// # Concurrency
//
// State is safe for concurrent use within a process. There is no
// cross-process locking: two runs sharing one backend can lose updates, and
// the scheduler is expected to serialize them.
package state

// Package availability turns per-copy records into a single verdict.
//
// SensibleDueDate cleans each record's date, Best compares two verdicts and
// Reduce folds a non-empty slice with Best. The fold is order independent on
// the (Status, DueDate) key, so records may be gathered in any order,
// including from concurrent fetches.
package availability

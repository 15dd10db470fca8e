package state

import (
	"sort"
	"sync"
	"time"

	"github.com/five82/shelfwatch/internal/catalog"
)

// DefaultStatus is assumed for catalogue numbers that were never recorded,
// so a first available sighting always counts as a transition.
const DefaultStatus = catalog.StatusOnLoan

// Entry is the last known verdict for one catalogue number.
type Entry struct {
	Status    catalog.Status
	ChangedAt time.Time // when Status last changed
	CheckedAt time.Time // when the number was last checked
}

// Transition reports a status change for one catalogue number.
type Transition struct {
	CatalogNumber string
	Old           catalog.Status
	New           catalog.Status
}

// BecameAvailable reports whether the transition warrants a notification.
func (t Transition) BecameAvailable() bool {
	return t.New == catalog.StatusAvailable && t.Old != catalog.StatusAvailable
}

// State maps catalogue numbers to their last known entry. It is loaded once
// per run, mutated in memory and saved once at the end.
type State struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New returns an empty state.
func New() *State {
	return &State{entries: make(map[string]Entry)}
}

// Status returns the recorded status, or DefaultStatus when absent.
func (s *State) Status(catalogNumber string) catalog.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[catalogNumber]
	if !ok {
		return DefaultStatus
	}
	return entry.Status
}

// Entry returns the stored entry for catalogNumber.
func (s *State) Entry(catalogNumber string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[catalogNumber]
	return entry, ok
}

// RecordAndDiff stores status as the current value for catalogNumber and
// returns the (old, new) pair when it differs from the previous value.
func (s *State) RecordAndDiff(catalogNumber string, status catalog.Status, now time.Time) (Transition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}

	prev, seen := s.entries[catalogNumber]
	old := DefaultStatus
	if seen {
		old = prev.Status
	}

	entry := Entry{Status: status, ChangedAt: prev.ChangedAt, CheckedAt: now}
	if !seen || old != status {
		entry.ChangedAt = now
	}
	s.entries[catalogNumber] = entry

	if old == status {
		return Transition{}, false
	}
	return Transition{CatalogNumber: catalogNumber, Old: old, New: status}, true
}

// Len returns the number of recorded catalogue numbers.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns the recorded catalogue numbers in sorted order.
func (s *State) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of all entries.
func (s *State) Entries() map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dup := make(map[string]Entry, len(s.entries))
	for k, v := range s.entries {
		dup[k] = v
	}
	return dup
}

// put installs a decoded entry. Backends call it while loading.
func (s *State) put(catalogNumber string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}
	s.entries[catalogNumber] = entry
}

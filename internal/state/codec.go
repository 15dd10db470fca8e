package state

import (
	"fmt"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const documentVersion = 1

// document is the TOML layout shared by the blob-style backends:
//
//	version = 1
//
//	[items.T012345678]
//	status = "available"
//	changed_at = 2026-10-18T07:00:00Z
//	checked_at = 2026-10-18T07:00:00Z
type document struct {
	Version int                 `toml:"version"`
	Items   map[string]entryDoc `toml:"items"`
}

type entryDoc struct {
	Status    string    `toml:"status"`
	ChangedAt time.Time `toml:"changed_at"`
	CheckedAt time.Time `toml:"checked_at"`
}

func encodeState(s *State) ([]byte, error) {
	doc := document{Version: documentVersion, Items: make(map[string]entryDoc)}
	for k, e := range s.Entries() {
		text, err := e.Status.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		doc.Items[k] = entryDoc{
			Status:    string(text),
			ChangedAt: e.ChangedAt.UTC(),
			CheckedAt: e.CheckedAt.UTC(),
		}
	}
	b, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return b, nil
}

func decodeState(b []byte) (*State, error) {
	var doc document
	if err := toml.Unmarshal(b, &doc); err != nil {
		return nil, corrupt("parse state: %v", err)
	}
	if doc.Version != documentVersion {
		return nil, corrupt("unsupported state version %d", doc.Version)
	}
	s := New()
	for k, item := range doc.Items {
		entry, err := decodeRow(k, item.Status, item.ChangedAt, item.CheckedAt)
		if err != nil {
			return nil, err
		}
		s.put(k, entry)
	}
	return s, nil
}

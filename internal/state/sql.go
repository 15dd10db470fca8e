package state

import (
	"fmt"
	"sort"

	"github.com/doug-martin/goqu/v9"
)

const stateTable = "availability_state"

// sqlRow is one persisted entry in the relational backends.
type sqlRow struct {
	CatalogNumber string
	Status        string
	ChangedAt     any
	CheckedAt     any
}

func selectStateSQL(d goqu.DialectWrapper) (string, []any, error) {
	q, args, err := d.From(stateTable).
		Select("catalog_number", "status", "changed_at", "checked_at").
		Order(goqu.C("catalog_number").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}
	return q, args, nil
}

func deleteStateSQL(d goqu.DialectWrapper) (string, []any, error) {
	q, args, err := d.Delete(stateTable).Prepared(true).ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build delete: %w", err)
	}
	return q, args, nil
}

// insertStateSQL builds one multi-row insert; ok is false when there is
// nothing to insert.
func insertStateSQL(d goqu.DialectWrapper, rows []sqlRow) (q string, args []any, ok bool, err error) {
	if len(rows) == 0 {
		return "", nil, false, nil
	}
	records := make([]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, goqu.Record{
			"catalog_number": r.CatalogNumber,
			"status":         r.Status,
			"changed_at":     r.ChangedAt,
			"checked_at":     r.CheckedAt,
		})
	}
	q, args, err = d.Insert(stateTable).Rows(records...).Prepared(true).ToSQL()
	if err != nil {
		return "", nil, false, fmt.Errorf("build insert: %w", err)
	}
	return q, args, true, nil
}

// stateRows flattens s in key order using conv for the timestamp columns.
func stateRows(s *State, conv func(Entry) (changed, checked any)) ([]sqlRow, error) {
	entries := s.Entries()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]sqlRow, 0, len(keys))
	for _, k := range keys {
		e := entries[k]
		text, err := e.Status.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		changed, checked := conv(e)
		rows = append(rows, sqlRow{CatalogNumber: k, Status: string(text), ChangedAt: changed, CheckedAt: checked})
	}
	return rows, nil
}

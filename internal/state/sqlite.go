package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteBackend keeps one row per catalogue number in a local SQLite file.
// Timestamps are stored as RFC 3339 text.
type SQLiteBackend struct {
	db      *sql.DB
	dialect goqu.DialectWrapper
	path    string
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+stateTable+` (
		catalog_number TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		changed_at TEXT NOT NULL,
		checked_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &SQLiteBackend{db: db, dialect: goqu.Dialect("sqlite3"), path: path}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context) (*State, error) {
	q, args, err := selectStateSQL(b.dialect)
	if err != nil {
		return nil, err
	}
	rows, err := b.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	s := New()
	for rows.Next() {
		var number, status, changed, checked string
		if err := rows.Scan(&number, &status, &changed, &checked); err != nil {
			return nil, corrupt("scan: %v", err)
		}
		changedAt, err := time.Parse(time.RFC3339Nano, changed)
		if err != nil {
			return nil, corrupt("%s changed_at: %v", number, err)
		}
		checkedAt, err := time.Parse(time.RFC3339Nano, checked)
		if err != nil {
			return nil, corrupt("%s checked_at: %v", number, err)
		}
		entry, err := decodeRow(number, status, changedAt, checkedAt)
		if err != nil {
			return nil, err
		}
		s.put(number, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate state: %w", err)
	}
	return s, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, s *State) (retErr error) {
	rows, err := stateRows(s, func(e Entry) (any, any) {
		return e.ChangedAt.UTC().Format(time.RFC3339Nano), e.CheckedAt.UTC().Format(time.RFC3339Nano)
	})
	if err != nil {
		return err
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	q, args, err := deleteStateSQL(b.dialect)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	q, args, ok, err := insertStateSQL(b.dialect, rows)
	if err != nil {
		return err
	}
	if ok {
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert state: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error { return b.db.Close() }

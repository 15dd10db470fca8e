package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend keeps one row per catalogue number in PostgreSQL.
type PostgresBackend struct {
	pool    *pgxpool.Pool
	dialect goqu.DialectWrapper
}

// OpenPostgres connects using dsn and ensures the state table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresBackend, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+stateTable+` (
		catalog_number TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		changed_at TIMESTAMPTZ NOT NULL,
		checked_at TIMESTAMPTZ NOT NULL
	)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &PostgresBackend{pool: pool, dialect: goqu.Dialect("postgres")}, nil
}

func (b *PostgresBackend) Load(ctx context.Context) (*State, error) {
	q, args, err := selectStateSQL(b.dialect)
	if err != nil {
		return nil, err
	}
	rows, err := b.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	defer rows.Close()

	s := New()
	for rows.Next() {
		var (
			number, status     string
			changedAt, checked time.Time
		)
		if err := rows.Scan(&number, &status, &changedAt, &checked); err != nil {
			return nil, corrupt("scan: %v", err)
		}
		entry, err := decodeRow(number, status, changedAt, checked)
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

func (b *PostgresBackend) Save(ctx context.Context, s *State) error {
	rows, err := stateRows(s, func(e Entry) (any, any) {
		return e.ChangedAt.UTC(), e.CheckedAt.UTC()
	})
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		q, args, err := deleteStateSQL(b.dialect)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, q, args...); err != nil {
			return fmt.Errorf("clear state: %w", err)
		}
		q, args, ok, err := insertStateSQL(b.dialect, rows)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if _, err := tx.Exec(ctx, q, args...); err != nil {
			return fmt.Errorf("insert state: %w", err)
		}
		return nil
	})
}

func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}

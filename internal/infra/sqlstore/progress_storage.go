// Package sqlstore keeps progress entries in a SQL table through bun, on
// SQLite for a single learner's machine or Postgres for a shared deployment.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

type progressEntry struct {
	bun.BaseModel `bun:"table:progress_entries"`

	Name      string    `bun:"name,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// OpenSQLite opens (or creates) a SQLite database file. ":memory:" works for tests.
func OpenSQLite(path string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps an in-memory database alive and serializes writers
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// OpenPostgres opens a bun handle over pgdriver.
func OpenPostgres(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// ProgressStorage implements progress.Storage on the progress_entries table.
type ProgressStorage struct {
	db  *bun.DB
	now func() time.Time
}

func NewProgressStorage(db *bun.DB) *ProgressStorage {
	return &ProgressStorage{db: db, now: time.Now}
}

// CreateSchema creates the table when it does not exist. Postgres
// deployments normally get it from the migrations instead.
func (s *ProgressStorage) CreateSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*progressEntry)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create progress_entries: %w", err)
	}
	return nil
}

func (s *ProgressStorage) Load(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	var entries []progressEntry
	err := s.db.NewSelect().
		Model(&entries).
		Where("name IN (?)", bun.In(keys)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select progress: %w", err)
	}
	for _, e := range entries {
		out[e.Name] = e.Value
	}
	return out, nil
}

// Save upserts values and deletes absent keys in one transaction.
func (s *ProgressStorage) Save(ctx context.Context, values map[string]string, absent []string) error {
	now := s.now().UTC()
	entries := make([]progressEntry, 0, len(values))
	for k, v := range values {
		entries = append(entries, progressEntry{Name: k, Value: v, UpdatedAt: now})
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(entries) > 0 {
			_, err := tx.NewInsert().
				Model(&entries).
				On("CONFLICT (name) DO UPDATE").
				Set("value = EXCLUDED.value").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("upsert progress: %w", err)
			}
		}
		if len(absent) > 0 {
			_, err := tx.NewDelete().
				Model((*progressEntry)(nil)).
				Where("name IN (?)", bun.In(absent)).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("delete progress: %w", err)
			}
		}
		return nil
	})
}

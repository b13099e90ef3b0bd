// Package sqlite provides a SQLite-backed progress store.
//
// Rows are only ever inserted, and the unlock flag is written with MAX, so
// the stored record cannot regress even if an older snapshot is saved.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"FreshmanRoll/internal/progress"
	"FreshmanRoll/internal/progress/sqlite/migrations"
	"FreshmanRoll/internal/route"

	_ "modernc.org/sqlite"
)

// Store persists the progress record in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ progress.Store = (*Store)(nil)

// Open opens a SQLite progress store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load reads the stored record. Unknown ending values are passed through
// so the tracker can report them.
func (s *Store) Load(ctx context.Context) (progress.Record, error) {
	if err := ctx.Err(); err != nil {
		return progress.Record{}, err
	}
	if s == nil || s.sqlDB == nil {
		return progress.Record{}, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT ending FROM completed_endings ORDER BY completed_at, ending`)
	if err != nil {
		return progress.Record{}, fmt.Errorf("query completed endings: %w", err)
	}
	defer rows.Close()

	rec := progress.Record{Completed: []route.Ending{}}
	for rows.Next() {
		var ending string
		if err := rows.Scan(&ending); err != nil {
			return progress.Record{}, fmt.Errorf("scan completed ending: %w", err)
		}
		rec.Completed = append(rec.Completed, route.Ending(ending))
	}
	if err := rows.Err(); err != nil {
		return progress.Record{}, fmt.Errorf("iterate completed endings: %w", err)
	}

	var unlocked int
	err = s.sqlDB.QueryRowContext(ctx, `SELECT meta_unlocked FROM progress_meta WHERE id = 1`).Scan(&unlocked)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return progress.Record{}, fmt.Errorf("query progress meta: %w", err)
	default:
		rec.MetaUnlocked = unlocked != 0
	}
	return rec, nil
}

// Save merges rec into the stored record.
func (s *Store) Save(ctx context.Context, rec progress.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	now := time.Now().UTC().UnixMilli()
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save progress: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range rec.Completed {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO completed_endings (ending, completed_at) VALUES (?, ?)`,
			string(e), now,
		); err != nil {
			return fmt.Errorf("save ending %s: %w", e, err)
		}
	}

	unlocked := 0
	if rec.MetaUnlocked {
		unlocked = 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO progress_meta (id, meta_unlocked, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   meta_unlocked = MAX(progress_meta.meta_unlocked, excluded.meta_unlocked),
		   updated_at = excluded.updated_at`,
		unlocked, now,
	); err != nil {
		return fmt.Errorf("save progress meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save progress: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/verte-zerg/drill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps progress in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS known (
			id TEXT PRIMARY KEY,
			rank INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS progress (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			iteration INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS answered (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE
		);`,
		`INSERT OR IGNORE INTO progress (id, iteration) VALUES (1, 0);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the stored progress. A fresh database yields defaults.
func (s *SQLiteStore) Load(ctx context.Context) (model.Progress, error) {
	progress := model.NewProgress()

	if err := s.db.QueryRowContext(ctx, `SELECT iteration FROM progress WHERE id = 1`).Scan(&progress.Iteration); err != nil {
		return model.Progress{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, rank FROM known`)
	if err != nil {
		return model.Progress{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var id string
		var rank int
		if err := rows.Scan(&id, &rank); err != nil {
			return model.Progress{}, err
		}
		progress.Known[id] = rank
	}
	if err := rows.Err(); err != nil {
		return model.Progress{}, err
	}

	answered, err := s.db.QueryContext(ctx, `SELECT id FROM answered ORDER BY position ASC`)
	if err != nil {
		return model.Progress{}, err
	}
	defer func() {
		if cerr := answered.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for answered.Next() {
		var id string
		if err := answered.Scan(&id); err != nil {
			return model.Progress{}, err
		}
		progress.AnsweredInIteration = append(progress.AnsweredInIteration, id)
	}
	if err := answered.Err(); err != nil {
		return model.Progress{}, err
	}
	return progress, nil
}

// Save replaces the stored progress in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, progress model.Progress) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, stmt := range []string{`DELETE FROM known`, `DELETE FROM answered`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, `UPDATE progress SET iteration = ? WHERE id = 1`, progress.Iteration); err != nil {
		return err
	}

	if len(progress.Known) > 0 {
		stmt, perr := tx.PrepareContext(ctx, `INSERT INTO known (id, rank) VALUES (?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for id, rank := range progress.Known {
			if _, err = stmt.ExecContext(ctx, id, rank); err != nil {
				return err
			}
		}
	}

	for i, id := range progress.AnsweredInIteration {
		if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO answered (position, id) VALUES (?, ?)`, i, id); err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

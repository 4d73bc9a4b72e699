package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (NotifiedSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT launch_id FROM notified_launches ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query notified launches: %w", err)
	}
	defer rows.Close()

	set := NotifiedSet{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan notified launch: %w", err)
		}
		set = append(set, id)
	}
	return set, rows.Err()
}

// Save replaces the table contents with set in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, set NotifiedSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notified_launches`); err != nil {
		return fmt.Errorf("clear notified launches: %w", err)
	}
	for _, id := range set {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO notified_launches(launch_id) VALUES(?)`, id); err != nil {
			return fmt.Errorf("insert notified launch %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

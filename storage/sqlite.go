// storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/CreativeUnicorns/themeprefs"
)

const (
	sqliteCreateTableSQL = `
		CREATE TABLE IF NOT EXISTS theme_preferences (
			key TEXT NOT NULL PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	sqliteUpsertSQL = `
		INSERT INTO theme_preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	sqliteSelectSQL = `
		SELECT value
		FROM theme_preferences
		WHERE key = ?
	`
)

// SQLiteStorage implements the Store interface using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens the SQLite database at dbPath and runs migrations.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping database: %w", err)
	}

	// SQLite allows one writer at a time; a single connection keeps upserts serialized.
	db.SetMaxOpenConns(1)

	storage := &SQLiteStorage{db: db}
	if err := storage.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: failed to run migrations: %w", err)
	}

	return storage, nil
}

// migrate runs the necessary database migrations.
func (s *SQLiteStorage) migrate() error {
	_, err := s.db.Exec(sqliteCreateTableSQL)
	return err
}

// Get retrieves the value stored under key.
// It returns themeprefs.ErrNotFound if the key does not exist.
func (s *SQLiteStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, sqliteSelectSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", themeprefs.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: failed to get key '%s': %w", key, err)
	}
	return value, nil
}

// Set stores or updates the value under key.
func (s *SQLiteStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, sqliteUpsertSQL, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sqlite: failed to set key '%s': %w", key, err)
	}
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

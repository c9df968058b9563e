// storage/postgres.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/CreativeUnicorns/themeprefs"
)

// sqlOpenFunc is a package-level variable that can be overridden for testing.
var sqlOpenFunc = sql.Open

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS theme_preferences (
			key TEXT NOT NULL PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	upsertSQL = `
		INSERT INTO theme_preferences (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET value = $2, updated_at = $3
	`

	selectSQL = `
		SELECT value
		FROM theme_preferences
		WHERE key = $1
	`
)

// PostgresStorage implements the Store interface using PostgreSQL.
type PostgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage connects using connString and runs migrations.
func NewPostgresStorage(connString string) (*PostgresStorage, error) {
	db, err := sqlOpenFunc("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	storage := &PostgresStorage{db: db}
	if err := storage.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: failed to run migrations: %w", err)
	}

	return storage, nil
}

// migrate runs the necessary database migrations.
func (s *PostgresStorage) migrate() error {
	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("postgres: failed to execute create table statement: %w", err)
	}
	return nil
}

// Get retrieves the value stored under key.
// It returns themeprefs.ErrNotFound if the key does not exist.
func (s *PostgresStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, selectSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", themeprefs.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres: failed to scan value for key '%s': %w", key, err)
	}
	return value, nil
}

// Set stores or updates the value under key.
func (s *PostgresStorage) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsertSQL, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("postgres: failed to execute upsert for key '%s': %w", key, err)
	}
	return nil
}

// Close closes the PostgreSQL database connection.
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

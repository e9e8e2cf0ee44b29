package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore implements Store using MySQL, for deployments that already run
// a shared database.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore connects to MySQL and prepares the records table.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	query := `
	CREATE TABLE IF NOT EXISTS session_records (
		record_key VARCHAR(64) PRIMARY KEY,
		record_value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[MySQLStore] Initialized")
	return &MySQLStore{db: db}, nil
}

// Set stores a value under key, replacing any previous value.
func (s *MySQLStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO session_records (record_key, record_value, updated_at)
		VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE
			record_value = VALUES(record_value),
			updated_at = NOW()`

	_, err := s.db.ExecContext(ctx, query, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to set record: %w", err)
	}
	return nil
}

// Get retrieves a value by key.
func (s *MySQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	query := `SELECT record_value FROM session_records WHERE record_key = ?`

	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return []byte(value), nil
}

// Delete removes a value by key.
func (s *MySQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_records WHERE record_key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

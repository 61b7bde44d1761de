package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

type Manager struct {
	db *sql.DB
}

// NewManager opens a connection pool to the given Postgres URL and
// verifies it with a ping.
func NewManager(databaseURL string) (*Manager, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// InitSchema creates the reports table when it does not exist yet.
func (m *Manager) InitSchema(ctx context.Context) error {
	schemaSQL, err := os.ReadFile("internal/db/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := m.db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

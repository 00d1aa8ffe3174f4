// Package db persists an audit trail of sessions: when games started and
// the log lines they produced. The server runs fine without it; a failed
// connection at startup simply disables persistence.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL is compiled into the binary at build time.
//
//go:embed schema.sql
var schemaSQL string

// Store is the PostgreSQL-backed session audit store.
type Store struct {
	pool *pgxpool.Pool
}

// Connect initializes the connection pool to PostgreSQL using pgx.
func Connect(connStr string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL for session audit log")
	return &Store{pool: pool}, nil
}

// Close gracefully closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema executes the embedded schema.sql DDL statements.
func (s *Store) InitSchema() error {
	if _, err := s.pool.Exec(context.Background(), schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %w", err)
	}

	log.Println("Session audit schema initialized")
	return nil
}

// SaveSessionStart records a new game with its settings and the starting
// player.
func (s *Store) SaveSessionStart(ctx context.Context, scenario string, expansions int, playerName string) error {
	const insertSQL = `
		INSERT INTO session_starts (scenario, expansions, started_by)
		VALUES ($1, $2, $3);
	`
	if _, err := s.pool.Exec(ctx, insertSQL, scenario, expansions, playerName); err != nil {
		return fmt.Errorf("failed to insert session start: %w", err)
	}
	return nil
}

// SaveLogLine records one broadcast log line.
func (s *Store) SaveLogLine(ctx context.Context, message, colour string) error {
	const insertSQL = `
		INSERT INTO session_logs (message, colour)
		VALUES ($1, $2);
	`
	if _, err := s.pool.Exec(ctx, insertSQL, message, colour); err != nil {
		return fmt.Errorf("failed to insert log line: %w", err)
	}
	return nil
}

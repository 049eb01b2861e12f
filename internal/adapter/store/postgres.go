// Package store persists search analytics in Postgres. The store is an
// optional collaborator: the serving path never waits on it, and the server
// runs without analytics when the database is unreachable.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apexwerks/storefront-core/internal/domain"
)

// PostgresStore handles all relational database operations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection, ensures the schema, and returns a
// store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS search_logs (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			type TEXT NOT NULL,
			result_count INT NOT NULL DEFAULT 0,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			ip TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_logs_query ON search_logs (LOWER(query))`,
		`CREATE INDEX IF NOT EXISTS idx_search_logs_created ON search_logs (created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// WriteSearchLog inserts one analytics record.
func (s *PostgresStore) WriteSearchLog(log *domain.SearchLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO search_logs (id, query, type, result_count, duration_ms, ip, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.db.Exec(query,
		log.ID, log.Query, log.Type, log.ResultCount, log.DurationMs, log.IP, log.CreatedAt,
	); err != nil {
		return fmt.Errorf("write search log: %w", err)
	}
	return nil
}

// TopTerms returns the most frequent search terms over the last 30 days,
// used to pre-warm the result cache at startup.
func (s *PostgresStore) TopTerms(ctx context.Context, limit int) ([]domain.TermCount, error) {
	query := `SELECT LOWER(query) AS term, COUNT(*) AS count
	          FROM search_logs
	          WHERE created_at > NOW() - INTERVAL '30 days'
	          GROUP BY LOWER(query)
	          ORDER BY count DESC, term ASC
	          LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top terms: %w", err)
	}
	defer rows.Close()

	var terms []domain.TermCount
	for rows.Next() {
		var tc domain.TermCount
		if err := rows.Scan(&tc.Term, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, tc)
	}
	return terms, rows.Err()
}

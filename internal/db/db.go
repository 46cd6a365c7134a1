// Package db provides PostgreSQL access for companies, roles, submissions and profiles.
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// counted lists the tables CountRows accepts.
var counted = map[string]bool{
	"profiles":    true,
	"companies":   true,
	"submissions": true,
}

// CountRows returns the exact number of rows in one of the counted tables
func (db *DB) CountRows(ctx context.Context, table string) (int, error) {
	if !counted[table] {
		return 0, fmt.Errorf("cannot count table %q", table)
	}
	var n int
	if err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// MaxPageSize bounds every paginated listing.
const MaxPageSize = 100

// pageSize clamps a requested page size into [1, MaxPageSize]. Out of range
// requests get a full page.
func pageSize(limit int) int {
	if limit < 1 || limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// queryBuilder accumulates WHERE conditions and positional arguments
type queryBuilder struct {
	conditions []string
	args       []any
}

// add appends a condition whose single placeholder is written as ?
func (q *queryBuilder) add(condition string, arg any) {
	q.args = append(q.args, arg)
	q.conditions = append(q.conditions, strings.Replace(condition, "?", fmt.Sprintf("$%d", len(q.args)), 1))
}

// where renders the accumulated conditions, or "" when there are none
func (q *queryBuilder) where() string {
	if len(q.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conditions, " AND ")
}

// next reserves a placeholder for an argument appended after the conditions
func (q *queryBuilder) next(arg any) string {
	q.args = append(q.args, arg)
	return fmt.Sprintf("$%d", len(q.args))
}

// encodeTestCases converts a test case map into a JSONB argument. A nil map is stored as SQL NULL.
func encodeTestCases(tc map[string]bool) (any, error) {
	if tc == nil {
		return nil, nil
	}
	b, err := json.Marshal(tc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal test cases: %w", err)
	}
	return b, nil
}

// decodeTestCases reverses encodeTestCases
func decodeTestCases(raw []byte) (map[string]bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var tc map[string]bool
	if err := json.Unmarshal(raw, &tc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal test cases: %w", err)
	}
	return tc, nil
}

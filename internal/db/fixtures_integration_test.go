//go:build integration

package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// createProfile inserts a profile the way the identity provider's signup hook does.
func (db *DB) createProfile(ctx context.Context, userID uuid.UUID, email string) (*Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, email) VALUES ($1, $2) RETURNING `+profileColumns,
		userID, email,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

// deleteProfile removes a profile and, through cascading keys, its submissions.
func (db *DB) deleteProfile(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// deleteCompany removes a company with its roles and submissions.
func (db *DB) deleteCompany(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return nil
}

// getSubmission reads back a single submission row.
func (db *DB) getSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	var s Submission
	var sc submissionScan
	err := db.pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions s WHERE s.id = $1`,
		id,
	).Scan(sc.targets(&s)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if err := sc.finish(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/assessmentslol/assessments/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Profile Methods
// -----------------------------------------------------------------------------

const profileColumns = `id, user_id, name, email, image, has_access, created_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Email, &p.Image, &p.HasAccess, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfileByUserID retrieves the profile owned by an authenticated user
func (db *DB) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`,
		userID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// UpdateProfile applies the fields present in update to a user's profile and
// returns the updated row, or nil when the user has no profile. A present null
// clears the column.
func (db *DB) UpdateProfile(ctx context.Context, userID uuid.UUID, update types.ProfileUpdateRequest) (*Profile, error) {
	var sets []string
	args := []any{userID}
	if update.Name.Set {
		args = append(args, update.Name.Value)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if update.Image.Set {
		args = append(args, update.Image.Value)
		sets = append(sets, fmt.Sprintf("image = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("no profile fields to update")
	}

	p, err := scanProfile(db.pool.QueryRow(ctx,
		`UPDATE profiles SET `+strings.Join(sets, ", ")+`
		 WHERE user_id = $1
		 RETURNING `+profileColumns,
		args...,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

// -----------------------------------------------------------------------------
// Lead Methods
// -----------------------------------------------------------------------------

// CreateLead records a mailing-list signup. Signing up twice is not an error.
func (db *DB) CreateLead(ctx context.Context, email string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO leads (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`,
		strings.TrimSpace(email),
	)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

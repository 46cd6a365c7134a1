package db

import (
	"context"
	"fmt"

	"github.com/assessmentslol/assessments/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Role Methods
// -----------------------------------------------------------------------------

// ListRolesByCompany returns a company's roles ordered by title
func (db *DB) ListRolesByCompany(ctx context.Context, companyID uuid.UUID) ([]Role, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, company_id, title, role_type, created_at
		 FROM roles WHERE company_id = $1
		 ORDER BY title`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var r Role
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.Title, &r.RoleType, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// GetRole finds a company's role of the given type
func (db *DB) GetRole(ctx context.Context, companyID uuid.UUID, roleType types.RoleType) (*Role, error) {
	var r Role
	err := db.pool.QueryRow(ctx,
		`SELECT id, company_id, title, role_type, created_at
		 FROM roles WHERE company_id = $1 AND role_type = $2`,
		companyID, string(roleType),
	).Scan(&r.ID, &r.CompanyID, &r.Title, &r.RoleType, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return &r, nil
}

// FindOrCreateRole returns the company's role of the given type, creating it
// with the role type as its title when it does not exist yet. Concurrent
// callers converge on the same row through the (company_id, role_type) unique index.
func (db *DB) FindOrCreateRole(ctx context.Context, companyID uuid.UUID, roleType types.RoleType) (*Role, error) {
	role, err := db.GetRole(ctx, companyID, roleType)
	if err != nil {
		return nil, err
	}
	if role != nil {
		return role, nil
	}

	var r Role
	err = db.pool.QueryRow(ctx,
		`INSERT INTO roles (company_id, title, role_type)
		 VALUES ($1, $2, $2)
		 ON CONFLICT (company_id, role_type) DO UPDATE SET role_type = EXCLUDED.role_type
		 RETURNING id, company_id, title, role_type, created_at`,
		companyID, string(roleType),
	).Scan(&r.ID, &r.CompanyID, &r.Title, &r.RoleType, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return &r, nil
}

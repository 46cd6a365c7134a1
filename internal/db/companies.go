package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Company Methods
// -----------------------------------------------------------------------------

// CompanyActivity is one submission's contribution to a company listing summary
type CompanyActivity struct {
	CompanyID uuid.UUID
	Score     *int
	CreatedAt time.Time
}

// GetCompanyByID retrieves a company by its UUID
func (db *DB) GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var c Company
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, icon, link, created_at
		 FROM companies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Icon, &c.Link, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

// companySubmissionConditions builds the submission-side conditions of a
// company listing. Only companies with at least one matching submission are listed.
func companySubmissionConditions(filter CompanyFilter) *queryBuilder {
	q := &queryBuilder{}
	q.conditions = append(q.conditions, "s.company_id = c.id")
	if filter.RoleType != "" {
		q.add("r.role_type = ?", string(filter.RoleType))
	}
	if filter.Platform != "" {
		q.add("s.platform = ?", string(filter.Platform))
	}
	if filter.Since != nil {
		q.add("s.created_at >= ?", *filter.Since)
	}
	return q
}

// escapeLike escapes LIKE wildcards so search text matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ListCompanies returns one page of companies with matching submissions,
// ordered by name, along with the total number of matching companies. The page
// size is clamped to [1, MaxPageSize].
func (db *DB) ListCompanies(ctx context.Context, filter CompanyFilter) ([]Company, int, error) {
	q := companySubmissionConditions(filter)
	exists := fmt.Sprintf(`EXISTS (
		SELECT 1 FROM submissions s JOIN roles r ON r.id = s.role_id
		WHERE %s)`, strings.Join(q.conditions, " AND "))

	outer := &queryBuilder{args: q.args}
	outer.conditions = append(outer.conditions, exists)
	if filter.Search != "" {
		outer.add("c.name ILIKE ?", "%"+escapeLike(filter.Search)+"%")
	}

	var total int
	if err := db.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM companies c"+outer.where(), outer.args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	query := `SELECT c.id, c.name, c.icon, c.link, c.created_at FROM companies c` + outer.where() +
		" ORDER BY c.name LIMIT " + outer.next(pageSize(filter.Limit))
	if filter.Offset > 0 {
		query += " OFFSET " + outer.next(filter.Offset)
	}

	rows, err := db.pool.Query(ctx, query, outer.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Link, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, total, nil
}

// ListCompanyActivity returns the submissions matching filter for the given
// companies. Search, limit and offset are ignored.
func (db *DB) ListCompanyActivity(ctx context.Context, companyIDs []uuid.UUID, filter CompanyFilter) ([]CompanyActivity, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}

	q := &queryBuilder{}
	q.add("s.company_id = ANY(?)", companyIDs)
	if filter.RoleType != "" {
		q.add("r.role_type = ?", string(filter.RoleType))
	}
	if filter.Platform != "" {
		q.add("s.platform = ?", string(filter.Platform))
	}
	if filter.Since != nil {
		q.add("s.created_at >= ?", *filter.Since)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT s.company_id, s.score, s.created_at
		 FROM submissions s JOIN roles r ON r.id = s.role_id`+q.where(),
		q.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list company activity: %w", err)
	}
	defer rows.Close()

	var activity []CompanyActivity
	for rows.Next() {
		var a CompanyActivity
		if err := rows.Scan(&a.CompanyID, &a.Score, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company activity: %w", err)
		}
		activity = append(activity, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list company activity: %w", err)
	}
	return activity, nil
}

// CreateCompany inserts a company. Companies are added by operators through the
// CLI; the API only reads them.
func (db *DB) CreateCompany(ctx context.Context, name string, icon, link *string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}

	var c Company
	err := db.pool.QueryRow(ctx,
		`INSERT INTO companies (name, icon, link)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, icon, link, created_at`,
		name, icon, link,
	).Scan(&c.ID, &c.Name, &c.Icon, &c.Link, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return &c, nil
}

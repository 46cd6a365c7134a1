package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Submission Methods
// -----------------------------------------------------------------------------

const submissionColumns = `s.id, s.profile_id, s.company_id, s.role_id, s.platform, s.score,
	s.questions_count, s.test_cases, s.status, s.assessment_received, s.assessment_taken,
	s.response_received, s.comments, s.created_at`

// submissionScan collects the nullable columns of a submission row before
// they are converted into a Submission
type submissionScan struct {
	testCases          []byte
	assessmentReceived *time.Time
	assessmentTaken    *time.Time
	responseReceived   *time.Time
}

func (sc *submissionScan) targets(s *Submission) []any {
	return []any{
		&s.ID, &s.ProfileID, &s.CompanyID, &s.RoleID, &s.Platform, &s.Score,
		&s.QuestionsCount, &sc.testCases, &s.Status, &sc.assessmentReceived, &sc.assessmentTaken,
		&sc.responseReceived, &s.Comments, &s.CreatedAt,
	}
}

func (sc *submissionScan) finish(s *Submission) error {
	tc, err := decodeTestCases(sc.testCases)
	if err != nil {
		return err
	}
	s.TestCases = tc
	s.AssessmentReceived = NewDate(sc.assessmentReceived)
	s.AssessmentTaken = NewDate(sc.assessmentTaken)
	s.ResponseReceived = NewDate(sc.responseReceived)
	return nil
}

// CreateSubmission inserts a submission and returns the stored row
func (db *DB) CreateSubmission(ctx context.Context, in NewSubmission) (*Submission, error) {
	testCases, err := encodeTestCases(in.TestCases)
	if err != nil {
		return nil, err
	}

	var s Submission
	var sc submissionScan
	err = db.pool.QueryRow(ctx,
		`INSERT INTO submissions AS s (profile_id, company_id, role_id, platform, score,
			questions_count, test_cases, status, assessment_received, assessment_taken,
			response_received, comments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+submissionColumns,
		in.ProfileID, in.CompanyID, in.RoleID, string(in.Platform), in.Score,
		in.QuestionsCount, testCases, string(in.Status), in.AssessmentReceived, in.AssessmentTaken,
		in.ResponseReceived, in.Comments,
	).Scan(sc.targets(&s)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	if err := sc.finish(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListCompanySubmissions returns a company's submissions with their role,
// newest assessment first. A zero filter returns every submission.
func (db *DB) ListCompanySubmissions(ctx context.Context, companyID uuid.UUID, filter SubmissionFilter) ([]Submission, error) {
	q := &queryBuilder{}
	q.add("s.company_id = ?", companyID)
	if filter.RoleType != "" {
		q.add("r.role_type = ?", string(filter.RoleType))
	}
	if filter.Platform != "" {
		q.add("s.platform = ?", string(filter.Platform))
	}
	if filter.Status != "" {
		q.add("s.status = ?", string(filter.Status))
	}
	if filter.StartDate != nil {
		q.add("s.assessment_received >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q.add("s.assessment_received <= ?", *filter.EndDate)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+submissionColumns+`, r.title, r.role_type
		 FROM submissions s JOIN roles r ON r.id = s.role_id`+q.where()+`
		 ORDER BY s.assessment_received DESC NULLS LAST, s.created_at DESC`,
		q.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list company submissions: %w", err)
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		var s Submission
		var sc submissionScan
		var role RoleRef
		if err := rows.Scan(append(sc.targets(&s), &role.Title, &role.RoleType)...); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		if err := sc.finish(&s); err != nil {
			return nil, err
		}
		s.Role = &role
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list company submissions: %w", err)
	}
	return submissions, nil
}

// submissionWithRelations selects submission columns followed by the company
// name and icon and the role title and type.
const submissionWithRelations = `SELECT ` + submissionColumns + `, c.name, c.icon, r.title, r.role_type
	FROM submissions s
	JOIN companies c ON c.id = s.company_id
	JOIN roles r ON r.id = s.role_id`

// ListSubmissions returns one page of submissions with their company and role,
// newest first, along with the total count. A nil profileID lists every
// profile's submissions. The page size is clamped to [1, MaxPageSize].
func (db *DB) ListSubmissions(ctx context.Context, profileID *uuid.UUID, limit, offset int) ([]Submission, int, error) {
	q := &queryBuilder{}
	if profileID != nil {
		q.add("s.profile_id = ?", *profileID)
	}

	var total int
	if err := db.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM submissions s"+q.where(), q.args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := submissionWithRelations + q.where() + " ORDER BY s.created_at DESC LIMIT " + q.next(pageSize(limit))
	if offset > 0 {
		query += " OFFSET " + q.next(offset)
	}

	submissions, err := db.querySubmissionsWithRelations(ctx, query, q.args...)
	if err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

// ListProfileSubmissions returns every submission of one profile with its
// company and role, newest first. It backs the personal statistics.
func (db *DB) ListProfileSubmissions(ctx context.Context, profileID uuid.UUID) ([]Submission, error) {
	return db.querySubmissionsWithRelations(ctx,
		submissionWithRelations+" WHERE s.profile_id = $1 ORDER BY s.created_at DESC",
		profileID,
	)
}

func (db *DB) querySubmissionsWithRelations(ctx context.Context, query string, args ...any) ([]Submission, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		var s Submission
		var sc submissionScan
		var company CompanyRef
		var role RoleRef
		targets := append(sc.targets(&s), &company.Name, &company.Icon, &role.Title, &role.RoleType)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		if err := sc.finish(&s); err != nil {
			return nil, err
		}
		s.Company = &company
		s.Role = &role
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

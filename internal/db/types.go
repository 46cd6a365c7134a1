package db

import (
	"encoding/json"
	"time"

	"github.com/assessmentslol/assessments/internal/stats"
	"github.com/assessmentslol/assessments/internal/types"
	"github.com/google/uuid"
)

// Company represents a company that candidates report assessments for
type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Icon      *string   `json:"icon"`
	Link      *string   `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

// Role is a role type offered by a company. Roles are created lazily on the
// first submission that names them.
type Role struct {
	ID        uuid.UUID      `json:"id"`
	CompanyID uuid.UUID      `json:"company_id"`
	Title     string         `json:"title"`
	RoleType  types.RoleType `json:"role_type"`
	CreatedAt time.Time      `json:"created_at"`
}

// RoleRef is the role relation joined onto a submission row
type RoleRef struct {
	Title    string         `json:"title"`
	RoleType types.RoleType `json:"role_type"`
}

// CompanyRef is the company relation joined onto a submission row
type CompanyRef struct {
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

// Submission is one reported assessment outcome
type Submission struct {
	ID                 uuid.UUID              `json:"id"`
	ProfileID          uuid.UUID              `json:"profile_id"`
	CompanyID          uuid.UUID              `json:"company_id"`
	RoleID             uuid.UUID              `json:"role_id"`
	Platform           types.Platform         `json:"platform"`
	Score              *int                   `json:"score"`
	QuestionsCount     *int                   `json:"questions_count"`
	TestCases          map[string]bool        `json:"test_cases"`
	Status             types.SubmissionStatus `json:"status"`
	AssessmentReceived *Date                  `json:"assessment_received"`
	AssessmentTaken    *Date                  `json:"assessment_taken"`
	ResponseReceived   *Date                  `json:"response_received"`
	Comments           *string                `json:"comments"`
	CreatedAt          time.Time              `json:"created_at"`

	// Populated only by queries that join the relation.
	Role    *RoleRef    `json:"-"`
	Company *CompanyRef `json:"-"`
}

// Record reduces the submission to the fields the aggregations read.
func (s Submission) Record() stats.Record {
	rec := stats.Record{
		Platform:       s.Platform,
		Score:          s.Score,
		QuestionsCount: s.QuestionsCount,
		TestCases:      s.TestCases,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
	}
	if s.Role != nil {
		rec.RoleType = s.Role.RoleType
	}
	return rec
}

// Records converts submissions for the stats package.
func Records(subs []Submission) []stats.Record {
	records := make([]stats.Record, len(subs))
	for i, s := range subs {
		records[i] = s.Record()
	}
	return records
}

// NewSubmission holds the columns written when a submission is created
type NewSubmission struct {
	ProfileID          uuid.UUID
	CompanyID          uuid.UUID
	RoleID             uuid.UUID
	Platform           types.Platform
	Score              *int
	QuestionsCount     *int
	TestCases          map[string]bool
	Status             types.SubmissionStatus
	AssessmentReceived *time.Time
	AssessmentTaken    *time.Time
	ResponseReceived   *time.Time
	Comments           *string
}

// Profile is the application profile of an authenticated user
type Profile struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Image     *string   `json:"image"`
	HasAccess bool      `json:"has_access"`
	CreatedAt time.Time `json:"created_at"`
}

// Lead is a mailing-list signup
type Lead struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyFilter narrows the company listing
type CompanyFilter struct {
	Search   string
	RoleType types.RoleType
	Platform types.Platform
	Since    *time.Time
	Limit    int
	Offset   int
}

// SubmissionFilter narrows a company's submission listing
type SubmissionFilter struct {
	RoleType  types.RoleType
	Platform  types.Platform
	Status    types.SubmissionStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// Date is a calendar date rendered as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate wraps t, returning nil for a nil t
func NewDate(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	return &Date{Time: *t}
}

// String renders the date as YYYY-MM-DD
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MarshalJSON implements json.Marshaler
func (d *Date) MarshalJSON() ([]byte, error) {
	if d == nil || d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" || str == `""` {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

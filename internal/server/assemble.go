package server

import (
	"time"

	"github.com/assessmentslol/assessments/internal/db"
	"github.com/assessmentslol/assessments/internal/stats"
	"github.com/assessmentslol/assessments/internal/types"
	"github.com/google/uuid"
)

// companyListItem is one entry of GET /companies
type companyListItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Icon *string   `json:"icon"`
	Link *string   `json:"link"`
	stats.CompanySummary
}

// companyListItems attaches each company's activity summary.
func companyListItems(companies []db.Company, activity []db.CompanyActivity) []companyListItem {
	byCompany := make(map[uuid.UUID][]stats.Record, len(companies))
	for _, a := range activity {
		byCompany[a.CompanyID] = append(byCompany[a.CompanyID], stats.Record{
			Score:     a.Score,
			CreatedAt: a.CreatedAt,
		})
	}

	items := make([]companyListItem, 0, len(companies))
	for _, c := range companies {
		items = append(items, companyListItem{
			ID:             c.ID,
			Name:           c.Name,
			Icon:           c.Icon,
			Link:           c.Link,
			CompanySummary: stats.Summarize(byCompany[c.ID]),
		})
	}
	return items
}

// companyDetail is the body of GET /companies/{id}
type companyDetail struct {
	ID    uuid.UUID                `json:"id"`
	Name  string                   `json:"name"`
	Icon  *string                  `json:"icon"`
	Link  *string                  `json:"link"`
	Stats stats.CompanyDetailStats `json:"stats"`
}

func newCompanyDetail(c *db.Company, subs []db.Submission) companyDetail {
	return companyDetail{
		ID:    c.ID,
		Name:  c.Name,
		Icon:  c.Icon,
		Link:  c.Link,
		Stats: stats.CompanyDetail(db.Records(subs)),
	}
}

// roleItem is one entry of GET /companies/{id}/roles
type roleItem struct {
	ID       uuid.UUID      `json:"id"`
	Title    string         `json:"title"`
	RoleType types.RoleType `json:"role_type"`
}

func roleItems(roles []db.Role) []roleItem {
	items := make([]roleItem, 0, len(roles))
	for _, r := range roles {
		items = append(items, roleItem{ID: r.ID, Title: r.Title, RoleType: r.RoleType})
	}
	return items
}

// submissionFields are the submission columns shared by every listing.
type submissionFields struct {
	ID                 uuid.UUID              `json:"id"`
	Platform           types.Platform         `json:"platform"`
	Score              *int                   `json:"score"`
	QuestionsCount     *int                   `json:"questions_count"`
	TestCases          map[string]bool        `json:"test_cases"`
	Status             types.SubmissionStatus `json:"status"`
	AssessmentReceived *db.Date               `json:"assessment_received"`
	AssessmentTaken    *db.Date               `json:"assessment_taken"`
	ResponseReceived   *db.Date               `json:"response_received"`
	Comments           *string                `json:"comments"`
}

func newSubmissionFields(s db.Submission) submissionFields {
	return submissionFields{
		ID:                 s.ID,
		Platform:           s.Platform,
		Score:              s.Score,
		QuestionsCount:     s.QuestionsCount,
		TestCases:          s.TestCases,
		Status:             s.Status,
		AssessmentReceived: s.AssessmentReceived,
		AssessmentTaken:    s.AssessmentTaken,
		ResponseReceived:   s.ResponseReceived,
		Comments:           s.Comments,
	}
}

// submissionRole is the flattened role of a company submission listing
type submissionRole struct {
	Title string         `json:"title"`
	Type  types.RoleType `json:"type"`
}

// companySubmission is one entry of GET /companies/{id}/submissions
type companySubmission struct {
	submissionFields
	Role submissionRole `json:"role"`
}

func companySubmissions(subs []db.Submission) []companySubmission {
	items := make([]companySubmission, 0, len(subs))
	for _, s := range subs {
		item := companySubmission{submissionFields: newSubmissionFields(s)}
		if s.Role != nil {
			item.Role = submissionRole{Title: s.Role.Title, Type: s.Role.RoleType}
		}
		items = append(items, item)
	}
	return items
}

// recentSubmission is a dashboard entry with its company and role relations
type recentSubmission struct {
	submissionFields
	Companies *db.CompanyRef `json:"companies"`
	Roles     *db.RoleRef    `json:"roles"`
}

func recentSubmissions(subs []db.Submission) []recentSubmission {
	items := make([]recentSubmission, 0, len(subs))
	for _, s := range subs {
		items = append(items, recentSubmission{
			submissionFields: newSubmissionFields(s),
			Companies:        s.Company,
			Roles:            s.Role,
		})
	}
	return items
}

// submissionRow is one entry of GET /submissions: every column plus relations
type submissionRow struct {
	submissionFields
	ProfileID uuid.UUID      `json:"profile_id"`
	CompanyID uuid.UUID      `json:"company_id"`
	RoleID    uuid.UUID      `json:"role_id"`
	CreatedAt time.Time      `json:"created_at"`
	Companies *db.CompanyRef `json:"companies"`
	Roles     *db.RoleRef    `json:"roles"`
}

func submissionRows(subs []db.Submission) []submissionRow {
	items := make([]submissionRow, 0, len(subs))
	for _, s := range subs {
		items = append(items, submissionRow{
			submissionFields: newSubmissionFields(s),
			ProfileID:        s.ProfileID,
			CompanyID:        s.CompanyID,
			RoleID:           s.RoleID,
			CreatedAt:        s.CreatedAt,
			Companies:        s.Company,
			Roles:            s.Role,
		})
	}
	return items
}

// globalStats are site-wide row counts shown on the dashboard
type globalStats struct {
	TotalUsers       int `json:"totalUsers"`
	TotalCompanies   int `json:"totalCompanies"`
	TotalSubmissions int `json:"totalSubmissions"`
}

// dashboard is the body of GET /stats/dashboard
type dashboard struct {
	RecentSubmissions []recentSubmission  `json:"recentSubmissions"`
	PersonalStats     stats.PersonalStats `json:"personalStats"`
	GlobalStats       globalStats         `json:"globalStats"`
}

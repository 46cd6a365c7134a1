package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/assessmentslol/assessments/internal/db"
	"github.com/assessmentslol/assessments/internal/validation"
	"github.com/google/uuid"
)

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// defaultPageSize is the page size of listings that are not given a limit.
const defaultPageSize = 10

// parseLimit parses the limit query parameter, capped at db.MaxPageSize.
// Missing, malformed and non-positive values get the default page size.
func parseLimit(r *http.Request) int {
	limit := parseQueryInt(r, "limit", defaultPageSize, db.MaxPageSize)
	if limit < 1 {
		return defaultPageSize
	}
	return limit
}

// parseTimeframe converts a timeframe in days into the earliest matching
// creation time. An empty value means no lower bound.
func parseTimeframe(value string, now time.Time) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	days, err := strconv.Atoi(value)
	if err != nil || days < 0 {
		return nil, &validation.InvalidParameterError{Field: "timeframe"}
	}
	since := now.AddDate(0, 0, -days)
	return &since, nil
}

// companyIDFromPath parses the {id} path value. A value that is not a UUID
// cannot name a company, so it is reported as not found.
func companyIDFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrNotFound{Resource: "Company"}
	}
	return id, nil
}

// requireCompany loads the company named by the path or fails with not found.
func (s *Server) requireCompany(r *http.Request, op string) (*db.Company, error) {
	id, err := companyIDFromPath(r)
	if err != nil {
		return nil, err
	}
	company, err := s.store.GetCompanyByID(r.Context(), id)
	if err != nil {
		return nil, upstream(op, err)
	}
	if company == nil {
		return nil, &ErrNotFound{Resource: "Company"}
	}
	return company, nil
}

// handleListCompanies lists companies with at least one matching submission
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	roleType, err := validation.RoleType(q.Get("roleType"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	platform, err := validation.Platform(q.Get("platform"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	since, err := parseTimeframe(q.Get("timeframe"), time.Now())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	filter := db.CompanyFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		RoleType: roleType,
		Platform: platform,
		Since:    since,
		Limit:    parseLimit(r),
		Offset:   parseQueryInt(r, "offset", 0, 0),
	}

	companies, total, err := s.store.ListCompanies(r.Context(), filter)
	if err != nil {
		s.fail(w, r, upstream("Failed to fetch companies", err))
		return
	}

	ids := make([]uuid.UUID, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}
	var activity []db.CompanyActivity
	if len(ids) > 0 {
		activity, err = s.store.ListCompanyActivity(r.Context(), ids, filter)
		if err != nil {
			s.fail(w, r, upstream("Failed to fetch companies", err))
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"companies": companyListItems(companies, activity),
		"total":     total,
	})
}

// handleGetCompany returns a company with its aggregate statistics
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := s.requireCompany(r, "Failed to fetch company")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	subs, err := s.store.ListCompanySubmissions(r.Context(), company.ID, db.SubmissionFilter{})
	if err != nil {
		s.fail(w, r, upstream("Failed to fetch company statistics", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, newCompanyDetail(company, subs))
}

// handleListCompanyRoles lists a company's roles ordered by title
func (s *Server) handleListCompanyRoles(w http.ResponseWriter, r *http.Request) {
	company, err := s.requireCompany(r, "Failed to fetch company")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	roles, err := s.store.ListRolesByCompany(r.Context(), company.ID)
	if err != nil {
		s.fail(w, r, upstream("Failed to fetch roles", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"roles": roleItems(roles)})
}

// handleListCompanySubmissions lists a company's submissions, newest assessment first
func (s *Server) handleListCompanySubmissions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSubmissionFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	company, err := s.requireCompany(r, "Failed to fetch company")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	subs, err := s.store.ListCompanySubmissions(r.Context(), company.ID, filter)
	if err != nil {
		s.fail(w, r, upstream("Failed to fetch submissions", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"submissions": companySubmissions(subs),
		"total":       len(subs),
	})
}

// parseSubmissionFilter validates the company submission listing filters in
// the order roleType, platform, status, startDate, endDate.
func parseSubmissionFilter(r *http.Request) (db.SubmissionFilter, error) {
	q := r.URL.Query()
	var (
		filter db.SubmissionFilter
		err    error
	)
	if filter.RoleType, err = validation.RoleType(q.Get("roleType")); err != nil {
		return filter, err
	}
	if filter.Platform, err = validation.Platform(q.Get("platform")); err != nil {
		return filter, err
	}
	if filter.Status, err = validation.Status(q.Get("status")); err != nil {
		return filter, err
	}
	if filter.StartDate, err = validation.Date("startDate", q.Get("startDate")); err != nil {
		return filter, err
	}
	if filter.EndDate, err = validation.Date("endDate", q.Get("endDate")); err != nil {
		return filter, err
	}
	return filter, nil
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/assessmentslol/assessments/internal/db"
	"github.com/assessmentslol/assessments/internal/schemas"
	"github.com/assessmentslol/assessments/internal/server/middleware"
	"github.com/assessmentslol/assessments/internal/stats"
	"github.com/assessmentslol/assessments/internal/types"
	"github.com/assessmentslol/assessments/internal/validation"
	"github.com/google/uuid"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

var errForeignProfile = &ErrForbidden{Message: "Unauthorized access to profile"}

// readJSONBody reads a request body and checks that it is JSON.
func readJSONBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrBadRequest{Message: "Invalid request body"}
	}
	if !json.Valid(body) {
		return nil, &ErrBadRequest{Message: "Invalid request body"}
	}
	return body, nil
}

// schemaError converts a body schema failure into the error reported to clients.
func schemaError(err error) error {
	var ve *schemas.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	if field := ve.Field(); field != "body" {
		return &validation.InvalidParameterError{Field: field}
	}
	return &ErrBadRequest{Message: "Invalid request body"}
}

// handleListSubmissions lists submissions newest first, optionally only the caller's own
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)
	offset := parseQueryInt(r, "offset", 0, 0)

	var profileID *uuid.UUID
	if raw := r.URL.Query().Get("profileId"); raw != "" {
		id, err := s.ownedProfileID(r, raw)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		profileID = &id
	}

	subs, total, err := s.store.ListSubmissions(r.Context(), profileID, limit, offset)
	if err != nil {
		s.fail(w, r, upstream("Failed to fetch submissions", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"submissions": submissionRows(subs),
		"total":       total,
	})
}

// ownedProfileID parses a profileId filter and checks it names the caller's profile.
func (s *Server) ownedProfileID(r *http.Request, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errForeignProfile
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil, &ErrUnauthorized{}
	}
	profile, err := s.store.GetProfileByUserID(r.Context(), userID)
	if err != nil {
		return uuid.Nil, upstream("Failed to fetch profile", err)
	}
	if profile == nil || profile.ID != id {
		return uuid.Nil, errForeignProfile
	}
	return id, nil
}

// handleCreateSubmission records a submission for the caller, creating the
// company's role for the submitted role type on first use.
func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := schemas.SubmissionRequest(body); err != nil {
		s.fail(w, r, schemaError(err))
		return
	}

	var req types.SubmissionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(w, r, &ErrBadRequest{Message: "Invalid request body"})
		return
	}
	if err := validation.Submission(&req); err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := newSubmissionInput(&req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	profile, err := s.requireProfile(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	in.ProfileID = profile.ID

	company, err := s.store.GetCompanyByID(r.Context(), in.CompanyID)
	if err != nil {
		s.fail(w, r, upstream("Failed to fetch company", err))
		return
	}
	if company == nil {
		s.fail(w, r, &ErrNotFound{Resource: "Company"})
		return
	}

	role, err := s.store.FindOrCreateRole(r.Context(), company.ID, req.RoleType)
	if err != nil {
		s.fail(w, r, upstream("Failed to create role", err))
		return
	}
	in.RoleID = role.ID

	created, err := s.store.CreateSubmission(r.Context(), in)
	if err != nil {
		s.fail(w, r, upstream("Failed to create submission", err))
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

// newSubmissionInput converts a validated request into store columns. Scores
// and question counts apply only to their own platform.
func newSubmissionInput(req *types.SubmissionRequest) (db.NewSubmission, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return db.NewSubmission{}, &validation.InvalidParameterError{Field: "companyId"}
	}

	in := db.NewSubmission{
		CompanyID: companyID,
		Platform:  req.Platform,
		Status:    req.Status,
		Comments:  req.Comments,
	}
	switch req.Platform {
	case types.PlatformCodeSignal:
		in.Score = floatToInt(req.Score)
	case types.PlatformHackerRank:
		in.QuestionsCount = floatToInt(req.QuestionsCount)
		in.TestCases = req.TestCases
	}

	dates := []struct {
		field string
		value string
		dest  **time.Time
	}{
		{"assessmentReceived", req.AssessmentReceived, &in.AssessmentReceived},
		{"assessmentTaken", req.AssessmentTaken, &in.AssessmentTaken},
		{"responseReceived", req.ResponseReceived, &in.ResponseReceived},
	}
	for _, d := range dates {
		t, err := validation.Date(d.field, d.value)
		if err != nil {
			return db.NewSubmission{}, err
		}
		*d.dest = t
	}
	return in, nil
}

func floatToInt(v *float64) *int {
	if v == nil {
		return nil
	}
	n := int(math.Round(*v))
	return &n
}

// handleSubmissionStats returns statistics over the caller's submissions
func (s *Server) handleSubmissionStats(w http.ResponseWriter, r *http.Request) {
	profile, err := s.requireProfile(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	subs, err := s.store.ListProfileSubmissions(r.Context(), profile.ID)
	if err != nil {
		s.fail(w, r, upstream("Failed to fetch submission statistics", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, stats.Personal(db.Records(subs)))
}

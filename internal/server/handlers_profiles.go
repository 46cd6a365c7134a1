package server

import (
	"encoding/json"
	"net/http"

	"github.com/assessmentslol/assessments/internal/schemas"
	"github.com/assessmentslol/assessments/internal/server/middleware"
	"github.com/assessmentslol/assessments/internal/types"
)

// handleGetProfile returns the caller's profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.requireProfile(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleUpdateProfile sets or clears the caller's name and image
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.fail(w, r, &ErrUnauthorized{})
		return
	}

	body, err := readJSONBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := schemas.ProfileUpdate(body); err != nil {
		s.fail(w, r, schemaError(err))
		return
	}

	var req types.ProfileUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(w, r, &ErrBadRequest{Message: "Invalid request body"})
		return
	}
	if req.Empty() {
		s.fail(w, r, &ErrBadRequest{Message: "No valid fields to update"})
		return
	}

	profile, err := s.store.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		s.fail(w, r, upstream("Failed to update profile", err))
		return
	}
	if profile == nil {
		s.fail(w, r, &ErrNotFound{Resource: "Profile"})
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

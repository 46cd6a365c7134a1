package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/assessmentslol/assessments/internal/types"
)

// welcomeTimeout bounds a single welcome email delivery.
const welcomeTimeout = 30 * time.Second

// handleCreateLead stores a waitlist signup and sends the welcome email in the background
func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.LeadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(w, r, &ErrBadRequest{Message: "Email is required"})
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		s.fail(w, r, &ErrBadRequest{Message: "Email is required"})
		return
	}

	if err := s.store.CreateLead(r.Context(), email); err != nil {
		s.fail(w, r, upstream("Failed to save lead", err))
		return
	}

	s.sendWelcome(email)
	s.jsonResponse(w, http.StatusOK, struct{}{})
}

// sendWelcome delivers the welcome email without holding up the response.
// Failures are logged.
func (s *Server) sendWelcome(email string) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), welcomeTimeout)
		defer cancel()
		if err := s.mailer.SendWelcome(ctx, email); err != nil {
			log.Printf("[lead] welcome email failed: %v", err)
		}
	}()
}

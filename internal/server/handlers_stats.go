package server

import (
	"net/http"

	"github.com/assessmentslol/assessments/internal/db"
	"github.com/assessmentslol/assessments/internal/server/middleware"
	"github.com/assessmentslol/assessments/internal/stats"
	"golang.org/x/sync/errgroup"
)

// dashboardRecentLimit is how many of the caller's submissions the dashboard shows.
const dashboardRecentLimit = 5

// requireProfile loads the profile of the authenticated caller.
func (s *Server) requireProfile(r *http.Request) (*db.Profile, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil, &ErrUnauthorized{}
	}
	profile, err := s.store.GetProfileByUserID(r.Context(), userID)
	if err != nil {
		return nil, upstream("Failed to fetch profile", err)
	}
	if profile == nil {
		return nil, &ErrNotFound{Resource: "Profile"}
	}
	return profile, nil
}

// handleCompanyStats returns score distributions and success rates for a company
func (s *Server) handleCompanyStats(w http.ResponseWriter, r *http.Request) {
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

	s.jsonResponse(w, http.StatusOK, stats.CompanyDistribution(db.Records(subs)))
}

// handleDashboard returns the caller's recent submissions and statistics
// alongside site-wide totals.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	profile, err := s.requireProfile(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	recent, _, err := s.store.ListSubmissions(r.Context(), &profile.ID, dashboardRecentLimit, 0)
	if err != nil {
		s.fail(w, r, upstream("Failed to fetch recent submissions", err))
		return
	}

	all, err := s.store.ListProfileSubmissions(r.Context(), profile.ID)
	if err != nil {
		s.fail(w, r, upstream("Failed to fetch submission statistics", err))
		return
	}

	global, err := s.globalStats(r)
	if err != nil {
		s.fail(w, r, upstream("Failed to fetch global statistics", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, dashboard{
		RecentSubmissions: recentSubmissions(recent),
		PersonalStats:     stats.Personal(db.Records(all)),
		GlobalStats:       global,
	})
}

// globalStats counts profiles, companies and submissions concurrently.
func (s *Server) globalStats(r *http.Request) (globalStats, error) {
	var out globalStats
	g, ctx := errgroup.WithContext(r.Context())

	counts := []struct {
		table string
		dest  *int
	}{
		{"profiles", &out.TotalUsers},
		{"companies", &out.TotalCompanies},
		{"submissions", &out.TotalSubmissions},
	}
	for _, c := range counts {
		g.Go(func() error {
			n, err := s.store.CountRows(ctx, c.table)
			if err != nil {
				return err
			}
			*c.dest = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return globalStats{}, err
	}
	return out, nil
}

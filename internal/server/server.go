package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/assessmentslol/assessments/internal/config"
	"github.com/assessmentslol/assessments/internal/db"
	"github.com/assessmentslol/assessments/internal/mail"
	"github.com/assessmentslol/assessments/internal/server/middleware"
	"github.com/assessmentslol/assessments/internal/server/ratelimit"
	"github.com/assessmentslol/assessments/internal/types"
	"github.com/google/uuid"
)

// Store is the persistence the handlers need. *db.DB implements it.
type Store interface {
	Ping(ctx context.Context) error
	Close()
	CountRows(ctx context.Context, table string) (int, error)

	GetCompanyByID(ctx context.Context, id uuid.UUID) (*db.Company, error)
	ListCompanies(ctx context.Context, filter db.CompanyFilter) ([]db.Company, int, error)
	ListCompanyActivity(ctx context.Context, companyIDs []uuid.UUID, filter db.CompanyFilter) ([]db.CompanyActivity, error)
	ListRolesByCompany(ctx context.Context, companyID uuid.UUID) ([]db.Role, error)
	FindOrCreateRole(ctx context.Context, companyID uuid.UUID, roleType types.RoleType) (*db.Role, error)

	CreateSubmission(ctx context.Context, in db.NewSubmission) (*db.Submission, error)
	ListCompanySubmissions(ctx context.Context, companyID uuid.UUID, filter db.SubmissionFilter) ([]db.Submission, error)
	ListSubmissions(ctx context.Context, profileID *uuid.UUID, limit, offset int) ([]db.Submission, int, error)
	ListProfileSubmissions(ctx context.Context, profileID uuid.UUID) ([]db.Submission, error)

	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*db.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update types.ProfileUpdateRequest) (*db.Profile, error)
	CreateLead(ctx context.Context, email string) error
}

// Mailer sends the lead welcome email. *mail.Welcomer implements it.
type Mailer interface {
	SendWelcome(ctx context.Context, email string) error
}

var (
	_ Store  = (*db.DB)(nil)
	_ Mailer = (*mail.Welcomer)(nil)
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	mailer      Mailer

	// background tracks fire-and-forget work such as welcome emails.
	background sync.WaitGroup
}

// Options holds server configuration
type Options struct {
	Port              int
	JWT               *config.JWTConfig
	CORSAllowedOrigin string
	// RateLimit defaults to the RATE_LIMIT_* environment configuration.
	RateLimit *ratelimit.Config
	// Mailer defaults to logging welcome emails instead of sending them.
	Mailer Mailer
}

// New creates a new server instance
func New(store Store, opts Options) (*Server, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if opts.JWT == nil {
		return nil, errors.New("JWT configuration is required")
	}

	s := &Server{
		store:      store,
		jwtService: NewJWTService(opts.JWT),
		mailer:     opts.Mailer,
	}
	if s.mailer == nil {
		s.mailer = mail.NewWelcomer(mail.LogSender{})
	}

	rateConfig := opts.RateLimit
	if rateConfig == nil {
		rateConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rateConfig)

	origin := opts.CORSAllowedOrigin
	if origin == "" {
		origin = "*"
	}

	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	authed := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Companies
	mux.HandleFunc("GET /companies", s.handleListCompanies)
	mux.HandleFunc("GET /companies/{id}", s.handleGetCompany)
	mux.HandleFunc("GET /companies/{id}/roles", s.handleListCompanyRoles)
	mux.HandleFunc("GET /companies/{id}/submissions", s.handleListCompanySubmissions)

	// Statistics
	mux.Handle("GET /stats/companies/{id}", authed(s.handleCompanyStats))
	mux.Handle("GET /stats/dashboard", authed(s.handleDashboard))

	// Submissions
	mux.Handle("GET /submissions", authed(s.handleListSubmissions))
	mux.Handle("POST /submissions", authed(s.handleCreateSubmission))
	mux.Handle("GET /submissions/stats", authed(s.handleSubmissionStats))

	// Profiles and leads
	mux.Handle("GET /profiles/me", authed(s.handleGetProfile))
	mux.Handle("PATCH /profiles/me", authed(s.handleUpdateProfile))
	mux.HandleFunc("POST /lead", s.handleCreateLead)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.withRecover(s.withRateLimit(s.withLogging(s.withSecurityHeaders(s.withCORS(origin, mux))))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.background.Wait()
	s.store.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withSecurityHeaders sets the browser hardening headers on every response.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %s %d in %v", r.Method, r.URL.Path, r.RemoteAddr, rec.status, time.Since(start))
	})
}

// withRecover turns handler panics into a 500 response.
func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				if rv == http.ErrAbortHandler {
					panic(rv)
				}
				log.Printf("[panic] %s %s: %v", r.Method, r.URL.Path, rv)
				s.errorResponse(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		log.Printf("[health] database ping failed: %v", err)
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to its status and client message. Upstream failures are
// logged with their detail, which never reaches the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[error] %s %s: %v", r.Method, r.URL.Path, err)
	}
	s.errorResponse(w, status, ErrorMessage(err))
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Reset=%s",
		info.Limit, info.ResetTime.Format(time.RFC3339))

	s.errorResponse(w, http.StatusTooManyRequests, "Too many requests")
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/assessmentslol/assessments/internal/config"
	"github.com/assessmentslol/assessments/internal/db"
	"github.com/assessmentslol/assessments/internal/server/ratelimit"
	"github.com/assessmentslol/assessments/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory Store. Setting fail[method] makes that method
// return the error.
type fakeStore struct {
	mu          sync.Mutex
	companies   map[uuid.UUID]*db.Company
	roles       []*db.Role
	submissions []*db.Submission
	profiles    map[uuid.UUID]*db.Profile // keyed by user ID
	leads       []string
	fail        map[string]error
	clock       time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		companies: make(map[uuid.UUID]*db.Company),
		profiles:  make(map[uuid.UUID]*db.Profile),
		fail:      make(map[string]error),
		clock:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// now returns strictly increasing timestamps so creation order is observable.
func (f *fakeStore) now() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeStore) Ping(context.Context) error {
	return f.fail["Ping"]
}

func (f *fakeStore) Close() {}

func (f *fakeStore) CountRows(_ context.Context, table string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["CountRows"]; err != nil {
		return 0, err
	}
	switch table {
	case "profiles":
		return len(f.profiles), nil
	case "companies":
		return len(f.companies), nil
	case "submissions":
		return len(f.submissions), nil
	}
	return 0, errors.New("unknown table")
}

func (f *fakeStore) GetCompanyByID(_ context.Context, id uuid.UUID) (*db.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["GetCompanyByID"]; err != nil {
		return nil, err
	}
	if c, ok := f.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) roleByID(id uuid.UUID) *db.Role {
	for _, r := range f.roles {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (f *fakeStore) matchesCompanyFilter(s *db.Submission, filter db.CompanyFilter) bool {
	if filter.Platform != "" && s.Platform != filter.Platform {
		return false
	}
	if filter.RoleType != "" {
		if r := f.roleByID(s.RoleID); r == nil || r.RoleType != filter.RoleType {
			return false
		}
	}
	if filter.Since != nil && s.CreatedAt.Before(*filter.Since) {
		return false
	}
	return true
}

func (f *fakeStore) ListCompanies(_ context.Context, filter db.CompanyFilter) ([]db.Company, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["ListCompanies"]; err != nil {
		return nil, 0, err
	}

	var matched []db.Company
	for _, c := range f.companies {
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		for _, s := range f.submissions {
			if s.CompanyID == c.ID && f.matchesCompanyFilter(s, filter) {
				matched = append(matched, *c)
				break
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	start := min(filter.Offset, total)
	end := min(start+fakePageSize(filter.Limit), total)
	return matched[start:end], total, nil
}

func (f *fakeStore) ListCompanyActivity(_ context.Context, ids []uuid.UUID, filter db.CompanyFilter) ([]db.CompanyActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["ListCompanyActivity"]; err != nil {
		return nil, err
	}
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []db.CompanyActivity
	for _, s := range f.submissions {
		if wanted[s.CompanyID] && f.matchesCompanyFilter(s, filter) {
			out = append(out, db.CompanyActivity{CompanyID: s.CompanyID, Score: s.Score, CreatedAt: s.CreatedAt})
		}
	}
	return out, nil
}

func (f *fakeStore) ListRolesByCompany(_ context.Context, companyID uuid.UUID) ([]db.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["ListRolesByCompany"]; err != nil {
		return nil, err
	}
	var out []db.Role
	for _, r := range f.roles {
		if r.CompanyID == companyID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakeStore) FindOrCreateRole(_ context.Context, companyID uuid.UUID, roleType types.RoleType) (*db.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["FindOrCreateRole"]; err != nil {
		return nil, err
	}
	for _, r := range f.roles {
		if r.CompanyID == companyID && r.RoleType == roleType {
			cp := *r
			return &cp, nil
		}
	}
	r := &db.Role{ID: uuid.New(), CompanyID: companyID, Title: string(roleType), RoleType: roleType, CreatedAt: f.now()}
	f.roles = append(f.roles, r)
	cp := *r
	return &cp, nil
}

func (f *fakeStore) CreateSubmission(_ context.Context, in db.NewSubmission) (*db.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["CreateSubmission"]; err != nil {
		return nil, err
	}
	s := &db.Submission{
		ID:                 uuid.New(),
		ProfileID:          in.ProfileID,
		CompanyID:          in.CompanyID,
		RoleID:             in.RoleID,
		Platform:           in.Platform,
		Score:              in.Score,
		QuestionsCount:     in.QuestionsCount,
		TestCases:          in.TestCases,
		Status:             in.Status,
		AssessmentReceived: db.NewDate(in.AssessmentReceived),
		AssessmentTaken:    db.NewDate(in.AssessmentTaken),
		ResponseReceived:   db.NewDate(in.ResponseReceived),
		Comments:           in.Comments,
		CreatedAt:          f.now(),
	}
	f.submissions = append(f.submissions, s)
	cp := *s
	return &cp, nil
}

// withRelations copies s and attaches its joined role and company.
func (f *fakeStore) withRelations(s *db.Submission) db.Submission {
	out := *s
	if r := f.roleByID(s.RoleID); r != nil {
		out.Role = &db.RoleRef{Title: r.Title, RoleType: r.RoleType}
	}
	if c, ok := f.companies[s.CompanyID]; ok {
		out.Company = &db.CompanyRef{Name: c.Name, Icon: c.Icon}
	}
	return out
}

func (f *fakeStore) ListCompanySubmissions(_ context.Context, companyID uuid.UUID, filter db.SubmissionFilter) ([]db.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["ListCompanySubmissions"]; err != nil {
		return nil, err
	}
	var out []db.Submission
	for _, s := range f.submissions {
		if s.CompanyID != companyID {
			continue
		}
		row := f.withRelations(s)
		if filter.RoleType != "" && (row.Role == nil || row.Role.RoleType != filter.RoleType) {
			continue
		}
		if filter.Platform != "" && s.Platform != filter.Platform {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.StartDate != nil && (s.AssessmentReceived == nil || s.AssessmentReceived.Before(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && (s.AssessmentReceived == nil || s.AssessmentReceived.After(*filter.EndDate)) {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].AssessmentReceived, out[j].AssessmentReceived
		switch {
		case a == nil && b == nil:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(b.Time):
			return a.After(b.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStore) ListSubmissions(_ context.Context, profileID *uuid.UUID, limit, offset int) ([]db.Submission, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["ListSubmissions"]; err != nil {
		return nil, 0, err
	}
	var out []db.Submission
	for _, s := range f.submissions {
		if profileID == nil || s.ProfileID == *profileID {
			out = append(out, f.withRelations(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := len(out)
	start := min(offset, total)
	end := min(start+fakePageSize(limit), total)
	return out[start:end], total, nil
}

func (f *fakeStore) ListProfileSubmissions(_ context.Context, profileID uuid.UUID) ([]db.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["ListProfileSubmissions"]; err != nil {
		return nil, err
	}
	var out []db.Submission
	for _, s := range f.submissions {
		if s.ProfileID == profileID {
			out = append(out, f.withRelations(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// fakePageSize clamps page sizes into [1, db.MaxPageSize] like the real store.
func fakePageSize(limit int) int {
	if limit < 1 || limit > db.MaxPageSize {
		return db.MaxPageSize
	}
	return limit
}

func (f *fakeStore) GetProfileByUserID(_ context.Context, userID uuid.UUID) (*db.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["GetProfileByUserID"]; err != nil {
		return nil, err
	}
	if p, ok := f.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, userID uuid.UUID, update types.ProfileUpdateRequest) (*db.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["UpdateProfile"]; err != nil {
		return nil, err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	if update.Name.Set {
		p.Name = update.Name.Value
	}
	if update.Image.Set {
		p.Image = update.Image.Value
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CreateLead(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["CreateLead"]; err != nil {
		return err
	}
	for _, l := range f.leads {
		if l == email {
			return nil
		}
	}
	f.leads = append(f.leads, email)
	return nil
}

// Fixture helpers.

func (f *fakeStore) addCompany(name string) *db.Company {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &db.Company{ID: uuid.New(), Name: name, CreatedAt: f.now()}
	f.companies[c.ID] = c
	return c
}

func (f *fakeStore) addProfile(userID uuid.UUID, email string) *db.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &db.Profile{ID: uuid.New(), UserID: userID, Email: &email, CreatedAt: f.now()}
	f.profiles[userID] = p
	return p
}

// addSubmission stores a submission, creating the role when needed.
func (f *fakeStore) addSubmission(t *testing.T, profile *db.Profile, company *db.Company, roleType types.RoleType, in db.NewSubmission) *db.Submission {
	t.Helper()
	role, err := f.FindOrCreateRole(context.Background(), company.ID, roleType)
	require.NoError(t, err)
	in.ProfileID = profile.ID
	in.CompanyID = company.ID
	in.RoleID = role.ID
	if in.Status == "" {
		in.Status = types.StatusPending
	}
	s, err := f.CreateSubmission(context.Background(), in)
	require.NoError(t, err)
	return s
}

// fakeMailer records welcome emails.
type fakeMailer struct {
	mu     sync.Mutex
	emails []string
	err    error
}

func (m *fakeMailer) SendWelcome(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails = append(m.emails, email)
	return m.err
}

func (m *fakeMailer) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.emails...)
}

type testServer struct {
	*Server
	store  *fakeStore
	mailer *fakeMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithRateLimit(t, &ratelimit.Config{Enabled: false})
}

func newTestServerWithRateLimit(t *testing.T, rl *ratelimit.Config) *testServer {
	t.Helper()
	store := newFakeStore()
	mailer := &fakeMailer{}
	s, err := New(store, Options{
		Port:      8080,
		JWT:       &config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1, Audience: "authenticated"},
		RateLimit: rl,
		Mailer:    mailer,
	})
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return &testServer{Server: s, store: store, mailer: mailer}
}

// tokenFor mints an access token for userID.
func (ts *testServer) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := ts.jwtService.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

// do sends a request through the full middleware chain. A non-string body is
// encoded as JSON.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	decodeJSON(t, w, &resp)
	return resp["error"]
}

func intPtr(i int) *int { return &i }

func timePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

var _ Store = (*fakeStore)(nil)

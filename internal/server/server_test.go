package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/parsing"
	"github.com/jonathan/resume-forge/internal/pipeline"
	"github.com/jonathan/resume-forge/internal/server/ratelimit"
	"github.com/jonathan/resume-forge/internal/types"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	pingErr error

	users    map[uuid.UUID]*types.User
	profiles map[uuid.UUID]*types.Profile
	jds      map[uuid.UUID]*types.JDRecord
	resumes  map[uuid.UUID]*types.ResumeRecord
	sections map[uuid.UUID][]types.ResumeSection
}

func newStoreFake() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*types.User),
		profiles: make(map[uuid.UUID]*types.Profile),
		jds:      make(map[uuid.UUID]*types.JDRecord),
		resumes:  make(map[uuid.UUID]*types.ResumeRecord),
		sections: make(map[uuid.UUID][]types.ResumeSection),
	}
}

func (f *fakeStore) Ping(_ context.Context) error { return f.pingErr }

func (f *fakeStore) CreateUser(_ context.Context, username, email, passwordHash string) (*types.User, error) {
	u := &types.User{ID: uuid.New(), Username: username, Email: email, PasswordHash: passwordHash}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id uuid.UUID) (*types.User, error) {
	return f.users[id], nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*types.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateProfile(_ context.Context, userID uuid.UUID) (*types.Profile, error) {
	p := &types.Profile{ID: uuid.New(), UserID: userID}
	f.profiles[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetProfile(_ context.Context, id uuid.UUID) (*types.Profile, error) {
	return f.profiles[id], nil
}

func (f *fakeStore) ListProfileIDsByUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, p := range f.profiles {
		if p.UserID == userID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) DeleteProfile(_ context.Context, id uuid.UUID) error {
	delete(f.profiles, id)
	return nil
}

func (f *fakeStore) UpsertPersonalInfo(_ context.Context, profileID uuid.UUID, fullName, email, phone string) (*types.PersonalInfo, error) {
	pi := &types.PersonalInfo{ID: uuid.New(), ProfileID: profileID, FullName: fullName, Email: email, PhoneNumber: phone}
	if p := f.profiles[profileID]; p != nil {
		p.PersonalInfo = pi
	}
	return pi, nil
}

func (f *fakeStore) AddEducation(_ context.Context, profileID uuid.UUID, e types.Education) (*types.Education, error) {
	e.ID, e.ProfileID = uuid.New(), profileID
	return &e, nil
}

func (f *fakeStore) AddSkill(_ context.Context, profileID uuid.UUID, name, category string) (*types.Skill, error) {
	return &types.Skill{ID: uuid.New(), ProfileID: profileID, Name: name, Category: category}, nil
}

func (f *fakeStore) AddExperience(_ context.Context, profileID uuid.UUID, exp types.Experience) (*types.Experience, error) {
	exp.ID, exp.ProfileID = uuid.New(), profileID
	return &exp, nil
}

func (f *fakeStore) AddProject(_ context.Context, profileID uuid.UUID, proj types.Project) (*types.Project, error) {
	proj.ID, proj.ProfileID = uuid.New(), profileID
	return &proj, nil
}

func (f *fakeStore) AddCertification(_ context.Context, profileID uuid.UUID, c types.Certification) (*types.Certification, error) {
	c.ID, c.ProfileID = uuid.New(), profileID
	return &c, nil
}

func (f *fakeStore) AddAchievement(_ context.Context, profileID uuid.UUID, a types.Achievement) (*types.Achievement, error) {
	a.ID, a.ProfileID = uuid.New(), profileID
	return &a, nil
}

func (f *fakeStore) AddExternalProfile(_ context.Context, profileID uuid.UUID, platform, url string) (*types.ExternalProfile, error) {
	return &types.ExternalProfile{ID: uuid.New(), ProfileID: profileID, Platform: platform, ProfileURL: url}, nil
}

func (f *fakeStore) CreateJDAnalysis(_ context.Context, rawText string, data *types.JDData) (*types.JDRecord, error) {
	rec := &types.JDRecord{ID: uuid.New(), RawText: rawText, StructuredData: data}
	f.jds[rec.ID] = rec
	return rec, nil
}

func (f *fakeStore) GetJDAnalysis(_ context.Context, id uuid.UUID) (*types.JDRecord, error) {
	return f.jds[id], nil
}

func (f *fakeStore) ListResumesByProfile(_ context.Context, profileID uuid.UUID) ([]types.ResumeSummary, error) {
	var out []types.ResumeSummary
	for _, r := range f.resumes {
		if r.ProfileID == profileID {
			out = append(out, types.ResumeSummary{
				ID: r.ID, ProfileID: r.ProfileID, JobTitle: r.JobTitle,
				Version: r.Version, FilePath: r.FilePath,
			})
		}
	}
	return out, nil
}

func (f *fakeStore) GetResume(_ context.Context, id uuid.UUID) (*types.ResumeRecord, error) {
	return f.resumes[id], nil
}

func (f *fakeStore) GetResumeSections(_ context.Context, resumeID uuid.UUID) ([]types.ResumeSection, error) {
	return f.sections[resumeID], nil
}

// fakeGenerator returns a canned result or error.
type fakeGenerator struct {
	result *pipeline.Result
	err    error
	events []pipeline.ProgressEvent
}

func (g *fakeGenerator) Generate(_ context.Context, _ uuid.UUID, _ string, progress pipeline.ProgressFunc) (*pipeline.Result, error) {
	if progress != nil {
		for _, ev := range g.events {
			progress(ev)
		}
	}
	return g.result, g.err
}

func jsonBody(s string) io.Reader { return strings.NewReader(s) }

// newTestServer builds a Server wired to fakes; no database, no network.
func newTestServer(t *testing.T, store Store, gen Generator) *Server {
	t.Helper()
	s := &Server{
		store:      store,
		cfg:        config.Load(),
		generator:  gen,
		analyzer:   parsing.NewAnalyzer(nil),
		validate:   validator.New(),
		jwtService: NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}),
	}
	s.userService = NewUserService(store, &config.PasswordConfig{BcryptCost: 10})
	s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, newStoreFake(), nil)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleHealth_DatabaseDown(t *testing.T) {
	store := newStoreFake()
	store.pingErr = context.DeadlineExceeded
	s := newTestServer(t, store, nil)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, newStoreFake(), nil)
	handler := s.withCORS(s.routes())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/api/resumes/generate", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, newStoreFake(), nil)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-forge/internal/types"
)

func seedUserAndProfile(t *testing.T, store *fakeStore) (*types.User, *types.Profile) {
	t.Helper()
	user, err := store.CreateUser(context.Background(), "ada", "ada@example.com", "hash")
	require.NoError(t, err)
	profile, err := store.CreateProfile(context.Background(), user.ID)
	require.NoError(t, err)
	return user, profile
}

func TestCreateProfile(t *testing.T) {
	store := newStoreFake()
	user, _ := seedUserAndProfile(t, store)
	s := newTestServer(t, store, nil)

	rec := postJSON(t, s, "/api/profiles", fmt.Sprintf(`{"user_id":%q}`, user.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	var profile types.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, user.ID, profile.UserID)
}

func TestCreateProfile_UnknownUser(t *testing.T) {
	s := newTestServer(t, newStoreFake(), nil)

	rec := postJSON(t, s, "/api/profiles", fmt.Sprintf(`{"user_id":%q}`, uuid.NewString()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProfile_BadUserID(t *testing.T) {
	s := newTestServer(t, newStoreFake(), nil)

	rec := postJSON(t, s, "/api/profiles", `{"user_id":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProfile_NotFound(t *testing.T) {
	s := newTestServer(t, newStoreFake(), nil)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/profiles/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProfile(t *testing.T) {
	store := newStoreFake()
	_, profile := seedUserAndProfile(t, store)
	s := newTestServer(t, store, nil)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/profiles/"+profile.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, store.profiles, profile.ID)

	// a second delete finds nothing
	rec = httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/profiles/"+profile.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutPersonalInfo(t *testing.T) {
	store := newStoreFake()
	_, profile := seedUserAndProfile(t, store)
	s := newTestServer(t, store, nil)

	rec := httptest.NewRecorder()
	body := `{"full_name":"Ada Lovelace","email":"ada@example.com","phone_number":"555-0100"}`
	req := httptest.NewRequest("PUT", "/api/profiles/"+profile.ID.String()+"/personal-info",
		jsonBody(body))
	s.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, store.profiles[profile.ID].PersonalInfo)
	assert.Equal(t, "Ada Lovelace", store.profiles[profile.ID].PersonalInfo.FullName)
}

func TestPutPersonalInfo_MissingName(t *testing.T) {
	store := newStoreFake()
	_, profile := seedUserAndProfile(t, store)
	s := newTestServer(t, store, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/profiles/"+profile.ID.String()+"/personal-info",
		jsonBody(`{"email":"ada@example.com"}`))
	s.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddExperience(t *testing.T) {
	store := newStoreFake()
	_, profile := seedUserAndProfile(t, store)
	s := newTestServer(t, store, nil)

	body := `{"company":"TechCorp","role":"Engineer","start_date":"2021-03","bullets":["built services","ran deployments"]}`
	rec := postJSON(t, s, "/api/profiles/"+profile.ID.String()+"/experiences", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var exp types.Experience
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exp))
	assert.Equal(t, "TechCorp", exp.Company)
	assert.Len(t, exp.Bullets, 2)
}

func TestAddExperience_MissingRole(t *testing.T) {
	store := newStoreFake()
	_, profile := seedUserAndProfile(t, store)
	s := newTestServer(t, store, nil)

	rec := postJSON(t, s, "/api/profiles/"+profile.ID.String()+"/experiences", `{"company":"TechCorp"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddSkill(t *testing.T) {
	store := newStoreFake()
	_, profile := seedUserAndProfile(t, store)
	s := newTestServer(t, store, nil)

	rec := postJSON(t, s, "/api/profiles/"+profile.ID.String()+"/skills", `{"skill_name":"Go","skill_category":"languages"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Go")
}

func TestAddProject(t *testing.T) {
	store := newStoreFake()
	_, profile := seedUserAndProfile(t, store)
	s := newTestServer(t, store, nil)

	body := `{"project_title":"Chat App","tech_stack":"Go, Redis","bullets":["shipped v1"]}`
	rec := postJSON(t, s, "/api/profiles/"+profile.ID.String()+"/projects", body)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestAddEducation(t *testing.T) {
	store := newStoreFake()
	_, profile := seedUserAndProfile(t, store)
	s := newTestServer(t, store, nil)

	body := `{"institution":"MIT","degree":"BSc","field_of_study":"CS","start_year":2016,"end_year":2020}`
	rec := postJSON(t, s, "/api/profiles/"+profile.ID.String()+"/education", body)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestAddExternalProfile_BadURL(t *testing.T) {
	store := newStoreFake()
	_, profile := seedUserAndProfile(t, store)
	s := newTestServer(t, store, nil)

	rec := postJSON(t, s, "/api/profiles/"+profile.ID.String()+"/external-profiles", `{"platform":"github","profile_url":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

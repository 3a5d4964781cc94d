package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-forge/internal/types"
)

// CreateProfileRequest is the body for POST /api/profiles.
type CreateProfileRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "user_id must be a UUID")
		return
	}
	userID, _ := uuid.Parse(req.UserID)

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	profile, err := s.store.CreateProfile(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profileID, ok := s.parseProfileID(w, r)
	if !ok {
		return
	}

	profile, err := s.store.GetProfile(r.Context(), profileID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	profileID, ok := s.parseProfileID(w, r)
	if !ok {
		return
	}

	profile, err := s.store.GetProfile(r.Context(), profileID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}

	if err := s.store.DeleteProfile(r.Context(), profileID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// PersonalInfoRequest is the body for PUT /api/profiles/{id}/personal-info.
type PersonalInfoRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

func (s *Server) handlePutPersonalInfo(w http.ResponseWriter, r *http.Request) {
	profileID, ok := s.parseProfileID(w, r)
	if !ok {
		return
	}

	var req PersonalInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "full_name is required and email must be valid")
		return
	}

	info, err := s.store.UpsertPersonalInfo(r.Context(), profileID, req.FullName, req.Email, req.PhoneNumber)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, info)
}

// ExperienceRequest is the body for POST /api/profiles/{id}/experiences.
type ExperienceRequest struct {
	Company   string   `json:"company" validate:"required"`
	Role      string   `json:"role" validate:"required"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
}

func (s *Server) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	profileID, ok := s.parseProfileID(w, r)
	if !ok {
		return
	}

	var req ExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "company and role are required")
		return
	}

	exp := types.Experience{
		Company:   req.Company,
		Role:      req.Role,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	for _, text := range req.Bullets {
		exp.Bullets = append(exp.Bullets, types.ExperienceBullet{Text: text})
	}

	created, err := s.store.AddExperience(r.Context(), profileID, exp)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// ProjectRequest is the body for POST /api/profiles/{id}/projects.
type ProjectRequest struct {
	Title       string   `json:"project_title" validate:"required"`
	Description string   `json:"description,omitempty"`
	TechStack   string   `json:"tech_stack,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	profileID, ok := s.parseProfileID(w, r)
	if !ok {
		return
	}

	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "project_title is required")
		return
	}

	proj := types.Project{
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
	}
	for _, text := range req.Bullets {
		proj.Bullets = append(proj.Bullets, types.ProjectBullet{Text: text})
	}

	created, err := s.store.AddProject(r.Context(), profileID, proj)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// SkillRequest is the body for POST /api/profiles/{id}/skills.
type SkillRequest struct {
	Name     string `json:"skill_name" validate:"required"`
	Category string `json:"skill_category,omitempty"`
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	profileID, ok := s.parseProfileID(w, r)
	if !ok {
		return
	}

	var req SkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "skill_name is required")
		return
	}

	created, err := s.store.AddSkill(r.Context(), profileID, req.Name, req.Category)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// EducationRequest is the body for POST /api/profiles/{id}/education.
type EducationRequest struct {
	Institution  string `json:"institution" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartYear    int    `json:"start_year,omitempty"`
	EndYear      int    `json:"end_year,omitempty"`
	Grade        string `json:"grade,omitempty"`
}

func (s *Server) handleAddEducation(w http.ResponseWriter, r *http.Request) {
	profileID, ok := s.parseProfileID(w, r)
	if !ok {
		return
	}

	var req EducationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "institution and degree are required")
		return
	}

	created, err := s.store.AddEducation(r.Context(), profileID, types.Education{
		Institution:  req.Institution,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		StartYear:    req.StartYear,
		EndYear:      req.EndYear,
		Grade:        req.Grade,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// CertificationRequest is the body for POST /api/profiles/{id}/certifications.
type CertificationRequest struct {
	Name                string `json:"name" validate:"required"`
	IssuingOrganization string `json:"issuing_organization,omitempty"`
	Year                int    `json:"year,omitempty"`
}

func (s *Server) handleAddCertification(w http.ResponseWriter, r *http.Request) {
	profileID, ok := s.parseProfileID(w, r)
	if !ok {
		return
	}

	var req CertificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := s.store.AddCertification(r.Context(), profileID, types.Certification{
		Name:                req.Name,
		IssuingOrganization: req.IssuingOrganization,
		Year:                req.Year,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// AchievementRequest is the body for POST /api/profiles/{id}/achievements.
type AchievementRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

func (s *Server) handleAddAchievement(w http.ResponseWriter, r *http.Request) {
	profileID, ok := s.parseProfileID(w, r)
	if !ok {
		return
	}

	var req AchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	created, err := s.store.AddAchievement(r.Context(), profileID, types.Achievement{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// ExternalProfileRequest is the body for POST /api/profiles/{id}/external-profiles.
type ExternalProfileRequest struct {
	Platform   string `json:"platform" validate:"required"`
	ProfileURL string `json:"profile_url" validate:"required,url"`
}

func (s *Server) handleAddExternalProfile(w http.ResponseWriter, r *http.Request) {
	profileID, ok := s.parseProfileID(w, r)
	if !ok {
		return
	}

	var req ExternalProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "platform and a valid profile_url are required")
		return
	}

	created, err := s.store.AddExternalProfile(r.Context(), profileID, req.Platform, req.ProfileURL)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// parseProfileID pulls the {id} path value; writes the 400 itself.
func (s *Server) parseProfileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile ID")
		return uuid.Nil, false
	}
	return id, true
}

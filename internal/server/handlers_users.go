package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-forge/internal/server/middleware"
)

// LoginOrRegisterRequest is the body for POST /api/users/login-or-register.
type LoginOrRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse is returned on successful login or registration.
type AuthResponse struct {
	User      any       `json:"user"`
	Token     string    `json:"token"`
	ProfileID uuid.UUID `json:"profile_id"`
	Created   bool      `json:"created"`
}

func (s *Server) handleLoginOrRegister(w http.ResponseWriter, r *http.Request) {
	var req LoginOrRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "email must be valid and password at least 8 characters")
		return
	}

	user, profileID, created, err := s.userService.LoginOrRegister(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, AuthResponse{
		User:      user,
		Token:     token,
		ProfileID: profileID,
		Created:   created,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.userService.GetUser(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := s.userService.GetUser(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}

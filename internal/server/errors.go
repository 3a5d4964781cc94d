package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-forge/internal/fetch"
	"github.com/jonathan/resume-forge/internal/parsing"
	"github.com/jonathan/resume-forge/internal/pipeline"
)

// ErrInvalidCredentials indicates a failed login attempt. Deliberately
// generic: it never says whether the email exists.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates the requested user does not exist.
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// writeDomainError maps pipeline and service errors to HTTP responses.
// Unrecognized errors become 500s with a generic message; the detail goes
// to the log, not the client.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var (
		valErr   *parsing.ValidationError
		notFound *pipeline.NotFoundError
		fetchErr *fetch.Error
		badCreds *ErrInvalidCredentials
		noUser   *ErrUserNotFound
		badReq   *ErrValidation
	)
	switch {
	case errors.As(err, &valErr):
		s.errorResponse(w, http.StatusUnprocessableEntity, valErr.Error())
	case errors.As(err, &notFound):
		s.errorResponse(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &fetchErr):
		s.errorResponse(w, http.StatusUnprocessableEntity, fetchErr.Error())
	case errors.As(err, &badCreds):
		s.errorResponse(w, http.StatusUnauthorized, badCreds.Error())
	case errors.As(err, &noUser):
		s.errorResponse(w, http.StatusNotFound, noUser.Error())
	case errors.As(err, &badReq):
		s.errorResponse(w, http.StatusBadRequest, badReq.Error())
	default:
		log.Printf("[server] internal error: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

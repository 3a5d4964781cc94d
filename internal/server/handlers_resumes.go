package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-forge/internal/types"
)

// GenerateRequest is the body for POST /api/resumes/generate.
type GenerateRequest struct {
	ProfileID string `json:"profile_id" validate:"required,uuid"`
	JDText    string `json:"jd_text" validate:"required"`
}

// decodeGenerateRequest parses and validates a generation request body.
func (s *Server) decodeGenerateRequest(r *http.Request) (uuid.UUID, string, error) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return uuid.Nil, "", &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validate.Struct(&req); err != nil {
		return uuid.Nil, "", &ErrValidation{Field: "profile_id/jd_text", Message: "profile_id must be a UUID and jd_text is required"}
	}
	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		return uuid.Nil, "", &ErrValidation{Field: "profile_id", Message: "must be a UUID"}
	}
	return profileID, req.JDText, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	profileID, jdText, err := s.decodeGenerateRequest(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	result, err := s.generator.Generate(r.Context(), profileID, jdText, nil)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, result)
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "profile_id query parameter must be a UUID")
		return
	}

	resumes, err := s.store.ListResumesByProfile(r.Context(), profileID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if resumes == nil {
		resumes = []types.ResumeSummary{}
	}

	s.jsonResponse(w, http.StatusOK, resumes)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	record := s.loadResume(w, r)
	if record == nil {
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleGetResumeSections(w http.ResponseWriter, r *http.Request) {
	record := s.loadResume(w, r)
	if record == nil {
		return
	}

	sections, err := s.store.GetResumeSections(r.Context(), record.ID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if sections == nil {
		sections = []types.ResumeSection{}
	}

	s.jsonResponse(w, http.StatusOK, sections)
}

// Download content types per format.
const (
	contentTypePDF  = "application/pdf"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

func (s *Server) handleDownloadResume(w http.ResponseWriter, r *http.Request) {
	record := s.loadResume(w, r)
	if record == nil {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}
	contentType := ""
	switch format {
	case "pdf":
		contentType = contentTypePDF
	case "docx":
		contentType = contentTypeDOCX
	default:
		s.errorResponse(w, http.StatusBadRequest, "format must be pdf or docx")
		return
	}

	if record.FilePath == "" {
		s.errorResponse(w, http.StatusNotFound, "no rendered file for this resume")
		return
	}

	// The stored path is the preferred artifact; the sibling format lives
	// next to it with the same stem.
	path := strings.TrimSuffix(record.FilePath, filepath.Ext(record.FilePath)) + "." + format
	if _, err := os.Stat(path); err != nil {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("no %s file for this resume", format))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// loadResume parses the path ID and loads the record, writing the error
// response itself. Returns nil when the response is already written.
func (s *Server) loadResume(w http.ResponseWriter, r *http.Request) *types.ResumeRecord {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return nil
	}

	record, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return nil
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return nil
	}
	return record
}

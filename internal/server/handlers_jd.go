package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-forge/internal/fetch"
)

// AnalyzeJDRequest is the body for POST /api/jd/analyze. Exactly one of
// raw_text and url must be set.
type AnalyzeJDRequest struct {
	RawText string `json:"raw_text,omitempty"`
	URL     string `json:"url,omitempty" validate:"omitempty,url"`
}

func (s *Server) handleAnalyzeJD(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeJDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if (req.RawText == "") == (req.URL == "") {
		s.errorResponse(w, http.StatusBadRequest, "Exactly one of raw_text or url is required")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "url must be a valid URL")
		return
	}

	rawText := req.RawText
	if req.URL != "" {
		text, err := fetch.JobDescription(r.Context(), req.URL, nil)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		rawText = text
	}

	jd, err := s.analyzer.Analyze(r.Context(), rawText)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	record, err := s.store.CreateJDAnalysis(r.Context(), rawText, jd)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, record)
}

func (s *Server) handleGetJD(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JD ID")
		return
	}

	record, err := s.store.GetJDAnalysis(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "JD analysis not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

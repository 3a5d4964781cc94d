//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ResumeRecord is the persisted result of one generation run.
type ResumeRecord struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	JDID      uuid.UUID `json:"jd_id,omitempty"`
	JobTitle  string    `json:"job_title"`
	Version   int       `json:"version"`
	FilePath  string    `json:"file_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ResumeSection is one persisted section blob belonging to a resume record.
type ResumeSection struct {
	ID              uuid.UUID       `json:"id"`
	ResumeID        uuid.UUID       `json:"resume_id"`
	SectionType     string          `json:"section_type"`
	Content         json.RawMessage `json:"content"`
	ConfidenceFlags json.RawMessage `json:"confidence_flags,omitempty"`
}

// ResumeSummary is the list/detail view of a stored resume.
type ResumeSummary struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	JobTitle  string    `json:"job_title"`
	Version   int       `json:"version"`
	FilePath  string    `json:"file_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

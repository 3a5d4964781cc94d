// Package types provides type definitions for structured data used throughout the resume-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the root aggregate for a candidate: it owns every section
// entity below it. Deleting a profile deletes everything it contains.
type Profile struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"user_id"`
	PersonalInfo     *PersonalInfo     `json:"personal_info,omitempty"`
	Education        []Education       `json:"education"`
	Skills           []Skill           `json:"skills"`
	Experiences      []Experience      `json:"experiences"`
	Projects         []Project         `json:"projects"`
	Certifications   []Certification   `json:"certifications"`
	Achievements     []Achievement     `json:"achievements"`
	ExternalProfiles []ExternalProfile `json:"external_profiles"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// PersonalInfo holds the candidate's contact block. At most one per profile.
type PersonalInfo struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
}

// Experience represents a single employment entry with its bullet points.
// Dates are "YYYY-MM" strings or the literal "Present"; empty means unknown.
type Experience struct {
	ID        uuid.UUID          `json:"id"`
	ProfileID uuid.UUID          `json:"profile_id"`
	Company   string             `json:"company"`
	Role      string             `json:"role"`
	StartDate string             `json:"start_date,omitempty"`
	EndDate   string             `json:"end_date,omitempty"`
	Bullets   []ExperienceBullet `json:"bullets"`
	// SectionVector is the arithmetic mean of the bullet vectors.
	// Nil until the lazy embedding fill has run.
	SectionVector []float32 `json:"-"`
}

// ExperienceBullet is one achievement line inside an experience entry.
type ExperienceBullet struct {
	ID           uuid.UUID `json:"id"`
	ExperienceID uuid.UUID `json:"experience_id"`
	Text         string    `json:"bullet_text"`
	Vector       []float32 `json:"-"`
}

// Project represents a portfolio project with its bullet points.
type Project struct {
	ID          uuid.UUID       `json:"id"`
	ProfileID   uuid.UUID       `json:"profile_id"`
	Title       string          `json:"project_title"`
	Description string          `json:"description,omitempty"`
	TechStack   string          `json:"tech_stack,omitempty"` // comma-separated
	Bullets     []ProjectBullet `json:"bullets"`
}

// ProjectBullet is one achievement line inside a project entry.
type ProjectBullet struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Text      string    `json:"bullet_text"`
	Vector    []float32 `json:"-"`
}

// Skill is a named competency on the profile.
type Skill struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Name      string    `json:"skill_name"`
	Category  string    `json:"skill_category,omitempty"`
}

// Education represents a degree or program entry.
type Education struct {
	ID           uuid.UUID `json:"id"`
	ProfileID    uuid.UUID `json:"profile_id"`
	Institution  string    `json:"institution"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"field_of_study,omitempty"`
	StartYear    int       `json:"start_year,omitempty"`
	EndYear      int       `json:"end_year,omitempty"`
	Grade        string    `json:"grade,omitempty"`
}

// Certification represents a professional certification entry.
type Certification struct {
	ID                  uuid.UUID `json:"id"`
	ProfileID           uuid.UUID `json:"profile_id"`
	Name                string    `json:"name"`
	IssuingOrganization string    `json:"issuing_organization,omitempty"`
	Year                int       `json:"year,omitempty"`
}

// Achievement represents an award or notable accomplishment.
type Achievement struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
}

// ExternalProfile is a link to an external presence (GitHub, LinkedIn, ...).
type ExternalProfile struct {
	ID         uuid.UUID `json:"id"`
	ProfileID  uuid.UUID `json:"profile_id"`
	Platform   string    `json:"platform"`
	ProfileURL string    `json:"profile_url"`
}

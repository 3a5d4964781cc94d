//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// Document section type identifiers in the canonical ATS ordering. These are
// the only section types an assembled document may contain.
const (
	DocSectionPersonalInfo     = "personal_info"
	DocSectionEducation        = "education"
	DocSectionExperience       = "experience"
	DocSectionProjects         = "projects"
	DocSectionSkills           = "skills"
	DocSectionCertifications   = "certifications"
	DocSectionAchievements     = "achievements"
	DocSectionExternalProfiles = "external_profiles"
)

// DocumentSection is a rendered-ready section entry: bullets are final
// strings with all scoring metadata resolved away.
type DocumentSection struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Bullets  []string `json:"bullets"`
}

// ResumeDocument is the immutable render input produced by the assembler.
// It mirrors the draft's shape with bullets resolved to their effective
// text and every vector stripped.
type ResumeDocument struct {
	JD *JDData `json:"jd_data"`

	PersonalInfo     *PersonalInfo     `json:"personal_info,omitempty"`
	Education        []Education       `json:"education"`
	Experience       []DocumentSection `json:"experience"`
	Projects         []DocumentSection `json:"projects"`
	Skills           []string          `json:"skills"`
	Certifications   []Certification   `json:"certifications"`
	Achievements     []Achievement     `json:"achievements"`
	ExternalProfiles []ExternalProfile `json:"external_profiles"`

	SkillConfidence map[string]ConfidenceGrade `json:"skill_confidence"`
	KeywordCoverage map[string]bool            `json:"keyword_coverage"`
}

// SectionBlob is the persistence form of one document section: a JSON
// content payload plus, for the skills section only, the confidence map.
type SectionBlob struct {
	SectionType     string          `json:"section_type"`
	Content         json.RawMessage `json:"content"`
	ConfidenceFlags json.RawMessage `json:"confidence_flags,omitempty"`
}

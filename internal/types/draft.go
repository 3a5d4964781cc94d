//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/google/uuid"

// ConfidenceGrade classifies how well a JD must-have skill is evidenced
// by the profile.
type ConfidenceGrade string

// Confidence grades, strongest first.
const (
	ConfidenceStrong   ConfidenceGrade = "strong"
	ConfidenceInferred ConfidenceGrade = "inferred"
	ConfidenceWeak     ConfidenceGrade = "weak"
)

// SectionType identifies the kind of resume section an entity belongs to.
type SectionType string

// Section types known to the scoring weight table.
const (
	SectionExperience    SectionType = "experience"
	SectionProject       SectionType = "project"
	SectionSkill         SectionType = "skill"
	SectionEducation     SectionType = "education"
	SectionCertification SectionType = "certification"
)

// ScoredBullet is a bullet annotated with its relevance score and, after the
// rewrite phase, its polished wording.
type ScoredBullet struct {
	ID            uuid.UUID       `json:"id"`
	OriginalText  string          `json:"original_text"`
	Score         float64         `json:"score"`
	Confidence    ConfidenceGrade `json:"confidence"`
	RewrittenText string          `json:"rewritten_text,omitempty"`
}

// EffectiveText returns the rewritten text when present, falling back to
// the original wording.
func (b *ScoredBullet) EffectiveText() string {
	if b.RewrittenText != "" {
		return b.RewrittenText
	}
	return b.OriginalText
}

// ScoredSection is a selected experience or project entry with its scored,
// sorted, and truncated bullets.
type ScoredSection struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Subtitle    string         `json:"subtitle,omitempty"`
	SectionType SectionType    `json:"section_type"`
	Score       float64        `json:"score"`
	Bullets     []ScoredBullet `json:"bullets"`
}

// ResumeDraft is the mutable working set threaded through the generation
// pipeline. Each phase transforms it in place under documented pre- and
// postconditions.
type ResumeDraft struct {
	JD       *JDData   `json:"jd_data"`
	JDVector []float32 `json:"-"`

	ExperienceSections []ScoredSection `json:"experience_sections"`
	ProjectSections    []ScoredSection `json:"project_sections"`

	// Skills is deduplicated case-insensitively and capped at MaxSkills.
	Skills []string `json:"skills"`

	// SkillConfidence has an entry for every JD must-have skill.
	SkillConfidence map[string]ConfidenceGrade `json:"skill_confidence"`

	// KeywordCoverage is populated by the ATS pass.
	KeywordCoverage map[string]bool `json:"keyword_coverage"`

	PersonalInfo     *PersonalInfo     `json:"personal_info,omitempty"`
	Education        []Education       `json:"education"`
	Certifications   []Certification   `json:"certifications"`
	Achievements     []Achievement     `json:"achievements"`
	ExternalProfiles []ExternalProfile `json:"external_profiles"`
}

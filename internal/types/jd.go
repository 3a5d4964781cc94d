//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Experience levels recognized by the JD interpreter.
const (
	LevelEntry  = "entry"
	LevelMid    = "mid"
	LevelSenior = "senior"
)

// JDData is the structured interpretation of a raw job description.
type JDData struct {
	RoleTitle        string   `json:"role_title"`
	ExperienceLevel  string   `json:"experience_level"`
	MustHaveSkills   []string `json:"must_have_skills"`
	NiceToHaveSkills []string `json:"nice_to_have_skills"`
	Keywords         []string `json:"keywords"`
	RoleCategory     string   `json:"role_category"`
}

// EmbeddingText returns the text the JD vector is computed from:
// role title, must-have skills, and keywords joined with single spaces.
func (jd *JDData) EmbeddingText() string {
	parts := make([]string, 0, 1+len(jd.MustHaveSkills)+len(jd.Keywords))
	if jd.RoleTitle != "" {
		parts = append(parts, jd.RoleTitle)
	}
	parts = append(parts, jd.MustHaveSkills...)
	parts = append(parts, jd.Keywords...)
	return strings.Join(parts, " ")
}

// JDRecord is a persisted JD analysis.
type JDRecord struct {
	ID             uuid.UUID `json:"id"`
	RawText        string    `json:"raw_text"`
	StructuredData *JDData   `json:"structured_data"`
	Embedding      []float32 `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

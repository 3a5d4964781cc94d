// Package scoring computes composite relevance scores for profile content
// against a structured job description.
//
// Formula (conceptual):
//
//	final = semantic_similarity × skill_importance × section_priority × recency + keyword_bonus
package scoring

import "github.com/jonathan/resume-forge/internal/types"

// Default weight values.
const (
	// DefaultSemantic is used when either vector is missing.
	DefaultSemantic = 0.30

	// MustHaveImportance boosts bullets that mention a must-have skill.
	MustHaveImportance   = 1.5
	NiceToHaveImportance = 1.0
	NeutralImportance    = 1.0

	// KeywordBonus is added per distinct matching keyword, up to KeywordBonusCap.
	KeywordBonus    = 0.05
	KeywordBonusCap = 0.30

	// Recency decay: 1.0 for current roles, decaying 0.05 per year since the
	// end date down to a floor of 0.6. Malformed dates score 0.8.
	recencyFloor     = 0.6
	recencyDecay     = 0.05
	recencyMalformed = 0.8
)

// Weights holds the configurable weight table shared by the bullet and
// section scoring functions.
type Weights struct {
	SectionPriority map[types.SectionType]float64
	MustHave        float64
	NiceToHave      float64
	KeywordBonus    float64
	KeywordCap      float64
}

// DefaultWeights returns the production weight table.
func DefaultWeights() Weights {
	return Weights{
		SectionPriority: map[types.SectionType]float64{
			types.SectionExperience:    1.00,
			types.SectionProject:       0.85,
			types.SectionSkill:         0.70,
			types.SectionEducation:     0.60,
			types.SectionCertification: 0.50,
		},
		MustHave:     MustHaveImportance,
		NiceToHave:   NiceToHaveImportance,
		KeywordBonus: KeywordBonus,
		KeywordCap:   KeywordBonusCap,
	}
}

// priority returns the section priority weight, defaulting to 0.70 for
// unknown section types.
func (w Weights) priority(sectionType types.SectionType) float64 {
	if p, ok := w.SectionPriority[sectionType]; ok {
		return p
	}
	return 0.70
}

// Package ats applies final applicant-tracking-system constraints to a
// resume draft: cardinality caps and the keyword coverage map.
package ats

import (
	"strings"

	"github.com/jonathan/resume-forge/internal/selection"
	"github.com/jonathan/resume-forge/internal/types"
)

// Enforcer finalizes a draft against the configured caps.
type Enforcer struct {
	caps selection.Caps
}

// NewEnforcer creates an enforcer with the given caps.
func NewEnforcer(caps selection.Caps) *Enforcer {
	return &Enforcer{caps: caps}
}

// Enforce re-applies the cardinality caps and computes keyword coverage.
// Enforce is idempotent: running it twice yields an equal draft.
func (e *Enforcer) Enforce(draft *types.ResumeDraft) {
	if len(draft.ExperienceSections) > e.caps.MaxExperienceSections {
		draft.ExperienceSections = draft.ExperienceSections[:e.caps.MaxExperienceSections]
	}
	if len(draft.ProjectSections) > e.caps.MaxProjectSections {
		draft.ProjectSections = draft.ProjectSections[:e.caps.MaxProjectSections]
	}

	for i := range draft.ExperienceSections {
		trimBullets(&draft.ExperienceSections[i], e.caps.MaxBulletsPerSection)
	}
	for i := range draft.ProjectSections {
		trimBullets(&draft.ProjectSections[i], e.caps.MaxBulletsPerSection)
	}

	if len(draft.Skills) > e.caps.MaxSkills {
		draft.Skills = draft.Skills[:e.caps.MaxSkills]
	}

	draft.KeywordCoverage = keywordCoverage(draft)
}

func trimBullets(section *types.ScoredSection, maxBullets int) {
	if len(section.Bullets) > maxBullets {
		section.Bullets = section.Bullets[:maxBullets]
	}
}

// keywordCoverage checks each JD keyword against the lowercased blob of
// section titles, effective bullet texts, and selected skills.
func keywordCoverage(draft *types.ResumeDraft) map[string]bool {
	coverage := make(map[string]bool)
	if draft.JD == nil {
		return coverage
	}

	var parts []string
	for _, section := range draft.ExperienceSections {
		parts = append(parts, section.Title)
		for i := range section.Bullets {
			parts = append(parts, section.Bullets[i].EffectiveText())
		}
	}
	for _, section := range draft.ProjectSections {
		parts = append(parts, section.Title)
		for i := range section.Bullets {
			parts = append(parts, section.Bullets[i].EffectiveText())
		}
	}
	parts = append(parts, draft.Skills...)

	blob := strings.ToLower(strings.Join(parts, " "))

	for _, kw := range draft.JD.Keywords {
		coverage[kw] = strings.Contains(blob, strings.ToLower(kw))
	}
	return coverage
}

// Package assembly builds the canonical ResumeDocument from a finalized
// draft. Assemble is a pure function: the same draft always yields an
// equal document, and the draft is never mutated.
package assembly

import "github.com/jonathan/resume-forge/internal/types"

// Assemble converts a finalized draft into the immutable render input.
// Bullets resolve to their effective text and every vector is stripped.
// Sections whose source is empty are elided entirely.
func Assemble(draft *types.ResumeDraft) *types.ResumeDocument {
	doc := &types.ResumeDocument{
		JD:               draft.JD,
		PersonalInfo:     draft.PersonalInfo,
		Education:        draft.Education,
		Skills:           draft.Skills,
		Certifications:   draft.Certifications,
		Achievements:     draft.Achievements,
		ExternalProfiles: draft.ExternalProfiles,
		SkillConfidence:  draft.SkillConfidence,
		KeywordCoverage:  draft.KeywordCoverage,
	}

	doc.Experience = resolveSections(draft.ExperienceSections)
	doc.Projects = resolveSections(draft.ProjectSections)

	return doc
}

// resolveSections flattens scored sections to render-ready entries.
func resolveSections(sections []types.ScoredSection) []types.DocumentSection {
	out := make([]types.DocumentSection, 0, len(sections))
	for _, section := range sections {
		entry := types.DocumentSection{
			Title:    section.Title,
			Subtitle: section.Subtitle,
			Bullets:  make([]string, 0, len(section.Bullets)),
		}
		for i := range section.Bullets {
			entry.Bullets = append(entry.Bullets, section.Bullets[i].EffectiveText())
		}
		out = append(out, entry)
	}
	return out
}

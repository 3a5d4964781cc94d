package assembly

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-forge/internal/types"
)

// DocumentSections converts an assembled document into per-section JSON
// blobs for persistence, in the canonical ATS order:
// personal_info, education, experience, projects, skills, certifications,
// achievements, external_profiles. Empty sections are skipped. Only the
// skills section carries confidence flags.
func DocumentSections(doc *types.ResumeDocument) ([]types.SectionBlob, error) {
	var out []types.SectionBlob

	add := func(sectionType string, content any, flags any) error {
		blob, err := json.Marshal(content)
		if err != nil {
			return fmt.Errorf("failed to marshal %s section: %w", sectionType, err)
		}
		section := types.SectionBlob{SectionType: sectionType, Content: blob}
		if flags != nil {
			flagsBlob, err := json.Marshal(flags)
			if err != nil {
				return fmt.Errorf("failed to marshal %s confidence flags: %w", sectionType, err)
			}
			section.ConfidenceFlags = flagsBlob
		}
		out = append(out, section)
		return nil
	}

	if doc.PersonalInfo != nil {
		if err := add(types.DocSectionPersonalInfo, doc.PersonalInfo, nil); err != nil {
			return nil, err
		}
	}
	if len(doc.Education) > 0 {
		if err := add(types.DocSectionEducation, doc.Education, nil); err != nil {
			return nil, err
		}
	}
	if len(doc.Experience) > 0 {
		if err := add(types.DocSectionExperience, doc.Experience, nil); err != nil {
			return nil, err
		}
	}
	if len(doc.Projects) > 0 {
		if err := add(types.DocSectionProjects, doc.Projects, nil); err != nil {
			return nil, err
		}
	}
	if len(doc.Skills) > 0 {
		if err := add(types.DocSectionSkills, doc.Skills, doc.SkillConfidence); err != nil {
			return nil, err
		}
	}
	if len(doc.Certifications) > 0 {
		if err := add(types.DocSectionCertifications, doc.Certifications, nil); err != nil {
			return nil, err
		}
	}
	if len(doc.Achievements) > 0 {
		if err := add(types.DocSectionAchievements, doc.Achievements, nil); err != nil {
			return nil, err
		}
	}
	if len(doc.ExternalProfiles) > 0 {
		if err := add(types.DocSectionExternalProfiles, doc.ExternalProfiles, nil); err != nil {
			return nil, err
		}
	}

	return out, nil
}

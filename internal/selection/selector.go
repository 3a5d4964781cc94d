// Package selection ranks profile content against a job description and
// builds the resume draft: top-N sections, top-K bullets, deduplicated
// skills, and a confidence grade per must-have skill.
//
// The selector is total: it produces a valid draft for any profile,
// including an empty one.
package selection

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-forge/internal/embedding"
	"github.com/jonathan/resume-forge/internal/scoring"
	"github.com/jonathan/resume-forge/internal/types"
)

// Caps holds the cardinality limits applied during selection.
type Caps struct {
	MaxExperienceSections int
	MaxProjectSections    int
	MaxBulletsPerSection  int
	MaxSkills             int
}

// DefaultCaps returns the production limits.
func DefaultCaps() Caps {
	return Caps{
		MaxExperienceSections: 3,
		MaxProjectSections:    3,
		MaxBulletsPerSection:  4,
		MaxSkills:             12,
	}
}

// Selector scores and selects profile content for a JD.
type Selector struct {
	scorer *scoring.Engine
	engine embedding.Engine // used only for the semantic confidence probe; may be nil
	caps   Caps
}

// NewSelector creates a selector. engine may be nil; the semantic confidence
// check then degrades toward weak.
func NewSelector(scorer *scoring.Engine, engine embedding.Engine, caps Caps) *Selector {
	return &Selector{scorer: scorer, engine: engine, caps: caps}
}

// Select builds a resume draft from a profile snapshot and JD context.
// jdVec may be nil when embedding is unavailable; scoring then uses the
// constant semantic default throughout.
func (s *Selector) Select(ctx context.Context, profile *types.Profile, jd *types.JDData, jdVec []float32) *types.ResumeDraft {
	draft := &types.ResumeDraft{
		JD:              jd,
		JDVector:        jdVec,
		SkillConfidence: make(map[string]types.ConfidenceGrade),
		KeywordCoverage: make(map[string]bool),
	}

	// allBulletTexts feeds the confidence grading below; profile order.
	var allBulletTexts []string

	draft.ExperienceSections = s.selectExperience(profile, jd, jdVec, &allBulletTexts)
	draft.ProjectSections = s.selectProjects(profile, jd, jdVec, &allBulletTexts)
	draft.Skills = s.selectSkills(profile.Skills, jd)

	for _, skill := range jd.MustHaveSkills {
		draft.SkillConfidence[skill] = s.gradeSkill(ctx, skill, profile.Skills, allBulletTexts)
	}

	// Carried through verbatim; never scored or truncated.
	draft.PersonalInfo = profile.PersonalInfo
	draft.Education = profile.Education
	draft.Certifications = profile.Certifications
	draft.Achievements = profile.Achievements
	draft.ExternalProfiles = profile.ExternalProfiles

	return draft
}

// selectExperience scores every experience entry and its bullets, then
// keeps the top sections and top bullets per section.
func (s *Selector) selectExperience(profile *types.Profile, jd *types.JDData, jdVec []float32, allBulletTexts *[]string) []types.ScoredSection {
	sections := make([]types.ScoredSection, 0, len(profile.Experiences))

	for _, exp := range profile.Experiences {
		sectionText := fmt.Sprintf("%s at %s", exp.Role, exp.Company)
		sectionScore := s.scorer.ScoreSection(sectionText, exp.SectionVector, jdVec, jd, types.SectionExperience, exp.EndDate)

		bullets := make([]types.ScoredBullet, 0, len(exp.Bullets))
		for _, b := range exp.Bullets {
			*allBulletTexts = append(*allBulletTexts, b.Text)
			bullets = append(bullets, types.ScoredBullet{
				ID:           b.ID,
				OriginalText: b.Text,
				Score:        s.scorer.ScoreBullet(b.Text, b.Vector, jdVec, jd, types.SectionExperience, exp.EndDate),
				Confidence:   types.ConfidenceStrong,
			})
		}
		bullets = sortAndTruncateBullets(bullets, s.caps.MaxBulletsPerSection)

		end := exp.EndDate
		if end == "" {
			end = "Present"
		}
		sections = append(sections, types.ScoredSection{
			ID:          exp.ID,
			Title:       exp.Role,
			Subtitle:    fmt.Sprintf("%s | %s – %s", exp.Company, exp.StartDate, end),
			SectionType: types.SectionExperience,
			Score:       sectionScore,
			Bullets:     bullets,
		})
	}

	sortAndTruncateSections(sections)
	if len(sections) > s.caps.MaxExperienceSections {
		sections = sections[:s.caps.MaxExperienceSections]
	}
	return sections
}

// selectProjects mirrors selectExperience for projects: no section vector
// (the constant semantic default applies) and no recency decay.
func (s *Selector) selectProjects(profile *types.Profile, jd *types.JDData, jdVec []float32, allBulletTexts *[]string) []types.ScoredSection {
	sections := make([]types.ScoredSection, 0, len(profile.Projects))

	for _, proj := range profile.Projects {
		sectionText := fmt.Sprintf("%s: %s", proj.Title, proj.Description)
		sectionScore := s.scorer.ScoreSection(sectionText, nil, jdVec, jd, types.SectionProject, "")

		bullets := make([]types.ScoredBullet, 0, len(proj.Bullets))
		for _, b := range proj.Bullets {
			*allBulletTexts = append(*allBulletTexts, b.Text)
			bullets = append(bullets, types.ScoredBullet{
				ID:           b.ID,
				OriginalText: b.Text,
				Score:        s.scorer.ScoreBullet(b.Text, b.Vector, jdVec, jd, types.SectionProject, ""),
				Confidence:   types.ConfidenceStrong,
			})
		}
		bullets = sortAndTruncateBullets(bullets, s.caps.MaxBulletsPerSection)

		sections = append(sections, types.ScoredSection{
			ID:          proj.ID,
			Title:       proj.Title,
			Subtitle:    proj.TechStack,
			SectionType: types.SectionProject,
			Score:       sectionScore,
			Bullets:     bullets,
		})
	}

	sortAndTruncateSections(sections)
	if len(sections) > s.caps.MaxProjectSections {
		sections = sections[:s.caps.MaxProjectSections]
	}
	return sections
}

// selectSkills picks up to MaxSkills profile skills in two passes:
// JD-relevant skills first, then the rest, both in profile order.
// Uniqueness is case-insensitive.
func (s *Selector) selectSkills(profileSkills []types.Skill, jd *types.JDData) []string {
	jdSkills := make([]string, 0, len(jd.MustHaveSkills)+len(jd.NiceToHaveSkills))
	jdSkills = append(jdSkills, jd.MustHaveSkills...)
	jdSkills = append(jdSkills, jd.NiceToHaveSkills...)

	selected := make([]string, 0, s.caps.MaxSkills)
	seen := make(map[string]bool)

	// Pass A: skills that match a JD skill in either containment direction.
	for _, skill := range profileSkills {
		nameLower := strings.ToLower(skill.Name)
		if seen[nameLower] {
			continue
		}
		for _, jdSkill := range jdSkills {
			jdLower := strings.ToLower(jdSkill)
			if jdLower == "" {
				continue
			}
			if strings.Contains(nameLower, jdLower) || strings.Contains(jdLower, nameLower) {
				selected = append(selected, skill.Name)
				seen[nameLower] = true
				break
			}
		}
	}

	// Pass B: fill with remaining skills in profile order.
	for _, skill := range profileSkills {
		nameLower := strings.ToLower(skill.Name)
		if !seen[nameLower] {
			selected = append(selected, skill.Name)
			seen[nameLower] = true
		}
	}

	if len(selected) > s.caps.MaxSkills {
		selected = selected[:s.caps.MaxSkills]
	}
	return selected
}

// sortAndTruncateBullets sorts descending by raw score and keeps the top
// maxBullets. sort.SliceStable keeps profile order for equal scores.
func sortAndTruncateBullets(bullets []types.ScoredBullet, maxBullets int) []types.ScoredBullet {
	sort.SliceStable(bullets, func(i, j int) bool {
		return bullets[i].Score > bullets[j].Score
	})
	if len(bullets) > maxBullets {
		bullets = bullets[:maxBullets]
	}
	return bullets
}

func sortAndTruncateSections(sections []types.ScoredSection) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Score > sections[j].Score
	})
}

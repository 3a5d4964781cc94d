package selection

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-forge/internal/scoring"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine returns a fixed vector for every text, or a canned error.
type fakeEngine struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeEngine) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return f.vec, f.err
}

func (f *fakeEngine) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

func (f *fakeEngine) Dimensions() int { return len(f.vec) }
func (f *fakeEngine) Name() string    { return "fake" }

func newTestSelector(engine *fakeEngine) *Selector {
	if engine == nil {
		return NewSelector(scoring.NewDefaultEngine(), nil, DefaultCaps())
	}
	return NewSelector(scoring.NewDefaultEngine(), engine, DefaultCaps())
}

func backendJD() *types.JDData {
	return &types.JDData{
		RoleTitle:        "Senior Python Backend Engineer",
		ExperienceLevel:  types.LevelSenior,
		MustHaveSkills:   []string{"Python", "FastAPI", "PostgreSQL"},
		NiceToHaveSkills: []string{"Kubernetes"},
		Keywords:         []string{"Python", "FastAPI", "PostgreSQL", "Docker", "AWS"},
	}
}

func skill(name string) types.Skill {
	return types.Skill{ID: uuid.New(), Name: name}
}

func experience(role, company, end string, bulletTexts ...string) types.Experience {
	exp := types.Experience{
		ID:      uuid.New(),
		Role:    role,
		Company: company,
		EndDate: end,
	}
	for _, text := range bulletTexts {
		exp.Bullets = append(exp.Bullets, types.ExperienceBullet{ID: uuid.New(), Text: text})
	}
	return exp
}

func TestSelect_EmptyProfileProducesValidDraft(t *testing.T) {
	s := newTestSelector(nil)
	jd := backendJD()

	draft := s.Select(context.Background(), &types.Profile{}, jd, nil)

	assert.Empty(t, draft.ExperienceSections)
	assert.Empty(t, draft.ProjectSections)
	assert.Empty(t, draft.Skills)
	require.Len(t, draft.SkillConfidence, len(jd.MustHaveSkills))
	for _, skill := range jd.MustHaveSkills {
		assert.Equal(t, types.ConfidenceWeak, draft.SkillConfidence[skill])
	}
}

func TestSelect_ExperienceSubtitleFormat(t *testing.T) {
	s := newTestSelector(nil)
	exp := experience("Engineer", "TechCorp", "", "Built APIs")
	exp.StartDate = "2021-03"
	profile := &types.Profile{Experiences: []types.Experience{exp}}

	draft := s.Select(context.Background(), profile, backendJD(), nil)

	require.Len(t, draft.ExperienceSections, 1)
	sec := draft.ExperienceSections[0]
	assert.Equal(t, "Engineer", sec.Title)
	assert.Equal(t, "TechCorp | 2021-03 – Present", sec.Subtitle)
	assert.Equal(t, types.SectionExperience, sec.SectionType)
}

func TestSelect_SectionAndBulletCaps(t *testing.T) {
	s := newTestSelector(nil)
	profile := &types.Profile{}
	for i := 0; i < 10; i++ {
		bullets := make([]string, 8)
		for j := range bullets {
			bullets[j] = fmt.Sprintf("did thing %d-%d", i, j)
		}
		profile.Experiences = append(profile.Experiences,
			experience(fmt.Sprintf("Role %d", i), "Corp", "Present", bullets...))
	}

	draft := s.Select(context.Background(), profile, backendJD(), nil)

	assert.Len(t, draft.ExperienceSections, 3)
	for _, sec := range draft.ExperienceSections {
		assert.LessOrEqual(t, len(sec.Bullets), 4)
	}
}

func TestSelect_BulletsSortedByScoreDescending(t *testing.T) {
	s := newTestSelector(nil)
	profile := &types.Profile{
		Experiences: []types.Experience{experience("Engineer", "Corp", "Present",
			"organized team lunches",
			"Built RESTful APIs with Python and FastAPI on AWS",
			"wrote meeting notes",
		)},
	}

	draft := s.Select(context.Background(), profile, backendJD(), nil)

	require.Len(t, draft.ExperienceSections, 1)
	bullets := draft.ExperienceSections[0].Bullets
	require.NotEmpty(t, bullets)
	assert.Equal(t, "Built RESTful APIs with Python and FastAPI on AWS", bullets[0].OriginalText)
	for i := 1; i < len(bullets); i++ {
		assert.GreaterOrEqual(t, bullets[i-1].Score, bullets[i].Score)
	}
}

func TestSelect_SectionsSortedByScoreDescending(t *testing.T) {
	s := newTestSelector(nil)
	profile := &types.Profile{
		Experiences: []types.Experience{
			experience("Barista", "Cafe", "2015-06", "made coffee"),
			experience("Python Engineer", "TechCorp", "Present", "Built Python FastAPI services with PostgreSQL"),
		},
	}

	draft := s.Select(context.Background(), profile, backendJD(), nil)

	require.Len(t, draft.ExperienceSections, 2)
	assert.Equal(t, "Python Engineer", draft.ExperienceSections[0].Title)
	assert.GreaterOrEqual(t, draft.ExperienceSections[0].Score, draft.ExperienceSections[1].Score)
}

func TestSelect_ProjectSubtitleIsTechStack(t *testing.T) {
	s := newTestSelector(nil)
	profile := &types.Profile{
		Projects: []types.Project{{
			ID:          uuid.New(),
			Title:       "Chat App",
			Description: "Realtime chat",
			TechStack:   "Go, WebSocket, Redis",
			Bullets:     []types.ProjectBullet{{ID: uuid.New(), Text: "Shipped it"}},
		}},
	}

	draft := s.Select(context.Background(), profile, backendJD(), nil)

	require.Len(t, draft.ProjectSections, 1)
	assert.Equal(t, "Go, WebSocket, Redis", draft.ProjectSections[0].Subtitle)
	assert.Equal(t, types.SectionProject, draft.ProjectSections[0].SectionType)
}

func TestSelectSkills_TwoPassOrdering(t *testing.T) {
	s := newTestSelector(nil)
	profile := &types.Profile{
		Skills: []types.Skill{
			skill("Photoshop"), // pass B
			skill("Python"),    // pass A (must-have)
			skill("Excel"),     // pass B
			skill("FastAPI"),   // pass A (must-have)
		},
	}

	draft := s.Select(context.Background(), profile, backendJD(), nil)

	assert.Equal(t, []string{"Python", "FastAPI", "Photoshop", "Excel"}, draft.Skills)
}

func TestSelectSkills_CaseInsensitiveDedup(t *testing.T) {
	s := newTestSelector(nil)
	profile := &types.Profile{
		Skills: []types.Skill{skill("Python"), skill("python"), skill("PYTHON")},
	}

	draft := s.Select(context.Background(), profile, backendJD(), nil)

	assert.Equal(t, []string{"Python"}, draft.Skills)
}

func TestSelectSkills_ContainmentMatchesBothDirections(t *testing.T) {
	s := newTestSelector(nil)
	jd := &types.JDData{MustHaveSkills: []string{"SQL"}}
	profile := &types.Profile{
		Skills: []types.Skill{skill("Pottery"), skill("PostgreSQL")},
	}

	draft := s.Select(context.Background(), profile, jd, nil)

	// "PostgreSQL" contains "SQL" → pass A
	assert.Equal(t, []string{"PostgreSQL", "Pottery"}, draft.Skills)
}

func TestSelectSkills_CapEnforced(t *testing.T) {
	s := newTestSelector(nil)
	profile := &types.Profile{}
	for i := 0; i < 20; i++ {
		profile.Skills = append(profile.Skills, skill(fmt.Sprintf("Skill%d", i)))
	}

	draft := s.Select(context.Background(), profile, backendJD(), nil)

	assert.Len(t, draft.Skills, 12)
}

func TestGradeSkill_StrongFromProfileSkill(t *testing.T) {
	s := newTestSelector(nil)
	profile := &types.Profile{Skills: []types.Skill{skill("python")}}

	draft := s.Select(context.Background(), profile, backendJD(), nil)

	assert.Equal(t, types.ConfidenceStrong, draft.SkillConfidence["Python"])
}

func TestGradeSkill_InferredFromBulletText(t *testing.T) {
	s := newTestSelector(nil)
	profile := &types.Profile{
		Experiences: []types.Experience{
			experience("Engineer", "Corp", "Present", "Optimized PostgreSQL query plans"),
		},
	}

	draft := s.Select(context.Background(), profile, backendJD(), nil)

	assert.Equal(t, types.ConfidenceInferred, draft.SkillConfidence["PostgreSQL"])
	assert.Equal(t, types.ConfidenceWeak, draft.SkillConfidence["FastAPI"])
}

func TestGradeSkill_SemanticProbeInferred(t *testing.T) {
	// identical vectors → cosine 1.0 > 0.60 threshold
	engine := &fakeEngine{vec: []float32{1, 0, 0}}
	s := newTestSelector(engine)
	profile := &types.Profile{
		Experiences: []types.Experience{
			experience("Engineer", "Corp", "Present", "Served web requests"),
		},
	}
	jd := &types.JDData{MustHaveSkills: []string{"Django"}}

	draft := s.Select(context.Background(), profile, jd, nil)

	assert.Equal(t, types.ConfidenceInferred, draft.SkillConfidence["Django"])
}

func TestGradeSkill_EmbeddingFailureDegradesToWeak(t *testing.T) {
	engine := &fakeEngine{err: errors.New("backend down")}
	s := newTestSelector(engine)
	profile := &types.Profile{
		Experiences: []types.Experience{
			experience("Engineer", "Corp", "Present", "Served web requests"),
		},
	}
	jd := &types.JDData{MustHaveSkills: []string{"Django"}}

	draft := s.Select(context.Background(), profile, jd, nil)

	assert.Equal(t, types.ConfidenceWeak, draft.SkillConfidence["Django"])
}

func TestSelect_CarriesThroughUnscoredSections(t *testing.T) {
	s := newTestSelector(nil)
	profile := &types.Profile{
		PersonalInfo:     &types.PersonalInfo{FullName: "Ada Lovelace"},
		Education:        []types.Education{{Institution: "MIT", Degree: "BSc"}},
		Certifications:   []types.Certification{{Name: "CKA"}},
		Achievements:     []types.Achievement{{Title: "Award"}},
		ExternalProfiles: []types.ExternalProfile{{Platform: "GitHub", ProfileURL: "https://github.com/ada"}},
	}

	draft := s.Select(context.Background(), profile, backendJD(), nil)

	assert.Equal(t, profile.PersonalInfo, draft.PersonalInfo)
	assert.Equal(t, profile.Education, draft.Education)
	assert.Equal(t, profile.Certifications, draft.Certifications)
	assert.Equal(t, profile.Achievements, draft.Achievements)
	assert.Equal(t, profile.ExternalProfiles, draft.ExternalProfiles)
}

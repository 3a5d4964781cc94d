package pipeline

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/parsing"
	"github.com/jonathan/resume-forge/internal/types"
)

func TestMain(m *testing.M) {
	// opencensus starts a global worker goroutine in its package init that
	// can never be stopped; ignore it so the leak check covers our own code.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// ── fakes ────────────────────────────────────────────────────────────────

type fakeStore struct {
	profile *types.Profile

	jdRecords    []*types.JDRecord
	jdEmbeddings map[uuid.UUID][]float32
	vectorSaves  int

	resumes   []*types.ResumeRecord
	sections  map[uuid.UUID][]types.SectionBlob
	filePaths map[uuid.UUID]string
}

func newFakeStore(profile *types.Profile) *fakeStore {
	return &fakeStore{
		profile:      profile,
		jdEmbeddings: make(map[uuid.UUID][]float32),
		sections:     make(map[uuid.UUID][]types.SectionBlob),
		filePaths:    make(map[uuid.UUID]string),
	}
}

func (s *fakeStore) GetProfile(_ context.Context, id uuid.UUID) (*types.Profile, error) {
	if s.profile != nil && s.profile.ID == id {
		return s.profile, nil
	}
	return nil, nil
}

func (s *fakeStore) CreateJDAnalysis(_ context.Context, rawText string, data *types.JDData) (*types.JDRecord, error) {
	rec := &types.JDRecord{ID: uuid.New(), RawText: rawText, StructuredData: data}
	s.jdRecords = append(s.jdRecords, rec)
	return rec, nil
}

func (s *fakeStore) SetJDEmbedding(_ context.Context, id uuid.UUID, vector []float32) error {
	s.jdEmbeddings[id] = vector
	return nil
}

func (s *fakeStore) SaveProfileVectors(_ context.Context, _ *types.Profile) error {
	s.vectorSaves++
	return nil
}

func (s *fakeStore) CreateResumeWithSections(_ context.Context, profileID, jdID uuid.UUID, jobTitle, filePath string, sections []types.SectionBlob) (*types.ResumeRecord, error) {
	version := 1
	for _, r := range s.resumes {
		if r.ProfileID == profileID && r.JobTitle == jobTitle {
			version++
		}
	}
	rec := &types.ResumeRecord{
		ID:        uuid.New(),
		ProfileID: profileID,
		JDID:      jdID,
		JobTitle:  jobTitle,
		Version:   version,
		FilePath:  filePath,
	}
	s.resumes = append(s.resumes, rec)
	s.sections[rec.ID] = sections
	return rec, nil
}

func (s *fakeStore) UpdateResumeFilePath(_ context.Context, id uuid.UUID, filePath string) error {
	s.filePaths[id] = filePath
	return nil
}

type fakeEngine struct {
	vec  []float32
	err  error
	dims int
}

func (e *fakeEngine) Embed(_ context.Context, _ string) ([]float32, error) {
	return e.vec, e.err
}

func (e *fakeEngine) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = e.vec
	}
	return out, nil
}

func (e *fakeEngine) Dimensions() int { return e.dims }
func (e *fakeEngine) Name() string    { return "fake" }

// ── fixtures ─────────────────────────────────────────────────────────────

const jdText = "We are hiring a Backend Engineer with strong Python and Docker experience to build APIs."

func testProfile() *types.Profile {
	return &types.Profile{
		ID: uuid.New(),
		PersonalInfo: &types.PersonalInfo{
			FullName: "Ada Lovelace",
			Email:    "ada@example.com",
		},
		Skills: []types.Skill{
			{Name: "Python"},
			{Name: "Docker"},
		},
		Experiences: []types.Experience{{
			ID:        uuid.New(),
			Company:   "TechCorp",
			Role:      "Engineer",
			StartDate: "2021-03",
			Bullets: []types.ExperienceBullet{
				{ID: uuid.New(), Text: "built python services handling 1M requests"},
				{ID: uuid.New(), Text: "ran docker deployments"},
			},
		}},
		Projects: []types.Project{{
			ID:          uuid.New(),
			Title:       "Chat App",
			Description: "Realtime chat",
			TechStack:   "Go, Redis",
			Bullets:     []types.ProjectBullet{{ID: uuid.New(), Text: "shipped v1"}},
		}},
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Load()
	cfg.OutputDir = t.TempDir()
	return cfg
}

// ── tests ────────────────────────────────────────────────────────────────

func TestGenerate_EndToEnd(t *testing.T) {
	profile := testProfile()
	store := newFakeStore(profile)
	engine := &fakeEngine{vec: []float32{1, 0}, dims: 2}
	gen := NewGenerator(store, nil, engine, testConfig(t))

	var phases []string
	result, err := gen.Generate(context.Background(), profile.ID, jdText, func(ev ProgressEvent) {
		phases = append(phases, ev.Phase)
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.ResumeID)
	assert.Equal(t, 1, result.Version)
	assert.NotEmpty(t, result.JobTitle)
	require.NotNil(t, result.JDAnalysis)
	assert.Contains(t, result.JDAnalysis.MustHaveSkills, "Python")
	assert.NotEmpty(t, result.SkillConfidence)
	assert.NotEmpty(t, result.KeywordCoverage)
	require.NotNil(t, result.Document)

	// DOCX always renders; PDF depends on pdflatex being installed.
	require.NotEmpty(t, result.DOCXPath)
	_, statErr := os.Stat(result.DOCXPath)
	assert.NoError(t, statErr)

	// phases observed in pipeline order
	wantOrder := []string{
		PhaseAnalyzeJD, PhaseEmbedJD, PhaseEnsureEmbeddings, PhaseSelect,
		PhaseRewrite, PhaseEnforceATS, PhaseAssemble, PhaseVersion,
		PhaseRender, PhasePersist,
	}
	var seen []string
	last := ""
	for _, p := range phases {
		if p != last {
			seen = append(seen, p)
			last = p
		}
	}
	assert.Equal(t, wantOrder, seen)

	// record + sections persisted, file path recorded afterwards
	require.Len(t, store.resumes, 1)
	assert.NotEmpty(t, store.sections[result.ResumeID])
	assert.Equal(t, result.PDFPath == "", store.filePaths[result.ResumeID] == result.DOCXPath)
}

func TestGenerate_UnknownProfile(t *testing.T) {
	store := newFakeStore(testProfile())
	gen := NewGenerator(store, nil, nil, testConfig(t))

	_, err := gen.Generate(context.Background(), uuid.New(), jdText, nil)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "profile", notFound.Resource)
	assert.Empty(t, store.resumes)
}

func TestGenerate_ShortJD(t *testing.T) {
	profile := testProfile()
	store := newFakeStore(profile)
	gen := NewGenerator(store, nil, nil, testConfig(t))

	_, err := gen.Generate(context.Background(), profile.ID, "too short", nil)
	var valErr *parsing.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Empty(t, store.jdRecords)
	assert.Empty(t, store.resumes)
}

func TestGenerate_NoEngineNoClient(t *testing.T) {
	profile := testProfile()
	store := newFakeStore(profile)
	gen := NewGenerator(store, nil, nil, testConfig(t))

	result, err := gen.Generate(context.Background(), profile.ID, jdText, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, store.vectorSaves, "no embeddings to fill without an engine")
	assert.Empty(t, store.jdEmbeddings)
	assert.NotEmpty(t, result.SkillConfidence)
}

func TestGenerate_VersionIncrementsPerTitle(t *testing.T) {
	profile := testProfile()
	store := newFakeStore(profile)
	gen := NewGenerator(store, nil, nil, testConfig(t))

	first, err := gen.Generate(context.Background(), profile.ID, jdText, nil)
	require.NoError(t, err)
	second, err := gen.Generate(context.Background(), profile.ID, jdText, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
}

func TestGenerate_FillsMissingVectors(t *testing.T) {
	profile := testProfile()
	store := newFakeStore(profile)
	engine := &fakeEngine{vec: []float32{0.6, 0.8}, dims: 2}
	gen := NewGenerator(store, nil, engine, testConfig(t))

	_, err := gen.Generate(context.Background(), profile.ID, jdText, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, store.vectorSaves)
	assert.NotNil(t, profile.Experiences[0].Bullets[0].Vector)
	assert.NotNil(t, profile.Experiences[0].SectionVector)
	assert.NotNil(t, profile.Projects[0].Bullets[0].Vector)
	assert.Len(t, store.jdEmbeddings, 1)
}

func TestGenerate_EmbeddingFailureDegrades(t *testing.T) {
	profile := testProfile()
	store := newFakeStore(profile)
	engine := &fakeEngine{err: context.DeadlineExceeded, dims: 2}
	gen := NewGenerator(store, nil, engine, testConfig(t))

	result, err := gen.Generate(context.Background(), profile.ID, jdText, nil)
	require.NoError(t, err)

	assert.Empty(t, store.jdEmbeddings)
	assert.Equal(t, 0, store.vectorSaves)
	assert.NotNil(t, result.Document)
}

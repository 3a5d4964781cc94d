// Package pipeline orchestrates the end-to-end resume generation flow:
// JD interpretation, embedding, selection, rewriting, ATS enforcement,
// assembly, versioning, rendering, and persistence.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-forge/internal/assembly"
	"github.com/jonathan/resume-forge/internal/ats"
	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/embedding"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/parsing"
	"github.com/jonathan/resume-forge/internal/rendering"
	"github.com/jonathan/resume-forge/internal/rewriting"
	"github.com/jonathan/resume-forge/internal/scoring"
	"github.com/jonathan/resume-forge/internal/selection"
	"github.com/jonathan/resume-forge/internal/types"
)

// Pipeline phases, in execution order.
const (
	PhaseAnalyzeJD        = "analyze_jd"
	PhaseEmbedJD          = "embed_jd"
	PhaseEnsureEmbeddings = "ensure_profile_embeddings"
	PhaseSelect           = "select"
	PhaseRewrite          = "rewrite"
	PhaseEnforceATS       = "enforce_ats"
	PhaseAssemble         = "assemble"
	PhaseVersion          = "version"
	PhaseRender           = "render"
	PhasePersist          = "persist"
)

// Store is the persistence surface the pipeline needs.
type Store interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error)
	CreateJDAnalysis(ctx context.Context, rawText string, data *types.JDData) (*types.JDRecord, error)
	SetJDEmbedding(ctx context.Context, id uuid.UUID, vector []float32) error
	SaveProfileVectors(ctx context.Context, profile *types.Profile) error
	CreateResumeWithSections(ctx context.Context, profileID, jdID uuid.UUID, jobTitle, filePath string, sections []types.SectionBlob) (*types.ResumeRecord, error)
	UpdateResumeFilePath(ctx context.Context, id uuid.UUID, filePath string) error
}

// ProgressEvent reports one pipeline phase to an observer.
type ProgressEvent struct {
	Phase   string `json:"phase"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressFunc receives progress events; may be nil.
type ProgressFunc func(ProgressEvent)

// NotFoundError marks a missing aggregate referenced by a generation request.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Result is the outcome of one generation run.
type Result struct {
	ResumeID uuid.UUID `json:"resume_id"`
	JobTitle string    `json:"job_title"`
	Version  int       `json:"version"`
	PDFPath  string    `json:"pdf_path,omitempty"`
	DOCXPath string    `json:"docx_path,omitempty"`

	JDID       uuid.UUID     `json:"jd_id"`
	JDAnalysis *types.JDData `json:"jd_analysis"`

	SkillConfidence map[string]types.ConfidenceGrade `json:"skill_confidence"`
	KeywordCoverage map[string]bool                  `json:"keyword_coverage"`

	Document *types.ResumeDocument `json:"resume_data"`
	Draft    *types.ResumeDraft    `json:"-"`
}

// Generator holds the constructed service handles for the pipeline. All
// collaborators are passed in explicitly; the generator owns none of them.
type Generator struct {
	store  Store
	engine embedding.Engine // nil disables semantic scoring
	cfg    *config.Config

	analyzer *parsing.Analyzer
	selector *selection.Selector
	rewriter *rewriting.Rewriter
	enforcer *ats.Enforcer
}

// NewGenerator wires a generator from its collaborators. client and engine
// may be nil; the pipeline then runs fully on deterministic fallbacks.
func NewGenerator(store Store, client llm.Client, engine embedding.Engine, cfg *config.Config) *Generator {
	caps := selection.Caps{
		MaxExperienceSections: cfg.MaxExperienceSections,
		MaxProjectSections:    cfg.MaxProjectSections,
		MaxBulletsPerSection:  cfg.MaxBulletsPerSection,
		MaxSkills:             cfg.MaxSkills,
	}
	return &Generator{
		store:    store,
		engine:   engine,
		cfg:      cfg,
		analyzer: parsing.NewAnalyzer(client),
		selector: selection.NewSelector(scoring.NewDefaultEngine(), engine, caps),
		rewriter: rewriting.NewRewriter(client),
		enforcer: ats.NewEnforcer(caps),
	}
}

// Generate runs the full pipeline for one profile and JD text.
func (g *Generator) Generate(ctx context.Context, profileID uuid.UUID, jdText string, progress ProgressFunc) (*Result, error) {
	emit := func(phase, message string, content any) {
		log.Printf("[pipeline] %s: %s", phase, message)
		if progress != nil {
			progress(ProgressEvent{Phase: phase, Message: message, Content: content})
		}
	}

	profile, err := g.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, &NotFoundError{Resource: "profile", ID: profileID}
	}

	emit(PhaseAnalyzeJD, "interpreting job description", nil)
	jd, err := g.analyzer.Analyze(ctx, jdText)
	if err != nil {
		return nil, err
	}
	jdRecord, err := g.store.CreateJDAnalysis(ctx, jdText, jd)
	if err != nil {
		return nil, fmt.Errorf("failed to store JD analysis: %w", err)
	}
	emit(PhaseAnalyzeJD, "interpreted as "+jd.RoleTitle, jd)

	emit(PhaseEmbedJD, "embedding job description", nil)
	jdVec := g.embedJD(ctx, jd, jdRecord.ID)

	emit(PhaseEnsureEmbeddings, "filling missing profile embeddings", nil)
	g.ensureProfileEmbeddings(ctx, profile)

	emit(PhaseSelect, "selecting relevant content", nil)
	draft := g.selector.Select(ctx, profile, jd, jdVec)

	emit(PhaseRewrite, "rewriting bullets", nil)
	g.rewriter.RewriteDraft(ctx, draft)

	emit(PhaseEnforceATS, "applying ATS rules", nil)
	g.enforcer.Enforce(draft)

	emit(PhaseAssemble, "assembling resume document", nil)
	doc := assembly.Assemble(draft)
	sections, err := assembly.DocumentSections(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize sections: %w", err)
	}

	// The version number is computed inside the same transaction that
	// inserts the record and sections, so it is authoritative only after
	// this call returns.
	emit(PhaseVersion, "assigning version", nil)
	record, err := g.store.CreateResumeWithSections(ctx, profileID, jdRecord.ID, jd.RoleTitle, "", sections)
	if err != nil {
		return nil, fmt.Errorf("failed to persist resume: %w", err)
	}
	emit(PhaseVersion, fmt.Sprintf("version %d", record.Version), nil)

	emit(PhaseRender, "rendering PDF and DOCX", nil)
	pdfPath, docxPath := g.render(ctx, doc, jd.RoleTitle, record.Version)

	emit(PhasePersist, "recording artifacts", nil)
	filePath := pdfPath
	if filePath == "" {
		filePath = docxPath
	}
	if filePath != "" {
		if err := g.store.UpdateResumeFilePath(ctx, record.ID, filePath); err != nil {
			return nil, fmt.Errorf("failed to record file path: %w", err)
		}
	}

	result := &Result{
		ResumeID:        record.ID,
		JobTitle:        jd.RoleTitle,
		Version:         record.Version,
		PDFPath:         pdfPath,
		DOCXPath:        docxPath,
		JDID:            jdRecord.ID,
		JDAnalysis:      jd,
		SkillConfidence: draft.SkillConfidence,
		KeywordCoverage: draft.KeywordCoverage,
		Document:        doc,
		Draft:           draft,
	}
	emit(PhasePersist, "done", result)
	return result, nil
}

// embedJD computes and stores the JD vector. Failures degrade to nil, which
// downstream scoring treats as "use the semantic default".
func (g *Generator) embedJD(ctx context.Context, jd *types.JDData, jdID uuid.UUID) []float32 {
	if g.engine == nil {
		return nil
	}
	vec, err := g.engine.Embed(ctx, jd.EmbeddingText())
	if err != nil {
		log.Printf("[pipeline] JD embedding failed, scoring degrades to defaults: %v", err)
		return nil
	}
	if err := g.store.SetJDEmbedding(ctx, jdID, vec); err != nil {
		log.Printf("[pipeline] failed to store JD embedding: %v", err)
	}
	return vec
}

// ensureProfileEmbeddings lazily fills missing bullet vectors and experience
// section vectors, then writes them back in one batch. An embedding failure
// aborts the fill; scoring degrades for the still-missing vectors.
func (g *Generator) ensureProfileEmbeddings(ctx context.Context, profile *types.Profile) {
	if g.engine == nil {
		return
	}

	changed := false
	save := func() {
		if changed {
			if err := g.store.SaveProfileVectors(ctx, profile); err != nil {
				log.Printf("[pipeline] failed to save profile vectors: %v", err)
			}
		}
	}

	for i := range profile.Experiences {
		exp := &profile.Experiences[i]
		for j := range exp.Bullets {
			b := &exp.Bullets[j]
			if b.Vector != nil {
				continue
			}
			vec, err := g.engine.Embed(ctx, b.Text)
			if err != nil {
				log.Printf("[pipeline] bullet embedding failed: %v", err)
				save()
				return
			}
			b.Vector = vec
			changed = true
		}
		if exp.SectionVector == nil && len(exp.Bullets) > 0 {
			vectors := make([][]float32, 0, len(exp.Bullets))
			for _, b := range exp.Bullets {
				if b.Vector != nil {
					vectors = append(vectors, b.Vector)
				}
			}
			if len(vectors) > 0 {
				mean, err := embedding.Mean(vectors)
				if err != nil {
					log.Printf("[pipeline] section vector mean failed: %v", err)
					save()
					return
				}
				exp.SectionVector = mean
				changed = true
			}
		}
	}

	for i := range profile.Projects {
		proj := &profile.Projects[i]
		for j := range proj.Bullets {
			b := &proj.Bullets[j]
			if b.Vector != nil {
				continue
			}
			vec, err := g.engine.Embed(ctx, b.Text)
			if err != nil {
				log.Printf("[pipeline] bullet embedding failed: %v", err)
				save()
				return
			}
			b.Vector = vec
			changed = true
		}
	}

	save()
}

// render produces the PDF and DOCX artifacts in parallel. Either renderer
// failing only nulls its path.
func (g *Generator) render(ctx context.Context, doc *types.ResumeDocument, jobTitle string, version int) (pdfPath, docxPath string) {
	base := BaseName(jobTitle, version)
	pdfTarget := filepath.Join(g.cfg.OutputDir, base+".pdf")
	docxTarget := filepath.Join(g.cfg.OutputDir, base+".docx")

	var eg errgroup.Group
	var pdfOK, docxOK bool

	eg.Go(func() error {
		source, err := rendering.RenderLaTeX(doc, g.cfg.LaTeXTemplate)
		if err != nil {
			log.Printf("[pipeline] LaTeX rendering failed: %v", err)
			return nil
		}
		if err := rendering.CompilePDF(ctx, source, pdfTarget); err != nil {
			log.Printf("[pipeline] PDF compilation failed: %v", err)
			return nil
		}
		pdfOK = true
		return nil
	})
	eg.Go(func() error {
		if err := rendering.WriteDOCX(doc, docxTarget); err != nil {
			log.Printf("[pipeline] DOCX rendering failed: %v", err)
			return nil
		}
		docxOK = true
		return nil
	})
	_ = eg.Wait()

	if pdfOK {
		pdfPath = pdfTarget
	}
	if docxOK {
		docxPath = docxTarget
	}
	return pdfPath, docxPath
}

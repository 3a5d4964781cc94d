// Package parsing interprets raw job description text into structured
// JDData, using LLM extraction with a rule-based fallback.
package parsing

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/prompts"
	"github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/internal/types"
)

// MinJDLength is the minimum number of characters a job description must
// have before analysis is attempted.
const MinJDLength = 20

// Analyzer interprets job descriptions. With a nil client every analysis
// uses the deterministic rule backend.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer creates a JD analyzer. client may be nil to disable the
// assisted backend.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze interprets a raw job description into structured JDData.
// The assisted backend is tried first when a client is configured; any
// assisted failure downgrades silently to the rule backend. The only error
// this returns is a *ValidationError for input that is too short.
func (a *Analyzer) Analyze(ctx context.Context, rawText string) (*types.JDData, error) {
	if len(strings.TrimSpace(rawText)) < MinJDLength {
		return nil, &ValidationError{
			Field:   "raw_text",
			Message: "job description must be at least 20 characters",
		}
	}

	if a.client != nil {
		jd, err := a.analyzeAssisted(ctx, rawText)
		if err == nil {
			return jd, nil
		}
		log.Printf("[parsing] assisted JD analysis failed, falling back to rules: %v", err)
	}

	return AnalyzeWithRules(rawText), nil
}

// analyzeAssisted runs the LLM extraction prompt and validates the response
// against the JDData schema before trusting any field.
func (a *Analyzer) analyzeAssisted(ctx context.Context, rawText string) (*types.JDData, error) {
	template, err := prompts.Get("jd.json", "analyze-jd")
	if err != nil {
		return nil, &APICallError{Message: "failed to load analysis prompt", Cause: err}
	}
	prompt := prompts.Format(template, map[string]string{
		"JobDescription": rawText,
	})

	response, err := a.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate JD analysis", Cause: err}
	}

	if err := schemas.ValidateJDData(response); err != nil {
		return nil, &ParseError{Message: "JD analysis response failed schema validation", Cause: err}
	}

	var jd types.JDData
	if err := json.Unmarshal([]byte(response), &jd); err != nil {
		return nil, &ParseError{Message: "failed to parse JD analysis response", Cause: err}
	}

	normalizeJDData(&jd)
	return &jd, nil
}

// normalizeJDData fills nil slices so downstream code can range without nil
// checks and clamps the experience level onto the known set.
func normalizeJDData(jd *types.JDData) {
	if jd.MustHaveSkills == nil {
		jd.MustHaveSkills = []string{}
	}
	if jd.NiceToHaveSkills == nil {
		jd.NiceToHaveSkills = []string{}
	}
	if jd.Keywords == nil {
		jd.Keywords = []string{}
	}

	switch strings.ToLower(strings.TrimSpace(jd.ExperienceLevel)) {
	case types.LevelEntry, "junior":
		jd.ExperienceLevel = types.LevelEntry
	case types.LevelSenior, "lead", "principal", "staff":
		jd.ExperienceLevel = types.LevelSenior
	default:
		jd.ExperienceLevel = types.LevelMid
	}
}

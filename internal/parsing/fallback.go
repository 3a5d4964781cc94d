package parsing

import (
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

// maxFallbackMustHaves caps how many lexicon keywords are promoted to
// must-have skills by the rule backend.
const maxFallbackMustHaves = 10

// maxRoleTitleLength truncates the first-line role title.
const maxRoleTitleLength = 100

// techLexicon is the fixed technology vocabulary the rule backend matches
// case-insensitively against JD text. Order is significant: keywords are
// emitted in lexicon order so the fallback is deterministic.
var techLexicon = []string{
	"Python", "Java", "JavaScript", "TypeScript", "React", "Angular",
	"Node.js", "SQL", "PostgreSQL", "MongoDB", "AWS", "GCP", "Azure",
	"Docker", "Kubernetes", "Git", "REST", "GraphQL", "FastAPI", "Django",
	"Flask", "Spring", "TensorFlow", "PyTorch", "Scikit-learn", "Pandas",
	"Machine Learning", "Deep Learning", "NLP", "CI/CD", "Agile", "Scrum",
}

var seniorMarkers = []string{"senior", "lead", "principal", "staff"}
var entryMarkers = []string{"junior", "entry", "intern", "graduate", "fresher"}

// AnalyzeWithRules performs deterministic rule-based JD analysis. Used as
// the fallback when the assisted backend is unavailable or fails.
func AnalyzeWithRules(rawText string) *types.JDData {
	textLower := strings.ToLower(rawText)

	keywords := matchLexicon(textLower)

	mustHaves := keywords
	if len(mustHaves) > maxFallbackMustHaves {
		mustHaves = mustHaves[:maxFallbackMustHaves]
	}

	return &types.JDData{
		RoleTitle:        extractRoleTitle(rawText),
		ExperienceLevel:  guessExperienceLevel(textLower),
		MustHaveSkills:   mustHaves,
		NiceToHaveSkills: []string{},
		Keywords:         keywords,
		RoleCategory:     "General",
	}
}

// matchLexicon returns the lexicon entries present in the lowercased text,
// in lexicon order, deduplicated.
func matchLexicon(textLower string) []string {
	matched := make([]string, 0, 8)
	seen := make(map[string]bool)
	for _, term := range techLexicon {
		termLower := strings.ToLower(term)
		if seen[termLower] {
			continue
		}
		if strings.Contains(textLower, termLower) {
			matched = append(matched, term)
			seen[termLower] = true
		}
	}
	return matched
}

// extractRoleTitle takes the first non-empty line, truncated.
func extractRoleTitle(rawText string) string {
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxRoleTitleLength {
			return line[:maxRoleTitleLength]
		}
		return line
	}
	return "Unknown Role"
}

// guessExperienceLevel looks for seniority markers in the lowercased text.
func guessExperienceLevel(textLower string) string {
	for _, marker := range seniorMarkers {
		if strings.Contains(textLower, marker) {
			return types.LevelSenior
		}
	}
	for _, marker := range entryMarkers {
		if strings.Contains(textLower, marker) {
			return types.LevelEntry
		}
	}
	return types.LevelMid
}

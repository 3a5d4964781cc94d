package selection

import (
	"context"
	"log"
	"strings"

	"github.com/jonathan/resume-forge/internal/embedding"
	"github.com/jonathan/resume-forge/internal/types"
)

// Confidence grading knobs. The semantic probe is capacity-bounded so a
// large profile cannot trigger unbounded embedding calls.
const (
	semanticProbeLimit     = 20
	semanticProbeThreshold = 0.60
)

// gradeSkill determines how well a must-have skill is evidenced:
//
//	strong:   listed as a profile skill (direct or containment match)
//	inferred: mentioned in a bullet, or semantically close to one
//	weak:     no evidence found
//
// Embedding failures during the semantic probe degrade toward weak; they
// never raise.
func (s *Selector) gradeSkill(ctx context.Context, skill string, profileSkills []types.Skill, bulletTexts []string) types.ConfidenceGrade {
	skillLower := strings.ToLower(skill)

	for _, ps := range profileSkills {
		psLower := strings.ToLower(ps.Name)
		if psLower == skillLower || strings.Contains(psLower, skillLower) || strings.Contains(skillLower, psLower) {
			return types.ConfidenceStrong
		}
	}

	for _, bullet := range bulletTexts {
		if strings.Contains(strings.ToLower(bullet), skillLower) {
			return types.ConfidenceInferred
		}
	}

	if s.semanticMatch(ctx, skill, bulletTexts) {
		return types.ConfidenceInferred
	}

	return types.ConfidenceWeak
}

// semanticMatch embeds the skill and probes it against the first few bullet
// texts, looking for a similarity above the threshold.
func (s *Selector) semanticMatch(ctx context.Context, skill string, bulletTexts []string) bool {
	if s.engine == nil || len(bulletTexts) == 0 {
		return false
	}

	probes := bulletTexts
	if len(probes) > semanticProbeLimit {
		probes = probes[:semanticProbeLimit]
	}

	skillVec, err := s.engine.Embed(ctx, skill)
	if err != nil {
		log.Printf("[selection] skill embedding failed, grading %q without semantic probe: %v", skill, err)
		return false
	}

	bulletVecs, err := s.engine.EmbedBatch(ctx, probes)
	if err != nil {
		log.Printf("[selection] bullet embedding failed, grading %q without semantic probe: %v", skill, err)
		return false
	}

	for _, vec := range bulletVecs {
		sim, err := embedding.Cosine(skillVec, vec)
		if err != nil {
			continue
		}
		if sim > semanticProbeThreshold {
			return true
		}
	}
	return false
}

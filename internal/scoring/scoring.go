package scoring

import (
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-forge/internal/embedding"
	"github.com/jonathan/resume-forge/internal/types"
)

// Engine scores bullets and sections against a JD using a weight table.
// The zero value is not usable; construct with NewEngine.
type Engine struct {
	weights Weights

	// now is injectable for recency tests
	now func() time.Time
}

// NewEngine creates a scoring engine with the given weights.
func NewEngine(weights Weights) *Engine {
	return &Engine{weights: weights, now: time.Now}
}

// NewDefaultEngine creates a scoring engine with the production weight table.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultWeights())
}

// ScoreBullet computes the composite score for a single bullet. Vectors may
// be nil; scoring then uses the constant semantic default. The returned
// value is unrounded; callers sort on it directly and round only for
// display via Round4.
func (e *Engine) ScoreBullet(text string, bulletVec, jdVec []float32, jd *types.JDData, sectionType types.SectionType, endDate string) float64 {
	semantic := e.semantic(bulletVec, jdVec)
	importance := e.skillImportance(text, jd)
	priority := e.weights.priority(sectionType)
	recency := e.recencyWeight(endDate)
	kwBonus := e.keywordBonus(text, jd)

	return semantic*importance*priority*recency + kwBonus
}

// ScoreSection computes the section-level score. Identical to ScoreBullet
// minus the skill-importance factor, which is a bullet-level signal.
func (e *Engine) ScoreSection(text string, sectionVec, jdVec []float32, jd *types.JDData, sectionType types.SectionType, endDate string) float64 {
	semantic := e.semantic(sectionVec, jdVec)
	priority := e.weights.priority(sectionType)
	recency := e.recencyWeight(endDate)
	kwBonus := e.keywordBonus(text, jd)

	return semantic*priority*recency + kwBonus
}

// Round4 rounds a raw score to four decimal places for display and
// persistence. Comparisons always use the raw value.
func Round4(score float64) float64 {
	return math.Round(score*10000) / 10000
}

// semantic returns the cosine similarity when both vectors exist, else the
// constant default. A dimension mismatch is a deployment invariant
// violation; it is logged and scored with the default so one corrupt
// vector cannot sink a request.
func (e *Engine) semantic(vec, jdVec []float32) float64 {
	if len(vec) == 0 || len(jdVec) == 0 {
		return DefaultSemantic
	}
	sim, err := embedding.Cosine(vec, jdVec)
	if err != nil {
		log.Printf("[scoring] cosine failed, using default semantic: %v", err)
		return DefaultSemantic
	}
	return sim
}

// skillImportance checks whether the text mentions a must-have or
// nice-to-have skill (case-insensitive substring).
func (e *Engine) skillImportance(text string, jd *types.JDData) float64 {
	textLower := strings.ToLower(text)

	for _, skill := range jd.MustHaveSkills {
		if skill != "" && strings.Contains(textLower, strings.ToLower(skill)) {
			return e.weights.MustHave
		}
	}
	for _, skill := range jd.NiceToHaveSkills {
		if skill != "" && strings.Contains(textLower, strings.ToLower(skill)) {
			return e.weights.NiceToHave
		}
	}
	return NeutralImportance
}

// keywordBonus counts distinct JD keywords appearing in the text, capped.
func (e *Engine) keywordBonus(text string, jd *types.JDData) float64 {
	textLower := strings.ToLower(text)

	bonus := 0.0
	for _, kw := range jd.Keywords {
		if kw != "" && strings.Contains(textLower, strings.ToLower(kw)) {
			bonus += e.weights.KeywordBonus
		}
	}
	return math.Min(bonus, e.weights.KeywordCap)
}

// recencyWeight decays the score of older experience. End dates are
// "YYYY-MM" strings or "Present"; empty means a current role.
func (e *Engine) recencyWeight(endDate string) float64 {
	if endDate == "" || strings.EqualFold(endDate, "Present") {
		return 1.0
	}

	yearStr, _, _ := strings.Cut(endDate, "-")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return recencyMalformed
	}

	yearsAgo := e.now().Year() - year
	if yearsAgo < 0 {
		yearsAgo = 0
	}
	return math.Max(recencyFloor, 1.0-float64(yearsAgo)*recencyDecay)
}

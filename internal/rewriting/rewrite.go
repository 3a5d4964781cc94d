// Package rewriting polishes selected bullet wording under strict
// anti-fabrication constraints. The LLM acts as a rewriter, not a
// decision-maker: its output must be a JSON array of strings with one entry
// per input bullet, or the whole rewrite is rejected in favor of the
// deterministic fallback.
package rewriting

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/prompts"
	"github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/internal/types"
)

// maxPromptKeywords bounds how many JD keywords the rewrite prompt suggests.
const maxPromptKeywords = 10

// Rewriter rewrites draft bullets. With a nil client the deterministic
// fallback is used for every bullet.
type Rewriter struct {
	client llm.Client
}

// NewRewriter creates a bullet rewriter. client may be nil to disable
// assisted mode.
func NewRewriter(client llm.Client) *Rewriter {
	return &Rewriter{client: client}
}

// RewriteDraft sets RewrittenText on every selected bullet in the draft,
// experience sections first, then projects. Rewrite rejection is silent:
// the fallback runs and the draft is always left with non-empty rewritten
// text for every non-empty original. Never returns an error for business
// reasons; the operation is total.
func (r *Rewriter) RewriteDraft(ctx context.Context, draft *types.ResumeDraft) {
	bullets := collectBullets(draft)
	if len(bullets) == 0 {
		return
	}

	var keywords []string
	if draft.JD != nil {
		keywords = draft.JD.Keywords
	}
	jobTitle := ""
	if draft.JD != nil {
		jobTitle = draft.JD.RoleTitle
	}

	rewritten := false
	if r.client != nil {
		if err := r.rewriteAssisted(ctx, bullets, jobTitle, keywords); err != nil {
			log.Printf("[rewriting] assisted rewrite rejected, using fallback: %v", err)
		} else {
			rewritten = true
		}
	}
	if !rewritten {
		rewriteFallback(bullets)
	}

	// Idempotence post-step: anything still empty copies its original.
	for _, b := range bullets {
		if b.RewrittenText == "" {
			b.RewrittenText = b.OriginalText
		}
	}
}

// collectBullets flattens draft bullets into pointers so rewrites land in
// place: experience sections in draft order, then project sections.
func collectBullets(draft *types.ResumeDraft) []*types.ScoredBullet {
	var out []*types.ScoredBullet
	for i := range draft.ExperienceSections {
		for j := range draft.ExperienceSections[i].Bullets {
			out = append(out, &draft.ExperienceSections[i].Bullets[j])
		}
	}
	for i := range draft.ProjectSections {
		for j := range draft.ProjectSections[i].Bullets {
			out = append(out, &draft.ProjectSections[i].Bullets[j])
		}
	}
	return out
}

// rewriteAssisted sends one prompt covering all bullets and strictly
// enforces the response contract: valid JSON, array of strings, length
// equal to the input. Any violation is a rejection.
func (r *Rewriter) rewriteAssisted(ctx context.Context, bullets []*types.ScoredBullet, jobTitle string, keywords []string) error {
	originals := make([]string, len(bullets))
	for i, b := range bullets {
		originals[i] = b.OriginalText
	}

	prompt, err := buildRewritePrompt(originals, jobTitle, keywords)
	if err != nil {
		return err
	}

	response, err := r.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return &APICallError{Message: "failed to generate rewritten bullets", Cause: err}
	}

	if err := schemas.ValidateRewriteOutput(response); err != nil {
		return &RejectionError{Reason: "response failed schema validation", Cause: err}
	}

	var rewritten []string
	if err := json.Unmarshal([]byte(response), &rewritten); err != nil {
		return &RejectionError{Reason: "response is not a JSON string array", Cause: err}
	}

	if len(rewritten) != len(bullets) {
		return &RejectionError{
			Reason: "response length mismatch",
			Detail: len(rewritten),
			Want:   len(bullets),
		}
	}

	for i, b := range bullets {
		b.RewrittenText = rewritten[i]
	}
	return nil
}

// buildRewritePrompt fills the rewrite template with the job title, the
// first few keywords, and the JSON-encoded bullet list.
func buildRewritePrompt(originals []string, jobTitle string, keywords []string) (string, error) {
	template, err := prompts.Get("rewrite.json", "rewrite-bullets")
	if err != nil {
		return "", &APICallError{Message: "failed to load rewrite prompt", Cause: err}
	}

	if len(keywords) > maxPromptKeywords {
		keywords = keywords[:maxPromptKeywords]
	}
	kwJoined := ""
	for i, kw := range keywords {
		if i > 0 {
			kwJoined += ", "
		}
		kwJoined += kw
	}

	bulletJSON, err := json.Marshal(originals)
	if err != nil {
		return "", &APICallError{Message: "failed to encode bullets", Cause: err}
	}

	return prompts.Format(template, map[string]string{
		"JobTitle": jobTitle,
		"Keywords": kwJoined,
		"Bullets":  string(bulletJSON),
	}), nil
}

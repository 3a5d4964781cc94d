package rewriting

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-forge/internal/types"
)

// actionVerbs is the fixed cyclic verb list the fallback prepends, indexed
// by bullet position.
var actionVerbs = []string{
	"Developed", "Implemented", "Designed", "Engineered", "Built",
	"Optimized", "Led", "Managed", "Created", "Deployed",
}

// rewriteFallback is the deterministic rewrite: prepend an action verb when
// the bullet does not already start with one, and normalize trailing
// punctuation. Same input always yields the same output.
func rewriteFallback(bullets []*types.ScoredBullet) {
	for i, b := range bullets {
		b.RewrittenText = fallbackText(b.OriginalText, i)
	}
}

// fallbackText rewrites a single bullet at position i.
func fallbackText(original string, i int) string {
	text := strings.TrimSpace(original)
	if text == "" {
		return ""
	}

	firstWord := strings.Fields(text)[0]
	if needsVerb(firstWord) {
		verb := actionVerbs[i%len(actionVerbs)]
		text = verb + " " + lowerFirst(text)
	}

	return strings.TrimSuffix(text, ".")
}

// needsVerb reports whether a bullet's first token reads like a fragment:
// lowercase start or a gerund ("building", "managing").
func needsVerb(firstWord string) bool {
	r := []rune(firstWord)
	if len(r) == 0 {
		return false
	}
	return !unicode.IsUpper(r[0]) || strings.HasSuffix(firstWord, "ing")
}

// lowerFirst lowercases the first rune of s.
func lowerFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

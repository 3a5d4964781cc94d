package pipeline

import (
	"fmt"
	"strings"
)

// SanitizeTitle reduces a job title to filename-safe characters: letters,
// digits, hyphen, underscore, and space survive; everything else is dropped.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BaseName returns the output filename stem for a resume:
// "{sanitized_title}_v{version}" with spaces turned into underscores.
func BaseName(title string, version int) string {
	name := fmt.Sprintf("%s_v%d", SanitizeTitle(title), version)
	return strings.ReplaceAll(name, " ", "_")
}

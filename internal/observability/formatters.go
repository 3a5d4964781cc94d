// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJDData outputs a human-readable summary of the interpreted job
// description.
func (p *Printer) PrintJDData(jd *types.JDData) {
	if jd == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:   %s\n", jd.RoleTitle))
	sb.WriteString(fmt.Sprintf("Level:  %s\n", jd.ExperienceLevel))
	if jd.RoleCategory != "" {
		sb.WriteString(fmt.Sprintf("Field:  %s\n", jd.RoleCategory))
	}

	writeItemList(&sb, "Must-have Skills", jd.MustHaveSkills)
	writeItemList(&sb, "Nice-to-have Skills", jd.NiceToHaveSkills)
	writeItemList(&sb, "Keywords", jd.Keywords)

	p.printBox("INTERPRETED JOB DESCRIPTION", strings.TrimRight(sb.String(), "\n"))
}

// PrintSelection outputs the selected sections with their scores and the
// skill confidence grades.
func (p *Printer) PrintSelection(draft *types.ResumeDraft) {
	if draft == nil {
		return
	}

	var sb strings.Builder

	if len(draft.ExperienceSections) > 0 {
		sb.WriteString("Experience:\n")
		writeSections(&sb, draft.ExperienceSections)
	}
	if len(draft.ProjectSections) > 0 {
		sb.WriteString("Projects:\n")
		writeSections(&sb, draft.ProjectSections)
	}
	if len(draft.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills (%d): %s\n", len(draft.Skills), strings.Join(draft.Skills, ", ")))
	}

	if len(draft.SkillConfidence) > 0 {
		sb.WriteString("\nMust-have Confidence:\n")
		for _, skill := range sortedKeys(draft.SkillConfidence) {
			sb.WriteString(fmt.Sprintf("  %s %s\n", confidenceMark(draft.SkillConfidence[skill]), skill))
		}
	}

	p.printBox("SELECTED CONTENT", strings.TrimRight(sb.String(), "\n"))
}

// PrintCoverage outputs the ATS keyword coverage table.
func (p *Printer) PrintCoverage(coverage map[string]bool) {
	if len(coverage) == 0 {
		return
	}

	covered := 0
	var sb strings.Builder
	for _, kw := range sortedKeys(coverage) {
		mark := "✗"
		if coverage[kw] {
			mark = "✓"
			covered++
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n", mark, kw))
	}

	header := fmt.Sprintf("Covered %d of %d keywords:\n", covered, len(coverage))
	p.printBox("KEYWORD COVERAGE", strings.TrimRight(header+sb.String(), "\n"))
}

func writeSections(sb *strings.Builder, sections []types.ScoredSection) {
	for _, s := range sections {
		sb.WriteString(fmt.Sprintf("  %.4f  %s", s.Score, s.Title))
		if s.Subtitle != "" {
			sb.WriteString(" — " + s.Subtitle)
		}
		sb.WriteString(fmt.Sprintf(" (%d bullets)\n", len(s.Bullets)))
	}
}

func writeItemList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", label))
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

func confidenceMark(grade types.ConfidenceGrade) string {
	switch grade {
	case types.ConfidenceStrong:
		return "✓"
	case types.ConfidenceInferred:
		return "~"
	default:
		return "✗"
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package rendering turns an assembled resume document into LaTeX/PDF and
// DOCX artifacts.
package rendering

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-forge/internal/types"
)

//go:embed template.tex
var defaultTemplate string

// TemplateData is the pre-escaped view of a resume document handed to the
// LaTeX template.
type TemplateData struct {
	Name    string
	Contact string

	Education      []string
	Experience     []EntrySection
	Projects       []EntrySection
	Skills         string
	Certifications []string
	Achievements   []string
	Links          []string
}

// EntrySection is one experience or project entry.
type EntrySection struct {
	Title    string
	Subtitle string
	Bullets  []string
}

// RenderLaTeX renders a resume document to LaTeX source. templatePath, when
// non-empty, overrides the embedded default template.
func RenderLaTeX(doc *types.ResumeDocument, templatePath string) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, buildTemplateData(doc)); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}

func parseTemplate(templatePath string) (*template.Template, error) {
	content := defaultTemplate
	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, &TemplateError{
				Message: fmt.Sprintf("failed to read template file: %s", templatePath),
				Cause:   err,
			}
		}
		content = string(data)
	}

	tmpl, err := template.New("resume").Parse(content)
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse template", Cause: err}
	}
	return tmpl, nil
}

// buildTemplateData flattens the document into escaped strings in the order
// the template emits them.
func buildTemplateData(doc *types.ResumeDocument) *TemplateData {
	data := &TemplateData{}

	if doc.PersonalInfo != nil {
		data.Name = EscapeLaTeX(doc.PersonalInfo.FullName)
		data.Contact = EscapeLaTeX(contactLine(doc.PersonalInfo))
	}

	for _, edu := range doc.Education {
		data.Education = append(data.Education, EscapeLaTeX(educationLine(edu)))
	}
	data.Experience = entrySections(doc.Experience)
	data.Projects = entrySections(doc.Projects)
	if len(doc.Skills) > 0 {
		data.Skills = EscapeLaTeX(strings.Join(doc.Skills, ", "))
	}
	for _, cert := range doc.Certifications {
		data.Certifications = append(data.Certifications, EscapeLaTeX(certificationLine(cert)))
	}
	for _, ach := range doc.Achievements {
		data.Achievements = append(data.Achievements, EscapeLaTeX(achievementLine(ach)))
	}
	for _, ep := range doc.ExternalProfiles {
		data.Links = append(data.Links, EscapeLaTeX(ep.Platform+": "+ep.ProfileURL))
	}

	return data
}

func entrySections(sections []types.DocumentSection) []EntrySection {
	out := make([]EntrySection, 0, len(sections))
	for _, s := range sections {
		entry := EntrySection{
			Title:    EscapeLaTeX(s.Title),
			Subtitle: EscapeLaTeX(s.Subtitle),
		}
		for _, b := range s.Bullets {
			entry.Bullets = append(entry.Bullets, EscapeLaTeX(b))
		}
		out = append(out, entry)
	}
	return out
}

func contactLine(pi *types.PersonalInfo) string {
	parts := []string{}
	if pi.Email != "" {
		parts = append(parts, pi.Email)
	}
	if pi.PhoneNumber != "" {
		parts = append(parts, pi.PhoneNumber)
	}
	return strings.Join(parts, " | ")
}

func educationLine(edu types.Education) string {
	text := edu.Degree
	if edu.FieldOfStudy != "" {
		text += " in " + edu.FieldOfStudy
	}
	text += " -- " + edu.Institution
	if edu.StartYear != 0 || edu.EndYear != 0 {
		text += fmt.Sprintf(" (%s - %s)", yearString(edu.StartYear), yearString(edu.EndYear))
	}
	return text
}

func certificationLine(cert types.Certification) string {
	text := cert.Name
	if cert.IssuingOrganization != "" {
		text += " -- " + cert.IssuingOrganization
	}
	if cert.Year != 0 {
		text += fmt.Sprintf(" (%d)", cert.Year)
	}
	return text
}

func achievementLine(ach types.Achievement) string {
	if ach.Description != "" {
		return ach.Title + ": " + ach.Description
	}
	return ach.Title
}

func yearString(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%d", year)
}

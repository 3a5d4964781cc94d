package rendering

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

// DOCX geometry and typography. Sizes follow OOXML conventions: margins in
// twips (1/1440 in), font sizes in half-points.
const (
	docxMarginTwips  = 864 // 0.6in
	docxBodyHalfPt   = 22  // 11pt Calibri
	docxNameHalfPt   = 36  // 18pt
	docxBulletIndent = 360 // 0.25in
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>
`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>
`

// WriteDOCX writes the resume document as a minimal OOXML package: one
// document part, no styles part, all formatting inline.
func WriteDOCX(doc *types.ResumeDocument, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &RenderError{Message: "failed to create output directory", Cause: err}
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return &RenderError{Message: "failed to create DOCX file", Cause: err}
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	parts := []struct {
		name, content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", documentXML(doc)},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return &RenderError{Message: fmt.Sprintf("failed to create part %s", part.name), Cause: err}
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return &RenderError{Message: fmt.Sprintf("failed to write part %s", part.name), Cause: err}
		}
	}

	if err := zw.Close(); err != nil {
		return &RenderError{Message: "failed to finalize DOCX package", Cause: err}
	}
	return nil
}

// documentXML emits word/document.xml with the canonical section order.
func documentXML(doc *types.ResumeDocument) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	if doc.PersonalInfo != nil {
		writeParagraph(&b, doc.PersonalInfo.FullName, paraOpts{center: true, bold: true, halfPt: docxNameHalfPt})
		if contact := contactLine(doc.PersonalInfo); contact != "" {
			writeParagraph(&b, contact, paraOpts{center: true})
		}
	}

	if len(doc.Education) > 0 {
		writeHeading(&b, "Education")
		for _, edu := range doc.Education {
			writeParagraph(&b, educationLine(edu), paraOpts{})
		}
	}

	writeEntrySections(&b, "Experience", doc.Experience, "  —  ")
	writeEntrySections(&b, "Projects", doc.Projects, "  |  ")

	if len(doc.Skills) > 0 {
		writeHeading(&b, "Skills")
		writeParagraph(&b, strings.Join(doc.Skills, ", "), paraOpts{})
	}

	if len(doc.Certifications) > 0 {
		writeHeading(&b, "Certifications")
		for _, cert := range doc.Certifications {
			writeParagraph(&b, certificationLine(cert), paraOpts{})
		}
	}

	if len(doc.Achievements) > 0 {
		writeHeading(&b, "Achievements")
		for _, ach := range doc.Achievements {
			writeBullet(&b, achievementLine(ach))
		}
	}

	if len(doc.ExternalProfiles) > 0 {
		writeHeading(&b, "Links")
		for _, ep := range doc.ExternalProfiles {
			writeParagraph(&b, ep.Platform+": "+ep.ProfileURL, paraOpts{})
		}
	}

	fmt.Fprintf(&b,
		`<w:sectPr><w:pgMar w:top="%d" w:bottom="%d" w:left="%d" w:right="%d"/></w:sectPr>`,
		docxMarginTwips, docxMarginTwips, docxMarginTwips, docxMarginTwips)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeEntrySections(b *strings.Builder, heading string, sections []types.DocumentSection, subtitleSep string) {
	if len(sections) == 0 {
		return
	}
	writeHeading(b, heading)
	for _, s := range sections {
		title := s.Title
		if s.Subtitle != "" {
			title += subtitleSep + s.Subtitle
		}
		writeParagraph(b, title, paraOpts{bold: true})
		for _, bullet := range s.Bullets {
			writeBullet(b, bullet)
		}
	}
}

type paraOpts struct {
	center bool
	bold   bool
	halfPt int // 0 means body size
	indent int
	prefix string
}

func writeHeading(b *strings.Builder, text string) {
	writeParagraph(b, text, paraOpts{bold: true, halfPt: 26})
}

func writeBullet(b *strings.Builder, text string) {
	writeParagraph(b, text, paraOpts{indent: docxBulletIndent, prefix: "• "})
}

func writeParagraph(b *strings.Builder, text string, opts paraOpts) {
	b.WriteString(`<w:p><w:pPr>`)
	if opts.center {
		b.WriteString(`<w:jc w:val="center"/>`)
	}
	if opts.indent > 0 {
		fmt.Fprintf(b, `<w:ind w:left="%d"/>`, opts.indent)
	}
	b.WriteString(`</w:pPr><w:r><w:rPr>`)
	b.WriteString(`<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/>`)
	if opts.bold {
		b.WriteString(`<w:b/>`)
	}
	size := opts.halfPt
	if size == 0 {
		size = docxBodyHalfPt
	}
	fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, size, size)
	b.WriteString(`</w:rPr><w:t xml:space="preserve">`)
	b.WriteString(escapeXML(opts.prefix + text))
	b.WriteString(`</w:t></w:r></w:p>`)
}

func escapeXML(text string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(text))
	return b.String()
}

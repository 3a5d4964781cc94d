package rendering

import (
	"archive/zip"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDocxPart(t *testing.T, path, part string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	for _, f := range r.File {
		if f.Name == part {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatalf("part %s not found in %s", part, path)
	return ""
}

func TestWriteDOCX_PackageStructure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.docx")
	require.NoError(t, WriteDOCX(sampleDocument(), path))

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	assert.True(t, names["word/document.xml"])
}

func TestWriteDOCX_DocumentContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.docx")
	require.NoError(t, WriteDOCX(sampleDocument(), path))

	body := readDocxPart(t, path, "word/document.xml")
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "ada@example.com | +1 555 0100")
	assert.Contains(t, body, "Engineer  —  TechCorp | 2021-03 – Present")
	assert.Contains(t, body, "Chat App  |  Go, Redis")
	assert.Contains(t, body, "• Built the billing service")
	assert.Contains(t, body, "Python, Docker")
	assert.Contains(t, body, "CKA -- CNCF (2023)")
}

func TestWriteDOCX_Formatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.docx")
	require.NoError(t, WriteDOCX(sampleDocument(), path))

	body := readDocxPart(t, path, "word/document.xml")
	// 0.6in margins and the 18pt name run
	assert.Contains(t, body, `<w:pgMar w:top="864" w:bottom="864" w:left="864" w:right="864"/>`)
	assert.Contains(t, body, `<w:sz w:val="36"/>`)
	assert.Contains(t, body, `<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/>`)
	assert.Contains(t, body, `<w:jc w:val="center"/>`)
}

func TestWriteDOCX_EscapesXML(t *testing.T) {
	doc := sampleDocument()
	doc.Experience[0].Bullets = []string{"Migrated <legacy> & modern systems"}

	path := filepath.Join(t.TempDir(), "resume.docx")
	require.NoError(t, WriteDOCX(doc, path))

	body := readDocxPart(t, path, "word/document.xml")
	assert.Contains(t, body, "Migrated &lt;legacy&gt; &amp; modern systems")
}

func TestWriteDOCX_CreatesOutputDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "resume.docx")
	require.NoError(t, WriteDOCX(sampleDocument(), path))

	body := readDocxPart(t, path, "word/document.xml")
	assert.NotEmpty(t, body)
}

package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("jd.json", "analyze-jd")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "role_title")
	assert.Contains(t, prompt, "{{.JobDescription}}")
}

func TestGet_RewritePrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("rewrite.json", "rewrite-bullets")
	require.NoError(t, err)
	assert.Contains(t, prompt, "DO NOT invent or fabricate")
	assert.Contains(t, prompt, "{{.JobTitle}}")
	assert.Contains(t, prompt, "{{.Bullets}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("jd.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("jd.json", "analyze-jd")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Rewrite for {{.JobTitle}} using {{.Keywords}}"
	data := map[string]string{
		"JobTitle": "Backend Engineer",
		"Keywords": "Go, PostgreSQL",
	}

	result := Format(template, data)
	assert.Equal(t, "Rewrite for Backend Engineer using Go, PostgreSQL", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("jd.json", "analyze-jd")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("jd.json", "analyze-jd")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}

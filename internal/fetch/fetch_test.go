package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "invalid URL")
}

func TestURL_Non200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestURL_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestExtractJobText_RemovesNoise(t *testing.T) {
	html := `<html><body>
		<nav>Navigation</nav>
		<div class="job-description">We are hiring a Go engineer.</div>
		<form id="application-form">Apply here</form>
		<footer>Footer text</footer>
	</body></html>`

	text, err := ExtractJobText(html, "https://example.com/jobs/1")
	require.NoError(t, err)
	assert.Contains(t, text, "We are hiring a Go engineer.")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Apply here")
	assert.NotContains(t, text, "Footer text")
}

func TestExtractJobText_GreenhouseSelector(t *testing.T) {
	html := `<html><body>
		<div class="content">Wrong section</div>
		<div class="job__description body">Greenhouse description text</div>
	</body></html>`

	text, err := ExtractJobText(html, "https://boards.greenhouse.io/acme/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, "Greenhouse description text", text)
}

func TestExtractJobText_FallsBackToBody(t *testing.T) {
	html := `<html><body><p>Plain description</p></body></html>`

	text, err := ExtractJobText(html, "https://example.com/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, "Plain description", text)
}

func TestExtractJobText_CleansWhitespace(t *testing.T) {
	html := "<html><body><main>  line one  \n\n\n   line two   </main></body></html>"

	text, err := ExtractJobText(html, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", text)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser(""))
	assert.True(t, ShouldUseBrowser("short text"))
	assert.False(t, ShouldUseBrowser(strings.Repeat("long enough content ", 30)))
}

func TestJobDescription_StaticPage(t *testing.T) {
	description := strings.Repeat("A detailed job description paragraph. ", 20)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="job-description">` + description + `</div></body></html>`))
	}))
	defer server.Close()

	text, err := JobDescription(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "A detailed job description paragraph.")
}

func TestJobDescription_FetchFailure(t *testing.T) {
	_, err := JobDescription(context.Background(), "://bad", nil)
	require.Error(t, err)
}

package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestEngine(t *testing.T, serverURL string, dims int) *LocalEngine {
	t.Helper()
	engine, err := NewLocalEngine(Config{
		Backend:    BackendLocal,
		Model:      "all-MiniLM-L6-v2",
		Dimensions: dims,
		LocalURL:   serverURL,
	})
	require.NoError(t, err)
	return engine
}

func TestLocalEngineEmbed(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req localEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-MiniLM-L6-v2", req.Model)
		assert.Equal(t, "hello world", req.Prompt)

		json.NewEncoder(w).Encode(localEmbedResponse{Embedding: []float32{3, 4}})
	})

	engine := newTestEngine(t, server.URL, 2)
	vector, err := engine.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	require.Len(t, vector, 2)

	// Response vectors come back unit-normalized.
	var mag float64
	for _, x := range vector {
		mag += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(mag), 1e-6)
}

func TestLocalEngineEmbedDimensionMismatch(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(localEmbedResponse{Embedding: []float32{1, 2, 3}})
	})

	engine := newTestEngine(t, server.URL, 384)
	_, err := engine.Embed(context.Background(), "text")
	require.Error(t, err)

	var dimErr *DimensionMismatchError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 384, dimErr.Want)
	assert.Equal(t, 3, dimErr.Got)
}

func TestLocalEngineEmbedServerError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	engine := newTestEngine(t, server.URL, 2)
	_, err := engine.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestLocalEngineEmbedBatch(t *testing.T) {
	var prompts []string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req localEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompts = append(prompts, req.Prompt)
		json.NewEncoder(w).Encode(localEmbedResponse{Embedding: []float32{1, 0}})
	})

	engine := newTestEngine(t, server.URL, 2)
	vectors, err := engine.EmbedBatch(context.Background(), []string{"first", "second", "third"})
	require.NoError(t, err)
	assert.Len(t, vectors, 3)
	assert.Equal(t, []string{"first", "second", "third"}, prompts)
}

func TestLocalEngineHealthCheck(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	engine := newTestEngine(t, server.URL, 2)
	assert.NoError(t, engine.HealthCheck(context.Background()))
}

func TestLocalEngineMetadata(t *testing.T) {
	engine := newTestEngine(t, "http://localhost:11434", 384)
	assert.Equal(t, 384, engine.Dimensions())
	assert.Equal(t, "local:all-MiniLM-L6-v2", engine.Name())
}

func TestNewLocalEngineInvalidDimensions(t *testing.T) {
	_, err := NewLocalEngine(Config{Dimensions: 0})
	require.Error(t, err)
}

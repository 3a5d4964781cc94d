package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LocalEngine generates embeddings through a local inference server speaking
// the Ollama embeddings API (POST /api/embeddings). This is how sentence
// transformer models like all-MiniLM-L6-v2 are served in development.
type LocalEngine struct {
	baseURL string
	model   string
	dims    int
	client  *http.Client
}

// NewLocalEngine creates a local-server engine from config.
func NewLocalEngine(cfg Config) (*LocalEngine, error) {
	if cfg.Dimensions < 1 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", cfg.Dimensions)
	}

	baseURL := cfg.LocalURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &LocalEngine{
		baseURL: baseURL,
		model:   cfg.Model,
		dims:    cfg.Dimensions,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type localEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type localEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed generates a unit-normalized embedding for a single text.
func (e *LocalEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(localEmbedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding server request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("embedding server returned status %d: %s", resp.StatusCode, string(body))
	}

	var result localEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}

	if len(result.Embedding) != e.dims {
		return nil, &DimensionMismatchError{Want: e.dims, Got: len(result.Embedding)}
	}
	return Normalize(result.Embedding), nil
}

// EmbedBatch generates embeddings sequentially; the local API has no
// native batch endpoint.
func (e *LocalEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Dimensions returns the configured vector dimensionality.
func (e *LocalEngine) Dimensions() int {
	return e.dims
}

// Name returns the engine name for logs.
func (e *LocalEngine) Name() string {
	return fmt.Sprintf("local:%s", e.model)
}

// HealthCheck verifies the inference server is reachable.
func (e *LocalEngine) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("embedding server unreachable: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// GeminiEngine generates embeddings through the Gemini embedding API.
type GeminiEngine struct {
	client      *genai.Client
	model       string
	dims        int
	callTimeout time.Duration
	limiter     *rate.Limiter
}

// NewGeminiEngine creates a Gemini-backed engine from config.
func NewGeminiEngine(ctx context.Context, cfg Config) (*GeminiEngine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for the gemini embedding backend")
	}
	if cfg.Dimensions < 1 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", cfg.Dimensions)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "text-embedding-004"
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &GeminiEngine{
		client:      client,
		model:       model,
		dims:        cfg.Dimensions,
		callTimeout: cfg.CallTimeout,
		limiter:     limiter,
	}, nil
}

// Embed generates a unit-normalized embedding for a single text.
func (e *GeminiEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if err := e.wait(ctx); err != nil {
		return nil, err
	}

	em := e.embeddingModel()
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("no embedding in response")
	}
	return e.checkAndNormalize(resp.Embedding.Values)
}

// EmbedBatch generates embeddings for multiple texts in one API call.
func (e *GeminiEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if err := e.wait(ctx); err != nil {
		return nil, err
	}

	em := e.embeddingModel()
	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to embed batch: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding batch returned %d vectors for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		v, err := e.checkAndNormalize(emb.Values)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Dimensions returns the configured vector dimensionality.
func (e *GeminiEngine) Dimensions() int {
	return e.dims
}

// Name returns the engine name for logs.
func (e *GeminiEngine) Name() string {
	return fmt.Sprintf("gemini:%s", e.model)
}

// Close releases the underlying API client.
func (e *GeminiEngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func (e *GeminiEngine) embeddingModel() *genai.EmbeddingModel {
	em := e.client.EmbeddingModel(e.model)
	em.TaskType = genai.TaskTypeSemanticSimilarity
	return em
}

func (e *GeminiEngine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.callTimeout > 0 {
		return context.WithTimeout(ctx, e.callTimeout)
	}
	return ctx, func() {}
}

func (e *GeminiEngine) wait(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

func (e *GeminiEngine) checkAndNormalize(v []float32) ([]float32, error) {
	if len(v) != e.dims {
		return nil, &DimensionMismatchError{Want: e.dims, Got: len(v)}
	}
	return Normalize(v), nil
}

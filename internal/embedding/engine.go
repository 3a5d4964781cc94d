// Package embedding provides vector embedding generation for relevance
// scoring. Two backends are supported: a local inference server (Ollama-style
// HTTP API) and Google Gemini.
package embedding

import (
	"context"
	"fmt"
	"time"
)

// Engine generates vector embeddings for text.
type Engine interface {
	// Embed generates an embedding for a single text
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch generates embeddings for multiple texts
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions returns the dimensionality of produced vectors
	Dimensions() int
	// Name returns the engine name for logs
	Name() string
}

// HealthChecker is an optional interface for engines that can verify
// availability before a batch run.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Backend identifiers accepted by NewEngine.
const (
	BackendLocal  = "local"
	BackendGemini = "gemini"
)

// Config holds embedding engine configuration.
type Config struct {
	// Backend: "local" or "gemini"
	Backend string

	// Model is the embedding model identifier (EMBEDDING_MODEL).
	Model string

	// Dimensions is the expected vector dimensionality (EMBEDDING_DIM).
	// Every produced vector is checked against it.
	Dimensions int

	// LocalURL is the base URL of the local inference server.
	LocalURL string

	// APIKey authenticates the gemini backend.
	APIKey string

	// CallTimeout applies per request.
	CallTimeout time.Duration

	// RequestsPerMinute bounds outbound gemini calls; zero disables.
	RequestsPerMinute int
}

// DefaultConfig returns the local-backend defaults.
func DefaultConfig() Config {
	return Config{
		Backend:     BackendLocal,
		Model:       "all-MiniLM-L6-v2",
		Dimensions:  384,
		LocalURL:    "http://localhost:11434",
		CallTimeout: 30 * time.Second,
	}
}

// NewEngine creates an embedding engine based on configuration. The engine
// is constructed once and passed explicitly to whatever needs it; there is
// no process-wide instance.
func NewEngine(ctx context.Context, cfg Config) (Engine, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocalEngine(cfg)
	case BackendGemini:
		return NewGeminiEngine(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown embedding backend: %q", cfg.Backend)
	}
}

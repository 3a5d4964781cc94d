package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, 60, cfg.RequestsPerMinute)
	assert.Equal(t, 30*time.Second, cfg.CallTimeout)
}

func TestWithModel(t *testing.T) {
	cfg := DefaultConfig()
	custom := cfg.WithModel("gemini-2.5-pro")

	assert.Equal(t, "gemini-2.5-pro", custom.Model)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model, "original config unchanged")
	assert.Equal(t, cfg.RequestsPerMinute, custom.RequestsPerMinute)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultConfig(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, "all-MiniLM-L6-v2", cfg.Model)
	assert.Equal(t, 384, cfg.Dimensions)
	assert.Equal(t, "http://localhost:11434", cfg.LocalURL)
	assert.Equal(t, 30*time.Second, cfg.CallTimeout)
}

func TestNewEngineLocal(t *testing.T) {
	engine, err := NewEngine(context.Background(), DefaultConfig())
	require.NoError(t, err)
	assert.IsType(t, &LocalEngine{}, engine)
}

func TestNewEngineDefaultsToLocal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = ""

	engine, err := NewEngine(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalEngine{}, engine)
}

func TestNewEngineUnknownBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "quantum"

	_, err := NewEngine(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown embedding backend")
}

func TestNewGeminiEngineRequiresAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendGemini
	cfg.APIKey = ""

	_, err := NewGeminiEngine(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

// Package llm provides the text-generation client abstraction and its
// Gemini implementation.
package llm

import "time"

// Provider represents an LLM provider.
type Provider string

// Provider constants define supported LLM providers.
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
)

// Config holds the model configuration for the application.
type Config struct {
	Provider Provider
	// Model is the generation model identifier (LLM_MODEL).
	Model string
	// RequestsPerMinute bounds outbound calls; zero disables the limiter.
	RequestsPerMinute int
	// CallTimeout applies per request; zero means no extra deadline.
	CallTimeout time.Duration
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGemini,
		Model:             "gemini-2.0-flash",
		RequestsPerMinute: 60,
		CallTimeout:       30 * time.Second,
	}
}

// WithModel returns a copy of the config using the given model.
func (c *Config) WithModel(model string) *Config {
	out := *c
	out.Model = model
	return &out
}

// Package config provides environment-sourced configuration for the server,
// pipeline, and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults for the generation pipeline knobs.
const (
	DefaultLLMModel       = "gemini-2.0-flash"
	DefaultEmbeddingModel = "all-MiniLM-L6-v2"
	DefaultEmbeddingDim   = 384
	DefaultEmbeddingURL   = "http://localhost:11434"

	DefaultMaxExperienceSections = 3
	DefaultMaxProjectSections    = 3
	DefaultMaxBulletsPerSection  = 4
	DefaultMaxSkills             = 12

	DefaultOutputDir = "./output"
	DefaultPort      = 8080
	DefaultLLMRPM    = 60
)

// Config holds everything the pipeline and server read from the environment.
type Config struct {
	DatabaseURL string
	Port        int

	// APIKey empty disables assisted mode everywhere; all LLM-backed
	// steps use their deterministic fallbacks.
	APIKey   string
	LLMModel string
	LLMRPM   int

	EmbeddingBackend string // "local" or "gemini"
	EmbeddingModel   string
	EmbeddingURL     string
	EmbeddingDim     int

	MaxExperienceSections int
	MaxProjectSections    int
	MaxBulletsPerSection  int
	MaxSkills             int

	OutputDir     string
	LaTeXTemplate string // empty uses the embedded default

	CallTimeout time.Duration // per LLM/embedding call
}

// Load reads configuration from the environment, applying defaults for
// everything except DATABASE_URL, which callers validate per command.
func Load() *Config {
	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        getEnvInt("PORT", DefaultPort),

		APIKey:   getAPIKey(),
		LLMModel: getEnvString("LLM_MODEL", DefaultLLMModel),
		LLMRPM:   getEnvInt("LLM_RPM", DefaultLLMRPM),

		EmbeddingBackend: getEnvString("EMBEDDING_BACKEND", "local"),
		EmbeddingModel:   getEnvString("EMBEDDING_MODEL", DefaultEmbeddingModel),
		EmbeddingURL:     getEnvString("EMBEDDING_URL", DefaultEmbeddingURL),
		EmbeddingDim:     getEnvInt("EMBEDDING_DIM", DefaultEmbeddingDim),

		MaxExperienceSections: getEnvInt("MAX_EXPERIENCE_SECTIONS", DefaultMaxExperienceSections),
		MaxProjectSections:    getEnvInt("MAX_PROJECT_SECTIONS", DefaultMaxProjectSections),
		MaxBulletsPerSection:  getEnvInt("MAX_BULLETS_PER_SECTION", DefaultMaxBulletsPerSection),
		MaxSkills:             getEnvInt("MAX_SKILLS", DefaultMaxSkills),

		OutputDir:     getEnvString("OUTPUT_DIR", DefaultOutputDir),
		LaTeXTemplate: os.Getenv("LATEX_TEMPLATE"),

		CallTimeout: getEnvDuration("CALL_TIMEOUT", 30*time.Second),
	}
}

// Validate checks ranges on the cardinality caps.
func (c *Config) Validate() error {
	if c.MaxExperienceSections < 0 || c.MaxProjectSections < 0 {
		return fmt.Errorf("section caps must be non-negative")
	}
	if c.MaxBulletsPerSection < 0 {
		return fmt.Errorf("MAX_BULLETS_PER_SECTION must be non-negative")
	}
	if c.MaxSkills < 0 {
		return fmt.Errorf("MAX_SKILLS must be non-negative")
	}
	if c.EmbeddingDim < 1 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	return nil
}

// getAPIKey reads LLM_API_KEY, falling back to GEMINI_API_KEY for
// compatibility with the Gemini tooling convention.
func getAPIKey() string {
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GEMINI_API_KEY")
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

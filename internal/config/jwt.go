package config

import (
	"fmt"
	"os"
)

// JWTConfig holds configuration for token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig creates a JWT configuration from the environment.
// JWT_SECRET is required; JWT_EXPIRATION_HOURS defaults to 24. Callers that
// can operate without token issuance treat the missing-secret error as
// "auth disabled" rather than fatal.
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	cfg := &JWTConfig{
		Secret:          secret,
		ExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),
	}
	if cfg.ExpirationHours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", cfg.ExpirationHours)
	}
	return cfg, nil
}

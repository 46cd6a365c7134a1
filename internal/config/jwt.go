package config

import "fmt"

// JWTConfig holds configuration for verifying access tokens issued by the
// identity provider and for minting development tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	Audience        string
}

// JWT extracts and validates the JWT settings. JWT_SECRET is required.
func (c *Config) JWT() (*JWTConfig, error) {
	jwtConfig := &JWTConfig{
		Secret:          c.JWTSecret,
		ExpirationHours: c.JWTExpirationHours,
		Audience:        c.JWTAudience,
	}
	if err := jwtConfig.normalize(); err != nil {
		return nil, err
	}
	return jwtConfig, nil
}

// NewJWTConfig creates a JWT configuration from environment variables.
// It reads JWT_SECRET (required), JWT_EXPIRATION_HOURS (default: 24) and
// JWT_AUDIENCE (default: authenticated).
func NewJWTConfig() (*JWTConfig, error) {
	cfg, err := Load("")
	if err != nil {
		return nil, err
	}
	return cfg.JWT()
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

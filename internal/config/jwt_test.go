package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret-key")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
	assert.Equal(t, "authenticated", cfg.Audience)
}

func TestNewJWTConfig_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "48")
	t.Setenv("JWT_AUDIENCE", "api")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.ExpirationHours)
	assert.Equal(t, "api", cfg.Audience)
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	clearEnv(t)

	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestNewJWTConfig_InvalidExpiration(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "0")

	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestConfig_JWT(t *testing.T) {
	cfg := &Config{JWTSecret: "s", JWTExpirationHours: 2}
	jwtConfig, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "s", jwtConfig.Secret)
	assert.Equal(t, 2, jwtConfig.ExpirationHours)

	_, err = (&Config{JWTExpirationHours: 2}).JWT()
	assert.Error(t, err)
}

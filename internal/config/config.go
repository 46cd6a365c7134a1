// Package config provides configuration loading and validation for the API server and CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration. Every key can be set from the
// environment (DATABASE_URL, MAILGUN_DOMAIN, ...) or from an optional config file.
type Config struct {
	Port              int    `mapstructure:"port"`
	DatabaseURL       string `mapstructure:"database_url"`
	CORSAllowedOrigin string `mapstructure:"cors_allowed_origin"`

	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	JWTAudience        string `mapstructure:"jwt_audience"`

	Mailgun MailgunConfig `mapstructure:"mailgun"`
}

// MailgunConfig holds the credentials used to send welcome emails.
// Email is disabled when Domain or APIKey is empty.
type MailgunConfig struct {
	Domain string `mapstructure:"domain"`
	APIKey string `mapstructure:"api_key"`
	Sender string `mapstructure:"sender"`
}

// Enabled reports whether enough is configured to send mail.
func (m MailgunConfig) Enabled() bool {
	return m.Domain != "" && m.APIKey != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("database_url", "")
	v.SetDefault("cors_allowed_origin", "*")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiration_hours", 24)
	v.SetDefault("jwt_audience", "authenticated")
	v.SetDefault("mailgun.domain", "")
	v.SetDefault("mailgun.api_key", "")
	v.SetDefault("mailgun.sender", "assessments.lol <hello@assessments.lol>")
}

// Load reads configuration from the environment and, when path is non-empty,
// from the given config file. Environment variables take precedence over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required settings are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.JWTExpirationHours < 1 {
		return fmt.Errorf("config error: 'jwt_expiration_hours' must be at least 1, got %d", c.JWTExpirationHours)
	}
	return nil
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	return nil
}

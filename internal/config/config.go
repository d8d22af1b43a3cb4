// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrKieAPIKeyRequired is returned when KIE_AI_API_KEY is not set.
	ErrKieAPIKeyRequired = errors.New("config: KIE_AI_API_KEY is required")
	// ErrJWTSecretRequired is returned when JWT_SECRET is not set.
	ErrJWTSecretRequired = errors.New("config: JWT_SECRET is required")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// kie.ai provider settings
	KieAPIKey  string `env:"KIE_AI_API_KEY, required" json:"-"` // Masked in JSON
	KieBaseURL string `env:"KIE_AI_BASE_URL, default=https://api.kie.ai" json:"kie_base_url"`

	// Auth settings
	JWTSecret   string        `env:"JWT_SECRET, required" json:"-"` // Masked in JSON
	JWTTokenTTL time.Duration `env:"JWT_TOKEN_TTL, default=168h" json:"jwt_token_ttl"`
	AdminEmail  string        `env:"ADMIN_EMAIL, default=admin@crie-app.com" json:"admin_email"`

	// Credit settings
	SignupCredits   int `env:"SIGNUP_CREDITS, default=20" json:"signup_credits"`
	MusicCost       int `env:"MUSIC_CREDIT_COST, default=10" json:"music_cost"`
	MusicExtendCost int `env:"MUSIC_EXTEND_CREDIT_COST, default=10" json:"music_extend_cost"`
	VideoCost       int `env:"VIDEO_CREDIT_COST, default=20" json:"video_cost"`

	// Polling settings (per-kind policy, not universal constants)
	MusicMaxWait      time.Duration `env:"MUSIC_MAX_WAIT, default=180s" json:"music_max_wait"`
	MusicPollInterval time.Duration `env:"MUSIC_POLL_INTERVAL, default=5s" json:"music_poll_interval"`
	VideoMaxWait      time.Duration `env:"VIDEO_MAX_WAIT, default=300s" json:"video_max_wait"`
	VideoPollInterval time.Duration `env:"VIDEO_POLL_INTERVAL, default=10s" json:"video_poll_interval"`

	// Media archive settings
	ArchiveEnabled bool   `env:"ARCHIVE_ENABLED, default=false" json:"archive_enabled"`
	ArchiveDir     string `env:"ARCHIVE_DIR" json:"archive_dir,omitempty"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error if required variables are not set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		// Map envconfig errors to our domain errors for required fields
		if strings.Contains(err.Error(), "KIE_AI_API_KEY") {
			return nil, ErrKieAPIKeyRequired
		}
		if strings.Contains(err.Error(), "JWT_SECRET") {
			return nil, ErrJWTSecretRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.KieAPIKey == "" {
		return ErrKieAPIKeyRequired
	}
	if c.JWTSecret == "" {
		return ErrJWTSecretRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, KieBaseURL: %s, SignupCredits: %d, MusicCost: %d, VideoCost: %d, MusicMaxWait: %s, VideoMaxWait: %s, ArchiveEnabled: %t, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.KieBaseURL,
		c.SignupCredits,
		c.MusicCost,
		c.VideoCost,
		c.MusicMaxWait,
		c.VideoMaxWait,
		c.ArchiveEnabled,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

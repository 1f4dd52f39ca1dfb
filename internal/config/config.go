// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/placify/internal/ats"
)

const (
	configPathEnv     = "PLACIFY_CONFIG"
	portEnv           = "PORT"
	frontendURLEnv    = "FRONTEND_URL"
	uploadMaxBytesEnv = "UPLOAD_MAX_BYTES"
	databaseURLEnv    = "DATABASE_URL"
	redisURLEnv       = "REDIS_URL"
	geminiAPIKeyEnv   = "GEMINI_API_KEY"
	smtpHostEnv       = "SMTP_HOST"
	smtpPortEnv       = "SMTP_PORT"
	emailUserEnv      = "EMAIL_USER"
	emailPassEnv      = "EMAIL_PASS"
	emailFromNameEnv  = "EMAIL_FROM_NAME"
	resetExpiryEnv    = "PASSWORD_RESET_TOKEN_EXPIRY_MINUTES"
	logLevelEnv       = "LOG_LEVEL"
	logFormatEnv      = "LOG_FORMAT"
)

// DefaultUploadMaxBytes caps resume uploads at 8 MiB.
const DefaultUploadMaxBytes = 8 << 20

// Config holds every runtime setting of the service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Cache         CacheConfig         `yaml:"cache"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Mail          MailConfig          `yaml:"mail"`
	PasswordReset PasswordResetConfig `yaml:"passwordReset"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Log           LogConfig           `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           int    `yaml:"port"`
	FrontendURL    string `yaml:"frontendUrl"`
	UploadMaxBytes int64  `yaml:"uploadMaxBytes"`
}

// DatabaseConfig describes the Postgres connection. An empty URL runs the
// service without persistence.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// CacheConfig controls the score cache. An empty RedisURL keeps the cache
// in memory only.
type CacheConfig struct {
	RedisURL     string        `yaml:"redisUrl"`
	TTL          time.Duration `yaml:"ttl"`
	MaxL1Entries int           `yaml:"maxL1Entries"`
}

// GeminiConfig enables AI feedback when APIKey is set.
type GeminiConfig struct {
	APIKey          string        `yaml:"apiKey"`
	FeedbackTimeout time.Duration `yaml:"feedbackTimeout"`
}

// MailConfig configures outbound SMTP. An empty Host logs emails instead.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FromName string `yaml:"fromName"`
}

// PasswordResetConfig controls reset token lifetime.
type PasswordResetConfig struct {
	TokenExpiryMinutes int `yaml:"tokenExpiryMinutes"`
}

// ScoringConfig tunes the resume scorer.
type ScoringConfig struct {
	Weights   ats.Weights `yaml:"weights"`
	TargetAge int         `yaml:"targetAge"`
}

// LogConfig selects log level and format ("text" or "json").
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           5000,
			FrontendURL:    "http://localhost:3000",
			UploadMaxBytes: DefaultUploadMaxBytes,
		},
		Cache: CacheConfig{
			TTL:          24 * time.Hour,
			MaxL1Entries: 1000,
		},
		Gemini: GeminiConfig{
			FeedbackTimeout: 30 * time.Second,
		},
		Mail: MailConfig{
			Port:     587,
			FromName: "Placify",
		},
		PasswordReset: PasswordResetConfig{TokenExpiryMinutes: 15},
		Scoring: ScoringConfig{
			Weights:   ats.DefaultWeights(),
			TargetAge: 22,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load starts from Default, overlays the YAML file at path (or at
// $PLACIFY_CONFIG when path is empty) and finally applies environment
// overrides. A missing path is not an error; an unreadable file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	setInt := func(env string, dst *int) error {
		v := os.Getenv(env)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env, err)
		}
		*dst = n
		return nil
	}

	setString(frontendURLEnv, &c.Server.FrontendURL)
	setString(databaseURLEnv, &c.Database.URL)
	setString(redisURLEnv, &c.Cache.RedisURL)
	setString(geminiAPIKeyEnv, &c.Gemini.APIKey)
	setString(smtpHostEnv, &c.Mail.Host)
	setString(emailUserEnv, &c.Mail.Username)
	setString(emailPassEnv, &c.Mail.Password)
	setString(emailFromNameEnv, &c.Mail.FromName)
	setString(logLevelEnv, &c.Log.Level)
	setString(logFormatEnv, &c.Log.Format)

	if err := setInt(portEnv, &c.Server.Port); err != nil {
		return err
	}
	if err := setInt(smtpPortEnv, &c.Mail.Port); err != nil {
		return err
	}
	if err := setInt(resetExpiryEnv, &c.PasswordReset.TokenExpiryMinutes); err != nil {
		return err
	}
	if v := os.Getenv(uploadMaxBytesEnv); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", uploadMaxBytesEnv, err)
		}
		c.Server.UploadMaxBytes = n
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}
	if c.Server.UploadMaxBytes <= 0 {
		return fmt.Errorf("config error: 'server.uploadMaxBytes' must be positive")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("config error: 'cache.ttl' must be non-negative")
	}
	if c.Cache.MaxL1Entries < 0 {
		return fmt.Errorf("config error: 'cache.maxL1Entries' must be non-negative")
	}
	if c.PasswordReset.TokenExpiryMinutes < 1 {
		return fmt.Errorf("config error: 'passwordReset.tokenExpiryMinutes' must be at least 1")
	}
	if c.Mail.Host != "" && (c.Mail.Port < 1 || c.Mail.Port > 65535) {
		return fmt.Errorf("config error: 'mail.port' out of range: %d", c.Mail.Port)
	}
	if c.Scoring.TargetAge < 0 {
		return fmt.Errorf("config error: 'scoring.targetAge' must be non-negative")
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("config error: 'scoring.weights': %w", err)
	}
	return nil
}

// ResetTokenTTL returns the password reset token lifetime.
func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.PasswordReset.TokenExpiryMinutes) * time.Minute
}

// Package config provides configuration loading and validation for the
// intake server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents the service configuration. It can be loaded from a
// JSON file, from environment variables, or both; missing values use
// defaults or must be provided via CLI flags.
type Config struct {
	// Server
	Port          int    `json:"port,omitempty"`            // HTTP listen port
	PublicBaseURL string `json:"public_base_url,omitempty"` // Base URL used to build public CV links
	StorageDir    string `json:"storage_dir,omitempty"`     // Directory for uploaded CV files
	LedgerPath    string `json:"ledger_path,omitempty"`     // Path to the applications workbook

	// Extraction
	APIKey            string `json:"api_key,omitempty"`            // Gemini API key
	ExtractionTimeout int    `json:"extraction_timeout,omitempty"` // Seconds to wait for the model

	// Integrations
	WebhookURL     string `json:"webhook_url,omitempty"`     // Downstream webhook endpoint
	CandidateEmail string `json:"candidate_email,omitempty"` // Value for the X-Candidate-Email header
	DatabaseURL    string `json:"database_url,omitempty"`    // PostgreSQL connection URL (optional)
	RedisAddr      string `json:"redis_addr,omitempty"`      // Redis address for the follow-up queue
	EmailFrom      string `json:"email_from,omitempty"`      // Sender address for follow-up emails
	AWSRegion      string `json:"aws_region,omitempty"`      // SES region

	// Behavior
	LogLevel  string `json:"log_level,omitempty"`  // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty"` // json or console
	Verbose   bool   `json:"verbose,omitempty"`    // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:              3000,
		PublicBaseURL:     "http://localhost:3000",
		StorageDir:        "uploads",
		LedgerPath:        "applications.xlsx",
		ExtractionTimeout: 60,
		AWSRegion:         "us-east-1",
		LogLevel:          "info",
		LogFormat:         "console",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills unset fields from environment variables. Environment
// values never override values already present on the Config.
func (c *Config) FromEnv() {
	if c.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
			c.Port = port
		}
	}
	setIfEmpty(&c.PublicBaseURL, "PUBLIC_BASE_URL")
	setIfEmpty(&c.StorageDir, "STORAGE_DIR")
	setIfEmpty(&c.LedgerPath, "LEDGER_PATH")
	setIfEmpty(&c.APIKey, "GEMINI_API_KEY")
	setIfEmpty(&c.WebhookURL, "WEBHOOK_URL")
	setIfEmpty(&c.CandidateEmail, "CANDIDATE_EMAIL")
	setIfEmpty(&c.DatabaseURL, "DATABASE_URL")
	setIfEmpty(&c.RedisAddr, "REDIS_ADDR")
	setIfEmpty(&c.EmailFrom, "EMAIL_FROM")
	setIfEmpty(&c.AWSRegion, "AWS_REGION")
	setIfEmpty(&c.LogLevel, "LOG_LEVEL")
	setIfEmpty(&c.LogFormat, "LOG_FORMAT")
}

func setIfEmpty(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.ExtractionTimeout < 0 {
		return fmt.Errorf("config error: 'extraction_timeout' must be non-negative")
	}
	if c.WebhookURL != "" && c.CandidateEmail == "" {
		return fmt.Errorf("config error: 'candidate_email' is required when 'webhook_url' is set")
	}
	if c.RedisAddr != "" && c.EmailFrom == "" {
		return fmt.Errorf("config error: 'email_from' is required when 'redis_addr' is set")
	}
	return nil
}

// ExtractionTimeoutDuration converts the timeout seconds to a Duration.
func (c *Config) ExtractionTimeoutDuration() time.Duration {
	return time.Duration(c.ExtractionTimeout) * time.Second
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for
// CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.PublicBaseURL == "" {
		result.PublicBaseURL = defaults.PublicBaseURL
	}
	if result.StorageDir == "" {
		result.StorageDir = defaults.StorageDir
	}
	if result.LedgerPath == "" {
		result.LedgerPath = defaults.LedgerPath
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.WebhookURL == "" {
		result.WebhookURL = defaults.WebhookURL
	}
	if result.CandidateEmail == "" {
		result.CandidateEmail = defaults.CandidateEmail
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.EmailFrom == "" {
		result.EmailFrom = defaults.EmailFrom
	}
	if result.AWSRegion == "" {
		result.AWSRegion = defaults.AWSRegion
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ExtractionTimeout == 0 {
		result.ExtractionTimeout = defaults.ExtractionTimeout
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

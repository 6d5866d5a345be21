// Package config assembles setup-shellcheck settings from built-in defaults,
// an optional YAML file, action inputs and command-line flags, in that order
// of increasing precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/installer"
	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/logger"
	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/release"
)

// Config holds the settings for one run.
type Config struct {
	// Version is "latest" or an explicit MAJOR.MINOR.PATCH version.
	Version string `yaml:"version"`
	// Token authenticates GitHub API requests (optional).
	Token string `yaml:"token"`

	ToolCacheDir string `yaml:"tool_cache_dir"` // root of the tool cache
	TempDir      string `yaml:"temp_dir"`       // scratch space for downloads
	APIURL       string `yaml:"api_url"`        // GitHub REST API base URL
	ReleaseURL   string `yaml:"release_url"`    // upstream repository web URL

	Retry   RetryConfig   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
}

// RetryConfig controls the latest-version metadata fetch.
type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// Default returns the configuration used when nothing else is specified.
// Directory defaults come from the runner environment when it is present.
func Default() *Config {
	return &Config{
		Version:      release.Latest,
		ToolCacheDir: envOr("RUNNER_TOOL_CACHE", filepath.Join(os.TempDir(), "setup-shellcheck", "tool-cache")),
		TempDir:      envOr("RUNNER_TEMP", filepath.Join(os.TempDir(), "setup-shellcheck", "temp")),
		APIURL:       envOr("GITHUB_API_URL", release.DefaultAPIURL),
		ReleaseURL:   installer.DefaultReleaseURL,
		Retry: RetryConfig{
			Attempts: release.DefaultAttempts,
			Delay:    release.DefaultRetryDelay,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Version) == "" {
		return &ValidationError{Field: "version", Message: "cannot be empty"}
	}

	if c.ToolCacheDir == "" {
		return &ValidationError{Field: "tool_cache_dir", Message: "cannot be empty"}
	}
	if c.TempDir == "" {
		return &ValidationError{Field: "temp_dir", Message: "cannot be empty"}
	}

	if err := validateHTTPURL(c.APIURL); err != nil {
		return &ValidationError{Field: "api_url", Message: err.Error()}
	}
	if err := validateHTTPURL(c.ReleaseURL); err != nil {
		return &ValidationError{Field: "release_url", Message: err.Error()}
	}

	if c.Retry.Attempts < 1 {
		return &ValidationError{
			Field:   "retry.attempts",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Retry.Attempts),
		}
	}
	if c.Retry.Delay < 0 {
		return &ValidationError{
			Field:   "retry.delay",
			Message: fmt.Sprintf("cannot be negative, got %s", c.Retry.Delay),
		}
	}

	if !logger.ValidLevel(c.Logging.Level) {
		return &ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q (expected debug, info, warn or error)", c.Logging.Level),
		}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

func validateHTTPURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("must use http:// or https://, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

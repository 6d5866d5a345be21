package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/actions"
)

// Action input names.
const (
	InputVersion  = "version"
	InputToken    = "token"
	InputLogLevel = "log-level"
)

// Command-line flag names read by ApplyFlags.
const (
	FlagVersion  = "shellcheck-version"
	FlagToken    = "token"
	FlagLogLevel = "log-level"
)

// MaxFileSize caps the size of a config file.
const MaxFileSize = 1 << 20

// Load builds the configuration for a run: defaults, then the YAML file at
// path (skipped when path is empty), then action inputs, then any flags
// explicitly set on flags (nil skips this layer). RUNNER_DEBUG=1 forces the
// debug level. The result is validated.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyInputs()

	if flags != nil {
		if err := cfg.ApplyFlags(flags); err != nil {
			return nil, err
		}
	}

	if actions.IsDebug() {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeFile overlays the values present in a YAML config file. Keys absent
// from the file keep their current values.
func (c *Config) MergeFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml)", ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("accessing config file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("config file %s is not a regular file", path)
	}
	if info.Size() > MaxFileSize {
		return fmt.Errorf("config file %s too large (%d bytes, max %d)", path, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing YAML config %s: %w", path, err)
	}
	return nil
}

// ApplyInputs overlays the action inputs that are set and non-empty.
func (c *Config) ApplyInputs() {
	if v := actions.Input(InputVersion); v != "" {
		c.Version = v
	}
	if v := actions.Input(InputToken); v != "" {
		c.Token = v
	}
	if v := actions.Input(InputLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// ApplyFlags overlays the flags the user explicitly set. Flags that are not
// defined on fs are ignored.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	targets := []struct {
		name string
		dst  *string
	}{
		{FlagVersion, &c.Version},
		{FlagToken, &c.Token},
		{FlagLogLevel, &c.Logging.Level},
	}

	for _, target := range targets {
		flag := fs.Lookup(target.name)
		if flag == nil || !flag.Changed {
			continue
		}
		value, err := fs.GetString(target.name)
		if err != nil {
			return fmt.Errorf("read --%s: %w", target.name, err)
		}
		*target.dst = strings.TrimSpace(value)
	}
	return nil
}

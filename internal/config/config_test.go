package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/testutil"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(FlagVersion, "latest", "")
	fs.String(FlagToken, "", "")
	fs.String(FlagLogLevel, "info", "")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func TestDefault(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	want := &Config{
		Version:      "latest",
		ToolCacheDir: env.ToolCache,
		TempDir:      env.Temp,
		APIURL:       "https://api.github.com",
		ReleaseURL:   "https://github.com/koalaman/shellcheck",
		Retry:        RetryConfig{Attempts: 3, Delay: 2 * time.Second},
		Logging:      LoggingConfig{Level: "info"},
	}
	if diff := cmp.Diff(want, Default()); diff != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultWithoutRunner(t *testing.T) {
	testutil.SetupTestEnv(t)
	t.Setenv("RUNNER_TOOL_CACHE", "")
	t.Setenv("RUNNER_TEMP", "")
	t.Setenv("GITHUB_API_URL", "https://ghe.example.com/api/v3")

	cfg := Default()
	if !strings.HasPrefix(cfg.ToolCacheDir, os.TempDir()) {
		t.Errorf("ToolCacheDir = %q, want under %s", cfg.ToolCacheDir, os.TempDir())
	}
	if cfg.TempDir == cfg.ToolCacheDir {
		t.Error("TempDir and ToolCacheDir must differ")
	}
	if cfg.APIURL != "https://ghe.example.com/api/v3" {
		t.Errorf("APIURL = %q, want GITHUB_API_URL value", cfg.APIURL)
	}
}

func TestLoadPrecedence(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	path := writeConfig(t, "setup-shellcheck.yaml", `
version: 0.9.0
token: file-token
retry:
  attempts: 5
  delay: 500ms
logging:
  level: warn
`)
	t.Setenv("INPUT_VERSION", "0.10.0")
	flags := newFlagSet(t, "--log-level=error")

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		Version:      "0.10.0",     // input beats file
		Token:        "file-token", // file beats default
		ToolCacheDir: env.ToolCache,
		TempDir:      env.Temp,
		APIURL:       "https://api.github.com",
		ReleaseURL:   "https://github.com/koalaman/shellcheck",
		Retry:        RetryConfig{Attempts: 5, Delay: 500 * time.Millisecond},
		Logging:      LoggingConfig{Level: "error"}, // flag beats file
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFlagsBeatInputs(t *testing.T) {
	testutil.SetupTestEnv(t)
	t.Setenv("INPUT_VERSION", "0.9.0")
	t.Setenv("INPUT_TOKEN", "input-token")

	cfg, err := Load("", newFlagSet(t, "--shellcheck-version", " 0.10.0 ", "--token=flag-token"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Version != "0.10.0" {
		t.Errorf("Version = %q, want 0.10.0", cfg.Version)
	}
	if cfg.Token != "flag-token" {
		t.Errorf("Token = %q, want flag-token", cfg.Token)
	}
}

func TestLoadUnsetFlagsKeepInputs(t *testing.T) {
	testutil.SetupTestEnv(t)
	t.Setenv("INPUT_VERSION", "0.9.0")
	t.Setenv("INPUT_LOG-LEVEL", "debug")

	cfg, err := Load("", newFlagSet(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Version != "0.9.0" {
		t.Errorf("Version = %q, want input value 0.9.0", cfg.Version)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadBlankInputIgnored(t *testing.T) {
	testutil.SetupTestEnv(t)
	t.Setenv("INPUT_VERSION", "   ")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Version != "latest" {
		t.Errorf("Version = %q, want latest", cfg.Version)
	}
}

func TestLoadRunnerDebug(t *testing.T) {
	testutil.SetupTestEnv(t)
	t.Setenv("RUNNER_DEBUG", "1")

	cfg, err := Load("", newFlagSet(t, "--log-level=error"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug when RUNNER_DEBUG=1", cfg.Logging.Level)
	}
}

func TestMergeFilePartial(t *testing.T) {
	testutil.SetupTestEnv(t)
	path := writeConfig(t, "partial.yml", "tool_cache_dir: /opt/hostedtoolcache\n")

	cfg := Default()
	before := *cfg
	if err := cfg.MergeFile(path); err != nil {
		t.Fatalf("MergeFile() error = %v", err)
	}

	before.ToolCacheDir = "/opt/hostedtoolcache"
	if diff := cmp.Diff(&before, cfg); diff != "" {
		t.Errorf("MergeFile() changed more than tool_cache_dir (-want +got):\n%s", diff)
	}
}

func TestMergeFileErrors(t *testing.T) {
	testutil.SetupTestEnv(t)

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "unsupported_extension",
			path:    func(t *testing.T) string { return writeConfig(t, "config.json", "{}") },
			wantErr: "unsupported config file format",
		},
		{
			name:    "missing_file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") },
			wantErr: "accessing config file",
		},
		{
			name:    "directory",
			path:    func(t *testing.T) string { dir := filepath.Join(t.TempDir(), "dir.yaml"); os.Mkdir(dir, 0o755); return dir },
			wantErr: "not a regular file",
		},
		{
			name:    "invalid_yaml",
			path:    func(t *testing.T) string { return writeConfig(t, "bad.yaml", "retry: [unterminated") },
			wantErr: "parsing YAML config",
		},
		{
			name:    "wrong_type",
			path:    func(t *testing.T) string { return writeConfig(t, "type.yaml", "retry:\n  attempts: many\n") },
			wantErr: "parsing YAML config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().MergeFile(tt.path(t))
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadValidationFailure(t *testing.T) {
	testutil.SetupTestEnv(t)
	path := writeConfig(t, "bad.yaml", "retry:\n  attempts: 0\n")

	_, err := Load(path, nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Load() error = %v, want *ValidationError", err)
	}
	if verr.Field != "retry.attempts" {
		t.Errorf("Field = %q, want retry.attempts", verr.Field)
	}
}

func TestValidate(t *testing.T) {
	testutil.SetupTestEnv(t)

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "empty_version", mutate: func(c *Config) { c.Version = " " }, wantField: "version"},
		{name: "empty_tool_cache", mutate: func(c *Config) { c.ToolCacheDir = "" }, wantField: "tool_cache_dir"},
		{name: "empty_temp", mutate: func(c *Config) { c.TempDir = "" }, wantField: "temp_dir"},
		{name: "api_url_scheme", mutate: func(c *Config) { c.APIURL = "ftp://api.github.com" }, wantField: "api_url"},
		{name: "api_url_host", mutate: func(c *Config) { c.APIURL = "https://" }, wantField: "api_url"},
		{name: "release_url_empty", mutate: func(c *Config) { c.ReleaseURL = "" }, wantField: "release_url"},
		{name: "zero_attempts", mutate: func(c *Config) { c.Retry.Attempts = 0 }, wantField: "retry.attempts"},
		{name: "negative_delay", mutate: func(c *Config) { c.Retry.Delay = -time.Second }, wantField: "retry.delay"},
		{name: "zero_delay", mutate: func(c *Config) { c.Retry.Delay = 0 }},
		{name: "unknown_level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantField: "logging.level"},
		{name: "warning_level", mutate: func(c *Config) { c.Logging.Level = "warning" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

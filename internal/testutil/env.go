// Package testutil provides utilities for testing the installer in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env holds the isolated runner directories created by SetupTestEnv.
type Env struct {
	ToolCache string
	Temp      string
	PathFile  string
}

// SetupTestEnv creates isolated runner directories for each test so tests
// never touch the real hosted tool cache or the job's GITHUB_PATH file.
//
// Cleanup is handled by t.TempDir and t.Setenv.
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	tmpDir := t.TempDir()

	env := Env{
		ToolCache: filepath.Join(tmpDir, "toolcache"),
		Temp:      filepath.Join(tmpDir, "temp"),
		PathFile:  filepath.Join(tmpDir, "github_path"),
	}

	t.Setenv("RUNNER_TOOL_CACHE", env.ToolCache)
	t.Setenv("RUNNER_TEMP", env.Temp)
	t.Setenv("GITHUB_PATH", env.PathFile)
	t.Setenv("RUNNER_DEBUG", "")
	t.Setenv("GITHUB_API_URL", "")

	// Step inputs from the surrounding job must not leak into tests.
	t.Setenv("INPUT_VERSION", "")
	t.Setenv("INPUT_TOKEN", "")
	t.Setenv("INPUT_LOG-LEVEL", "")

	for _, dir := range []string{env.ToolCache, env.Temp} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return env
}

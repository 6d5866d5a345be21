package actions

import (
	"os"
	"strings"
)

// InputEnvName returns the environment variable the runner uses for a step input.
func InputEnvName(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// Input returns the trimmed value of a step input, or "" when unset.
func Input(name string) string {
	return strings.TrimSpace(os.Getenv(InputEnvName(name)))
}

// LookupInput is like Input but reports whether the input was set to a
// non-blank value.
func LookupInput(name string) (string, bool) {
	v := Input(name)
	return v, v != ""
}

// IsDebug reports whether step debug logging is enabled on the runner.
func IsDebug() bool {
	return os.Getenv("RUNNER_DEBUG") == "1"
}

package toolcache

import (
	"strings"

	"golang.org/x/mod/semver"
)

// CleanVersion returns s without a leading "v" when it is a full
// MAJOR.MINOR.PATCH semantic version (prerelease allowed, build metadata
// dropped), and "" otherwise.
func CleanVersion(s string) string {
	v := "v" + strings.TrimPrefix(strings.TrimSpace(s), "v")
	if !semver.IsValid(v) {
		return ""
	}
	canonical := semver.Canonical(v)
	// Canonical fills in missing minor/patch components; require them to be explicit.
	if canonical != strings.SplitN(v, "+", 2)[0] {
		return ""
	}
	return strings.TrimPrefix(canonical, "v")
}

// IsExplicitVersion reports whether s names one exact version rather than a range.
func IsExplicitVersion(s string) bool {
	return CleanVersion(s) != ""
}

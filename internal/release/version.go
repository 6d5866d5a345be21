package release

import (
	"errors"
	"strings"

	"golang.org/x/mod/semver"
)

// Latest is the version specifier that selects the newest upstream release.
const Latest = "latest"

var (
	// ErrInvalidVersionSpecifier is returned for a specifier that is neither
	// "latest" nor a strict MAJOR.MINOR.PATCH version.
	ErrInvalidVersionSpecifier = errors.New("invalid version specifier")
	// ErrLatestVersionUnavailable is returned when the latest release could
	// not be fetched.
	ErrLatestVersionUnavailable = errors.New("latest version unavailable")
	// ErrMalformedReleaseMetadata is returned when the release response has
	// no usable tag.
	ErrMalformedReleaseMetadata = errors.New("malformed release metadata")
)

// IsStrictVersion reports whether s is a bare MAJOR.MINOR.PATCH version with
// no "v" prefix, prerelease, build metadata or leading zeros.
func IsStrictVersion(s string) bool {
	v := "v" + s
	return semver.IsValid(v) && semver.Canonical(v) == v && semver.Prerelease(v) == ""
}

// stripTagPrefix removes a single leading "v" from a release tag.
func stripTagPrefix(tag string) string {
	return strings.TrimPrefix(tag, "v")
}

package installer

import (
	"fmt"

	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/release"
)

// DefaultReleaseURL is the upstream repository's web URL.
const DefaultReleaseURL = "https://github.com/koalaman/shellcheck"

// ArtifactName returns the release archive name for a version and platform.
// Pattern: shellcheck-v{version}.{os}.{arch}.tar.xz
func ArtifactName(version, osToken, archToken string) string {
	return fmt.Sprintf("%s-v%s.%s.%s.tar.xz", ToolName, version, osToken, archToken)
}

// DownloadBaseURL returns the directory URL holding the release archives.
// "latest" uses the redirecting latest-release path so the download matches
// whatever GitHub currently marks as latest.
func DownloadBaseURL(releaseURL, specifier, version string) string {
	if specifier == release.Latest {
		return releaseURL + "/releases/latest/download"
	}
	return fmt.Sprintf("%s/releases/download/v%s", releaseURL, version)
}

// DownloadURL builds the archive URL.
func DownloadURL(releaseURL, specifier, version, osToken, archToken string) string {
	return DownloadBaseURL(releaseURL, specifier, version) + "/" + ArtifactName(version, osToken, archToken)
}

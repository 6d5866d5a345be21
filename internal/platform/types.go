// Package platform detects the host operating system and CPU architecture and
// translates them into the tokens used in upstream shellcheck release artifact
// names (for example "linux" and "x86_64" in shellcheck-v0.10.0.linux.x86_64.tar.xz).
//
// The translation tables are closed: a host that is not on the allow-list is a
// fatal condition for the run. There is no fallback and no partial match.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains host detection information.
type Info struct {
	OS       string // GOOS of the host, e.g. "linux", "darwin"
	Arch     string // GOARCH of the host, e.g. "amd64", "arm64"
	Platform string // distro ID (Linux only, e.g. "ubuntu")
	Family   string // canonical family (Linux only, e.g. "debian")
	Version  string // distro version (Linux only, e.g. "24.04")
}

// Tokens returns the OS and architecture tokens used in release artifact names.
// The architecture is resolved first so an unsupported CPU is reported even on
// an unsupported OS.
func (i *Info) Tokens() (osToken, archToken string, err error) {
	archToken, err = ArchToken(i.Arch)
	if err != nil {
		return "", "", err
	}
	osToken, err = OSToken(i.OS)
	if err != nil {
		return "", "", err
	}
	return osToken, archToken, nil
}

// IsLinux returns true if the host is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the host is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// Detector is the interface for host detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector reports a fixed Info.
type StaticDetector struct {
	Info Info
}

// Detect returns a copy of the fixed Info.
func (d StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info := d.Info
	return &info, nil
}

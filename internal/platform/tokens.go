package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform is matched by UnsupportedPlatformError.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrUnsupportedArchitecture is matched by UnsupportedArchitectureError.
	ErrUnsupportedArchitecture = errors.New("unsupported architecture")
)

// UnsupportedPlatformError reports an operating system with no release artifact.
type UnsupportedPlatformError struct {
	OS string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("Unsupported platform: %s.", e.OS)
}

func (e *UnsupportedPlatformError) Is(target error) bool {
	return target == ErrUnsupportedPlatform
}

// UnsupportedArchitectureError reports a CPU architecture with no release artifact.
type UnsupportedArchitectureError struct {
	Arch string
}

func (e *UnsupportedArchitectureError) Error() string {
	return fmt.Sprintf("Unsupported architecture: %s. No prebuilt shellcheck binary is published for this host, build it from source instead.", e.Arch)
}

func (e *UnsupportedArchitectureError) Is(target error) bool {
	return target == ErrUnsupportedArchitecture
}

// OSToken maps a GOOS value to the OS token of the release artifact name.
func OSToken(goos string) (string, error) {
	switch goos {
	case "darwin":
		return "darwin", nil
	case "linux":
		return "linux", nil
	default:
		return "", &UnsupportedPlatformError{OS: goos}
	}
}

// ArchToken maps a GOARCH value to the architecture token of the release
// artifact name. Published artifacts:
//
//	shellcheck-v0.10.0.darwin.aarch64.tar.xz
//	shellcheck-v0.10.0.darwin.x86_64.tar.xz
//	shellcheck-v0.10.0.linux.aarch64.tar.xz
//	shellcheck-v0.10.0.linux.armv6hf.tar.xz
//	shellcheck-v0.10.0.linux.riscv64.tar.xz
//	shellcheck-v0.10.0.linux.x86_64.tar.xz
func ArchToken(goarch string) (string, error) {
	switch goarch {
	case "amd64":
		return "x86_64", nil
	case "arm64":
		return "aarch64", nil
	case "arm": // linux only
		return "armv6hf", nil
	case "riscv64": // linux only
		return "riscv64", nil
	default:
		return "", &UnsupportedArchitectureError{Arch: goarch}
	}
}

package platform

import (
	"errors"
	"strings"
	"testing"
)

func TestArchToken(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"amd64", "amd64", "x86_64", false},
		{"arm64", "arm64", "aarch64", false},
		{"arm", "arm", "armv6hf", false},
		{"riscv64", "riscv64", "riscv64", false},
		{"386 unsupported", "386", "", true},
		{"ppc64le unsupported", "ppc64le", "", true},
		{"s390x unsupported", "s390x", "", true},
		{"upstream name is not an input", "x86_64", "", true},
		{"case sensitive", "AMD64", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ArchToken(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ArchToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedArchitecture) {
					t.Errorf("ArchToken() error = %v, want ErrUnsupportedArchitecture", err)
				}
				var archErr *UnsupportedArchitectureError
				if !errors.As(err, &archErr) || archErr.Arch != tt.input {
					t.Errorf("ArchToken() error does not name %q: %v", tt.input, err)
				}
				if !strings.Contains(err.Error(), "No prebuilt shellcheck binary") {
					t.Errorf("ArchToken() error lacks guidance: %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ArchToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOSToken(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"darwin", "darwin", "darwin", false},
		{"linux", "linux", "linux", false},
		{"windows unsupported", "windows", "", true},
		{"freebsd unsupported", "freebsd", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OSToken(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OSToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedPlatform) {
					t.Errorf("OSToken() error = %v, want ErrUnsupportedPlatform", err)
				}
				if !strings.Contains(err.Error(), tt.input) {
					t.Errorf("OSToken() error does not name %q: %v", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("OSToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInfoTokens(t *testing.T) {
	info := &Info{OS: "darwin", Arch: "amd64"}
	osToken, archToken, err := info.Tokens()
	if err != nil {
		t.Fatalf("Tokens() error = %v", err)
	}
	if osToken != "darwin" || archToken != "x86_64" {
		t.Errorf("Tokens() = (%q, %q), want (darwin, x86_64)", osToken, archToken)
	}

	info = &Info{OS: "windows", Arch: "amd64"}
	if _, _, err := info.Tokens(); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("Tokens() error = %v, want ErrUnsupportedPlatform", err)
	}

	info = &Info{OS: "windows", Arch: "mips"}
	if _, _, err := info.Tokens(); !errors.Is(err, ErrUnsupportedArchitecture) {
		t.Errorf("Tokens() error = %v, want ErrUnsupportedArchitecture", err)
	}
}

package platform

import (
	"context"
	"runtime"
	"testing"
)

func TestRealDetectorDetect(t *testing.T) {
	info, err := NewDetector().Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", info.OS, runtime.GOOS)
	}
	if info.Arch != runtime.GOARCH {
		t.Errorf("Arch = %q, want %q", info.Arch, runtime.GOARCH)
	}
	if !info.IsLinux() && info.Platform != "" {
		t.Errorf("Platform = %q on non-Linux host, want empty", info.Platform)
	}
}

func TestRealDetectorCancelled(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("distribution detection only runs on Linux")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// gopsutil may answer from files without consulting the context; either
	// way a result must never be returned alongside an error.
	info, err := NewDetector().Detect(ctx)
	if err != nil && info != nil {
		t.Errorf("Detect() returned both info and error")
	}
}

func TestStaticDetector(t *testing.T) {
	d := StaticDetector{Info: Info{OS: "linux", Arch: "riscv64"}}
	info, err := d.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	info.OS = "mutated"

	again, _ := d.Detect(context.Background())
	if again.OS != "linux" {
		t.Errorf("StaticDetector leaked mutation: OS = %q", again.OS)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Detect(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestMapFamily(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debian", FamilyDebian},
		{"Ubuntu", FamilyDebian},
		{" rhel ", FamilyRHEL},
		{"fedora", FamilyFedora},
		{"opensuse", FamilySUSE},
		{"manjaro", FamilyArch},
		{"alpine", FamilyAlpine},
		{"gentoo", FamilyUnknown},
		{"", FamilyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := mapFamily(tt.input); got != tt.want {
				t.Errorf("mapFamily(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

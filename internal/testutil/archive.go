package testutil

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

// ArchiveEntry describes one member of a test archive.
type ArchiveEntry struct {
	Name     string
	Body     string
	Mode     int64
	Dir      bool
	Linkname string
}

// ShellcheckArchive returns the layout of an upstream shellcheck release archive.
func ShellcheckArchive(version string) []ArchiveEntry {
	root := "shellcheck-v" + version
	return []ArchiveEntry{
		{Name: root + "/", Dir: true, Mode: 0o755},
		{Name: root + "/LICENSE.txt", Body: "GPLv3", Mode: 0o644},
		{Name: root + "/README.txt", Body: "ShellCheck", Mode: 0o644},
		{Name: root + "/shellcheck", Body: "#!/bin/sh\necho shellcheck\n", Mode: 0o755},
	}
}

// WriteTarXz writes entries as a .tar.xz archive at path.
func WriteTarXz(t *testing.T, path string, entries []ArchiveEntry) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create archive dir: %v", err)
	}

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer file.Close()

	xzWriter, err := xz.NewWriter(file)
	if err != nil {
		t.Fatalf("failed to create xz writer: %v", err)
	}

	tarWriter := tar.NewWriter(xzWriter)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.Name, Mode: e.Mode}
		switch {
		case e.Dir:
			hdr.Typeflag = tar.TypeDir
		case e.Linkname != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.Linkname
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.Body))
		}
		if err := tarWriter.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write tar header %s: %v", e.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tarWriter.Write([]byte(e.Body)); err != nil {
				t.Fatalf("failed to write tar body %s: %v", e.Name, err)
			}
		}
	}

	if err := tarWriter.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := xzWriter.Close(); err != nil {
		t.Fatalf("failed to close xz writer: %v", err)
	}
}

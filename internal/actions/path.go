package actions

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PathFileError represents a failure writing the runner's GITHUB_PATH file.
type PathFileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *PathFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("path file error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("path file error (%s): %s", e.Path, e.Message)
}

func (e *PathFileError) Unwrap() error {
	return e.Cause
}

// Runtime talks to the runner through files named in the environment and
// workflow commands on Stdout.
type Runtime struct {
	Stdout io.Writer
}

// NewRuntime creates a runtime writing workflow commands to stdout.
func NewRuntime(stdout io.Writer) *Runtime {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Runtime{Stdout: stdout}
}

// AddPath makes dir available to later steps and to this process.
//
// When GITHUB_PATH is set the directory is appended to that file; otherwise
// the add-path workflow command is issued. The directory is always prepended
// to this process's PATH.
func (r *Runtime) AddPath(dir string) error {
	if dir == "" {
		return fmt.Errorf("add path: directory is empty")
	}

	if pathFile := os.Getenv("GITHUB_PATH"); pathFile != "" {
		if err := appendLine(pathFile, dir); err != nil {
			return err
		}
	} else if err := IssueCommand(r.Stdout, "add-path", dir); err != nil {
		return fmt.Errorf("issue add-path command: %w", err)
	}

	current := os.Getenv("PATH")
	if !containsPathEntry(current, dir) {
		if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+current); err != nil {
			return fmt.Errorf("update PATH: %w", err)
		}
	}

	return nil
}

func appendLine(path, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return &PathFileError{Path: path, Message: "directory contains a line break"}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &PathFileError{Path: path, Message: "failed to create parent directory", Cause: err}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &PathFileError{Path: path, Message: "failed to open file", Cause: err}
	}

	if _, err := file.WriteString(line + "\n"); err != nil {
		file.Close()
		return &PathFileError{Path: path, Message: "failed to append entry", Cause: err}
	}

	if err := file.Close(); err != nil {
		return &PathFileError{Path: path, Message: "failed to close file", Cause: err}
	}

	return nil
}

func containsPathEntry(pathList, dir string) bool {
	for _, entry := range filepath.SplitList(pathList) {
		if entry == dir {
			return true
		}
	}
	return false
}

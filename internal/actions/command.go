// Package actions implements the parts of the GitHub Actions runner protocol
// this tool needs: reading step inputs, registering directories on the
// executable search path, and reporting a step failure.
package actions

import (
	"fmt"
	"io"
	"strings"
)

// EscapeData escapes a workflow command message.
func EscapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// IssueCommand writes a workflow command line such as "::error::message".
func IssueCommand(w io.Writer, command, message string) error {
	_, err := fmt.Fprintf(w, "::%s::%s\n", command, EscapeData(message))
	return err
}

// SetFailed reports msg as the step's error annotation. The caller is
// responsible for exiting with a non-zero status.
func SetFailed(w io.Writer, msg string) {
	_ = IssueCommand(w, "error", msg)
}

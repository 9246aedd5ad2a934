// Package testutil holds small assertion helpers for output-shaped tests.
package testutil

import (
	"regexp"
	"strings"
	"testing"
)

// AssertContains fails the test if output does not contain expected.
func AssertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("output does not contain expected string\nExpected to find: %q\nIn output:\n%s", expected, truncateForError(output))
	}
}

// AssertNotContains fails the test if output contains unexpected.
func AssertNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	if strings.Contains(output, unexpected) {
		t.Errorf("output contains unexpected string\nDid not expect to find: %q\nIn output:\n%s", unexpected, truncateForError(output))
	}
}

// AssertContainsPlain fails if output (after stripping ANSI) does not contain expected.
// Use it for rendered terminal output where escape codes may split the text.
func AssertContainsPlain(t *testing.T, output, expected string) {
	t.Helper()
	plain := StripANSI(output)
	if !strings.Contains(plain, expected) {
		t.Errorf("output does not contain expected string\nExpected to find: %q\nIn output (plain):\n%s", expected, truncateForError(plain))
	}
}

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]|\x1b\][^\x07]*\x07`)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// truncateForError truncates output for error messages to avoid huge logs.
func truncateForError(s string) string {
	const maxLen = 2000
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "\n... [truncated]"
}

package ui

import (
	"testing"

	"github.com/samsaffron/term-chat/internal/testutil"
)

func TestFormatEnabled(t *testing.T) {
	styles := DefaultStyles()

	on := styles.FormatEnabled(true)
	testutil.AssertContains(t, on, "enabled")
	testutil.AssertContains(t, on, EnabledIcon)

	off := styles.FormatEnabled(false)
	testutil.AssertContains(t, off, "disabled")
	testutil.AssertContains(t, off, DisabledIcon)
}

func TestFormatResult(t *testing.T) {
	styles := DefaultStyles()

	ok := styles.FormatResult(true, "saved")
	testutil.AssertContains(t, ok, SuccessIcon)
	testutil.AssertContains(t, ok, "saved")

	fail := styles.FormatResult(false, "nope")
	testutil.AssertContains(t, fail, FailIcon)
	testutil.AssertContains(t, fail, "nope")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this one is too long", 10, "this on..."},
		{"abc", 2, "ab"},
		{"", 5, ""},
	}

	for _, tt := range tests {
		got := Truncate(tt.input, tt.maxLen)
		if got != tt.expected {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
		}
	}
}

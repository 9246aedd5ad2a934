package session

import (
	"strings"
	"testing"
	"time"
)

func TestNewID(t *testing.T) {
	id := NewID()

	// YYYYMMDD-HHMMSS-RANDOM
	if len(id) != 22 {
		t.Errorf("NewID() = %q, expected length 22", id)
	}
	if !strings.HasPrefix(id, "20") {
		t.Errorf("NewID() = %q, expected to start with '20'", id)
	}
	if id[8] != '-' || id[15] != '-' {
		t.Errorf("NewID() = %q, expected hyphens at positions 8 and 15", id)
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"20240115-143052-a1b2c3", "240115-1430"},
		{"20231225-000000-ffffff", "231225-0000"},
		{"short", "short"}, // Too short, returned as-is
		{"", ""},
	}

	for _, tt := range tests {
		got := ShortID(tt.input)
		if got != tt.expected {
			t.Errorf("ShortID(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNewIDUniqueness(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if ids[id] {
			t.Errorf("NewID() generated duplicate ID: %s", id)
		}
		ids[id] = true
		time.Sleep(time.Microsecond)
	}
}

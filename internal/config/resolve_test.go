package config

import "testing"

func TestResolveValue(t *testing.T) {
	t.Setenv("TERM_CHAT_TEST_KEY", "sk-from-env")

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"literal", "sk-literal", "sk-literal"},
		{"braced env", "${TERM_CHAT_TEST_KEY}", "sk-from-env"},
		{"bare env", "$TERM_CHAT_TEST_KEY", "sk-from-env"},
		{"missing env", "${TERM_CHAT_TEST_MISSING}", ""},
		{"empty", "", ""},
		{"whitespace trimmed", "  sk-literal  ", "sk-literal"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveValue(tc.value)
			if err != nil {
				t.Fatalf("ResolveValue(%q): %v", tc.value, err)
			}
			if got != tc.want {
				t.Errorf("ResolveValue(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestResolveValueCommand(t *testing.T) {
	got, err := ResolveValue("$(printf secret-token)")
	if err != nil {
		t.Fatalf("ResolveValue: %v", err)
	}
	if got != "secret-token" {
		t.Fatalf("got %q, want %q", got, "secret-token")
	}
}

func TestResolveValueCommandFailure(t *testing.T) {
	if _, err := ResolveValue("$(exit 3)"); err == nil {
		t.Fatal("expected error from failing command")
	}
}

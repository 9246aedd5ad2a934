package cmd

import (
	"strings"
	"testing"

	"github.com/samsaffron/term-chat/internal/config"
)

func completionConfig() *config.Config {
	cfg := config.Default()
	cfg.Clients = []config.ClientEntry{
		{"type": "anthropic"},
		{
			"type": "localai",
			"name": "ollama",
			"url":  "http://localhost:11434/v1",
			"models": []map[string]any{
				{"name": "llama3.2"},
				{"name": "qwen3"},
			},
		},
	}
	return cfg
}

func TestModelCompletions_ClientNames(t *testing.T) {
	got := modelCompletions(completionConfig(), "")
	want := []string{"anthropic", "ollama"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestModelCompletions_ClientPrefix(t *testing.T) {
	got := modelCompletions(completionConfig(), "oll")
	if len(got) != 1 || got[0] != "ollama" {
		t.Fatalf("expected [ollama], got %v", got)
	}
}

func TestModelCompletions_FullSelections(t *testing.T) {
	got := modelCompletions(completionConfig(), "ollama:")
	want := []string{"ollama:llama3.2", "ollama:qwen3"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestModelCompletions_CatalogSelections(t *testing.T) {
	got := modelCompletions(completionConfig(), "anthropic:claude")
	if len(got) == 0 {
		t.Fatal("expected catalog completions for anthropic:claude")
	}
	for _, c := range got {
		if !strings.HasPrefix(c, "anthropic:claude") {
			t.Fatalf("unexpected completion %q", c)
		}
	}
}

func TestModelCompletions_NoMatch(t *testing.T) {
	if got := modelCompletions(completionConfig(), "zzz"); len(got) != 0 {
		t.Fatalf("expected no completions, got %v", got)
	}
}

package config

import "testing"

func TestClientEntryName(t *testing.T) {
	tests := []struct {
		name  string
		entry ClientEntry
		want  string
	}{
		{"type only", ClientEntry{"type": "openai"}, "openai"},
		{"name override", ClientEntry{"type": "localai", "name": "ollama"}, "ollama"},
		{"empty name falls back", ClientEntry{"type": "gemini", "name": ""}, "gemini"},
		{"missing type", ClientEntry{"api_key": "x"}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.entry.Name(); got != tc.want {
				t.Errorf("Name() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSharedSnapshotIsolation(t *testing.T) {
	cfg := Default()
	cfg.Model = "openai:gpt-5"
	shared := NewShared(cfg)

	before := shared.Snapshot()
	shared.SetModel("anthropic:claude-sonnet-4-5")
	after := shared.Snapshot()

	if before.Model != "openai:gpt-5" {
		t.Fatalf("old snapshot mutated: model=%q", before.Model)
	}
	if after.Model != "anthropic:claude-sonnet-4-5" {
		t.Fatalf("model=%q, want %q", after.Model, "anthropic:claude-sonnet-4-5")
	}
}

func TestSharedSetDryRun(t *testing.T) {
	shared := NewShared(Default())
	if shared.Snapshot().DryRun {
		t.Fatal("dry_run should default to false")
	}
	shared.SetDryRun(true)
	if !shared.Snapshot().DryRun {
		t.Fatal("SetDryRun(true) not visible in snapshot")
	}
}

func TestSharedSettersPreserveClients(t *testing.T) {
	cfg := Default()
	cfg.Clients = []ClientEntry{
		{"type": "openai", "api_key": "sk-test"},
		{"type": "localai", "name": "ollama"},
	}
	shared := NewShared(cfg)
	shared.SetRole("coder")

	snap := shared.Snapshot()
	if len(snap.Clients) != 2 {
		t.Fatalf("clients=%d, want 2", len(snap.Clients))
	}
	if snap.Clients[1].Name() != "ollama" {
		t.Fatalf("clients[1]=%q, want %q", snap.Clients[1].Name(), "ollama")
	}
	if snap.Role != "coder" {
		t.Fatalf("role=%q, want %q", snap.Role, "coder")
	}
}

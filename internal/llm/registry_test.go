package llm

import (
	"strings"
	"testing"

	"github.com/samsaffron/term-chat/internal/config"
)

func TestAllClientsOrder(t *testing.T) {
	got := AllClients()
	want := []string{"openai", "localai", "anthropic", "gemini", "bedrock"}
	if len(got) != len(want) {
		t.Fatalf("clients=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("clients[%d]=%q, want %q", i, got[i], want[i])
		}
	}
}

func TestCreateClientConfig(t *testing.T) {
	for _, name := range AllClients() {
		tmpl, err := CreateClientConfig(name)
		if err != nil {
			t.Fatalf("CreateClientConfig(%q): %v", name, err)
		}
		if !strings.Contains(tmpl, "type: "+name) {
			t.Fatalf("template for %q missing its type tag:\n%s", name, tmpl)
		}
	}

	if _, err := CreateClientConfig("netscape"); err == nil {
		t.Fatal("expected error for unknown client kind")
	} else if got := err.Error(); got != "unknown client netscape" {
		t.Fatalf("err=%q, want %q", got, "unknown client netscape")
	}
}

func TestListModelsIndexAndOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Clients = []config.ClientEntry{
		{
			"type": "localai",
			"name": "local-one",
			"url":  "http://localhost:8080/v1",
			"models": []any{
				map[string]any{"name": "gpt-a", "max_tokens": 4096},
				map[string]any{"name": "gpt-b", "max_tokens": 8192},
			},
		},
		{
			"type": "localai",
			"name": "local-two",
			"url":  "http://localhost:9090/v1",
			"models": []any{
				map[string]any{"name": "local-x", "max_tokens": 2048},
			},
		},
	}

	models := ListModels(cfg)
	want := []ModelInfo{
		{Client: "local-one", Name: "gpt-a", MaxTokens: 4096, Index: 0},
		{Client: "local-one", Name: "gpt-b", MaxTokens: 8192, Index: 0},
		{Client: "local-two", Name: "local-x", MaxTokens: 2048, Index: 1},
	}
	if len(models) != len(want) {
		t.Fatalf("models=%d, want %d", len(models), len(want))
	}
	for i, m := range want {
		if models[i] != m {
			t.Fatalf("models[%d]=%+v, want %+v", i, models[i], m)
		}
	}
}

func TestListModelsSkipsUnknownKinds(t *testing.T) {
	cfg := config.Default()
	cfg.Clients = []config.ClientEntry{
		{"type": "netscape"},
		{
			"type":   "localai",
			"url":    "http://localhost:8080/v1",
			"models": []any{map[string]any{"name": "llama3", "max_tokens": 8192}},
		},
	}

	models := ListModels(cfg)
	if len(models) != 1 {
		t.Fatalf("models=%d, want 1 (unknown kind contributes nothing)", len(models))
	}
	if models[0].Index != 1 {
		t.Fatalf("index=%d, want 1 (position in the clients list, not among known kinds)", models[0].Index)
	}
}

func TestListModelsBuiltinCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.Clients = []config.ClientEntry{
		{"type": "openai", "api_key": "sk-test"},
	}

	models := ListModels(cfg)
	if len(models) == 0 {
		t.Fatal("openai kind offered no models")
	}
	for i, m := range models {
		if m.Client != "openai" || m.Index != 0 {
			t.Fatalf("models[%d]=%+v, want client=openai index=0", i, m)
		}
		if m.MaxTokens <= 0 {
			t.Fatalf("models[%d]=%+v has no token limit", i, m)
		}
	}
}

func TestCurrentModel(t *testing.T) {
	cfg := config.Default()
	cfg.Clients = []config.ClientEntry{
		{
			"type": "localai",
			"name": "ollama",
			"url":  "http://localhost:11434/v1",
			"models": []any{
				map[string]any{"name": "llama3", "max_tokens": 8192},
				map[string]any{"name": "qwen2", "max_tokens": 32768},
			},
		},
		{"type": "anthropic", "api_key": "sk-test"},
	}

	tests := []struct {
		name      string
		selection string
		want      ModelInfo
	}{
		{"empty picks first", "", ModelInfo{Client: "ollama", Name: "llama3", MaxTokens: 8192, Index: 0}},
		{"client only picks its first", "anthropic", ModelInfo{Client: "anthropic", Name: "claude-sonnet-4-6", MaxTokens: 136_000, Index: 1}},
		{"client and model", "ollama:qwen2", ModelInfo{Client: "ollama", Name: "qwen2", MaxTokens: 32768, Index: 0}},
		{"model name with colon", "ollama:llama3:70b", ModelInfo{Client: "ollama", Name: "llama3:70b", MaxTokens: 8192, Index: 0}},
		{"out-of-catalog model allowed", "anthropic:claude-sonnet-4-9", ModelInfo{Client: "anthropic", Name: "claude-sonnet-4-9", MaxTokens: 136_000, Index: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg.Model = tc.selection
			got, err := CurrentModel(cfg)
			if err != nil {
				t.Fatalf("CurrentModel(%q): %v", tc.selection, err)
			}
			if got != tc.want {
				t.Fatalf("CurrentModel(%q) = %+v, want %+v", tc.selection, got, tc.want)
			}
		})
	}
}

func TestCurrentModelErrors(t *testing.T) {
	cfg := config.Default()
	if _, err := CurrentModel(cfg); err == nil {
		t.Fatal("expected error with no clients configured")
	}

	cfg.Clients = []config.ClientEntry{{"type": "openai", "api_key": "sk-test"}}
	cfg.Model = "missing:gpt-5"
	if _, err := CurrentModel(cfg); err == nil {
		t.Fatal("expected error for selection naming an unconfigured client")
	}
}

func TestInitClientUnknownKind(t *testing.T) {
	cfg := config.Default()
	cfg.Clients = []config.ClientEntry{
		{
			"type":   "localai",
			"url":    "http://localhost:8080/v1",
			"models": []any{map[string]any{"name": "llama3", "max_tokens": 8192}},
		},
		{"type": "netscape", "name": "weird"},
	}
	cfg.Model = "weird"

	_, err := InitClient(config.NewShared(cfg))
	if err == nil {
		t.Fatal("expected error for unknown client kind")
	}
	want := "unknown client weird at config.clients[1]"
	if got := err.Error(); got != want {
		t.Fatalf("err=%q, want %q", got, want)
	}
}

func TestInitClientBuildsSelectedBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Clients = []config.ClientEntry{
		{
			"type":   "localai",
			"url":    "http://localhost:8080/v1",
			"models": []any{map[string]any{"name": "llama3", "max_tokens": 8192}},
		},
	}

	client, err := InitClient(config.NewShared(cfg))
	if err != nil {
		t.Fatalf("InitClient: %v", err)
	}
	model := client.Model()
	if model.Client != "localai" || model.Name != "llama3" || model.Index != 0 {
		t.Fatalf("model=%+v, want localai llama3 at index 0", model)
	}
	if _, ok := client.backend.(*localAIClient); !ok {
		t.Fatalf("backend=%T, want *localAIClient", client.backend)
	}
}

func TestModelInfoFullName(t *testing.T) {
	m := ModelInfo{Client: "ollama", Name: "llama3"}
	if got := m.FullName(); got != "ollama:llama3" {
		t.Fatalf("FullName=%q, want %q", got, "ollama:llama3")
	}
	bare := ModelInfo{Client: "weird"}
	if got := bare.FullName(); got != "weird" {
		t.Fatalf("FullName=%q, want %q", got, "weird")
	}
}

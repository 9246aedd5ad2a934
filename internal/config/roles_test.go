package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRoleApply(t *testing.T) {
	tests := []struct {
		name  string
		role  Role
		input string
		want  string
	}{
		{
			"embedded placeholder",
			Role{Name: "shell", Prompt: "Convert to a shell command: __INPUT__"},
			"list files",
			"Convert to a shell command: list files",
		},
		{
			"placeholder twice",
			Role{Name: "echo", Prompt: "__INPUT__ and again __INPUT__"},
			"hi",
			"hi and again hi",
		},
		{
			"plain prompt prepends",
			Role{Name: "pirate", Prompt: "Answer like a pirate."},
			"hello",
			"Answer like a pirate.\nhello",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.role.Apply(tc.input); got != tc.want {
				t.Errorf("Apply(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestEchoMessages(t *testing.T) {
	cfg := Default()
	cfg.SetRoles([]Role{
		{Name: "shell", Prompt: "cmd: __INPUT__"},
		{Name: "pirate", Prompt: "Answer like a pirate."},
	})

	if got := cfg.EchoMessages("hello"); got != "hello" {
		t.Fatalf("no role: echo=%q, want input unchanged", got)
	}

	cfg.Role = "shell"
	if got := cfg.EchoMessages("ls"); got != "cmd: ls" {
		t.Fatalf("embedded role: echo=%q, want %q", got, "cmd: ls")
	}

	cfg.Role = "pirate"
	if got := cfg.EchoMessages("hi"); got != "Answer like a pirate.\nhi" {
		t.Fatalf("plain role: echo=%q", got)
	}

	cfg.Role = "missing"
	if got := cfg.EchoMessages("hi"); got != "hi" {
		t.Fatalf("unknown role: echo=%q, want input unchanged", got)
	}
}

func TestShapeInput(t *testing.T) {
	cfg := Default()
	cfg.SetRoles([]Role{
		{Name: "shell", Prompt: "cmd: __INPUT__"},
		{Name: "pirate", Prompt: "Answer like a pirate."},
	})

	cfg.Role = "shell"
	content, system := cfg.ShapeInput("ls")
	if content != "cmd: ls" || system != "" {
		t.Fatalf("embedded role: content=%q system=%q", content, system)
	}

	cfg.Role = "pirate"
	content, system = cfg.ShapeInput("hi")
	if content != "hi" || system != "Answer like a pirate." {
		t.Fatalf("plain role: content=%q system=%q", content, system)
	}

	cfg.Role = ""
	content, system = cfg.ShapeInput("hi")
	if content != "hi" || system != "" {
		t.Fatalf("no role: content=%q system=%q", content, system)
	}
}

func TestLoadRoles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roles.yaml")
	data := `- name: shell
  prompt: "cmd: __INPUT__"
- name: pirate
  prompt: Answer like a pirate.
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	roles, err := LoadRoles(path)
	if err != nil {
		t.Fatalf("LoadRoles: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("roles=%d, want 2", len(roles))
	}
	if roles[0].Name != "shell" || !roles[0].Embedded() {
		t.Fatalf("roles[0]=%+v, want embedded shell role", roles[0])
	}
	if roles[1].Name != "pirate" || roles[1].Embedded() {
		t.Fatalf("roles[1]=%+v, want plain pirate role", roles[1])
	}
}

func TestLoadRolesRejectsNameless(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roles.yaml")
	if err := os.WriteFile(path, []byte("- prompt: no name here\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRoles(path); err == nil {
		t.Fatal("expected error for role without name")
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// InputPlaceholder marks where user input is spliced into an embedded role
// prompt. Roles without the placeholder contribute a system prompt instead.
const InputPlaceholder = "__INPUT__"

type Role struct {
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

// Embedded reports whether the role's prompt wraps the user input rather
// than standing apart as a system prompt.
func (r Role) Embedded() bool {
	return strings.Contains(r.Prompt, InputPlaceholder)
}

// Apply merges user input into the role prompt.
func (r Role) Apply(input string) string {
	if r.Embedded() {
		return strings.ReplaceAll(r.Prompt, InputPlaceholder, input)
	}
	return r.Prompt + "\n" + input
}

// LoadRoles reads a roles file: a top-level YAML list of {name, prompt}.
func LoadRoles(path string) ([]Role, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roles file: %w", err)
	}
	var roles []Role
	if err := yaml.Unmarshal(data, &roles); err != nil {
		return nil, fmt.Errorf("failed to parse roles file %s: %w", path, err)
	}
	for i, r := range roles {
		if r.Name == "" {
			return nil, fmt.Errorf("roles file %s: entry %d has no name", path, i)
		}
	}
	return roles, nil
}

func (c *Config) loadRoles() error {
	path := c.RolesFile
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(configDir, "term-chat", "roles.yaml")
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	roles, err := LoadRoles(path)
	if err != nil {
		return err
	}
	c.roles = roles
	return nil
}

// SetRoles installs the role list directly, bypassing file loading.
func (c *Config) SetRoles(roles []Role) {
	c.roles = roles
}

// Roles returns the loaded role list.
func (c *Config) Roles() []Role {
	return c.roles
}

// ActiveRole returns the currently selected role, if any.
func (c *Config) ActiveRole() (Role, bool) {
	if c.Role == "" {
		return Role{}, false
	}
	for _, r := range c.roles {
		if r.Name == c.Role {
			return r, true
		}
	}
	return Role{}, false
}

// FindRole looks a role up by name.
func (c *Config) FindRole(name string) (Role, bool) {
	for _, r := range c.roles {
		if r.Name == name {
			return r, true
		}
	}
	return Role{}, false
}

// EchoMessages returns what a dry-run reply to content looks like: the
// active role's template applied to the input, or the input untouched when
// no role is active.
func (c *Config) EchoMessages(content string) string {
	if role, ok := c.ActiveRole(); ok {
		return role.Apply(content)
	}
	return content
}

// ShapeInput splits raw user input into the content sent to the model and
// the system prompt accompanying it, according to the active role.
func (c *Config) ShapeInput(input string) (content, system string) {
	role, ok := c.ActiveRole()
	if !ok {
		return input, ""
	}
	if role.Embedded() {
		return role.Apply(input), ""
	}
	return input, role.Prompt
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Model selects the active backend and model, as "client" or
	// "client:model-name". Empty means the first model of the first
	// configured client.
	Model       string        `mapstructure:"model" yaml:"model"`
	DryRun      bool          `mapstructure:"dry_run" yaml:"dry_run"`
	Stream      bool          `mapstructure:"stream" yaml:"stream"`
	Role        string        `mapstructure:"role" yaml:"role,omitempty"`
	SaveSession bool          `mapstructure:"save_session" yaml:"save_session"`
	RolesFile   string        `mapstructure:"roles_file" yaml:"roles_file,omitempty"`
	Clients     []ClientEntry `mapstructure:"clients" yaml:"clients"`
	Sessions    Sessions      `mapstructure:"sessions" yaml:"sessions"`

	roles []Role
}

type Sessions struct {
	MaxAgeDays int `mapstructure:"max_age_days" yaml:"max_age_days"`
	MaxCount   int `mapstructure:"max_count" yaml:"max_count"`
}

// ClientEntry is one raw item from the clients list. Entries are kept
// untyped here; the llm package decodes each one according to its type tag.
type ClientEntry map[string]any

// Type returns the entry's "type" tag, or "" when missing.
func (e ClientEntry) Type() string {
	s, _ := e["type"].(string)
	return s
}

// Name returns the entry's display name: the "name" field when present,
// otherwise the type tag. Two entries of the same type are told apart by
// giving them distinct names.
func (e ClientEntry) Name() string {
	if s, _ := e["name"].(string); s != "" {
		return s
	}
	return e.Type()
}

func Default() *Config {
	return &Config{
		Stream: true,
		Sessions: Sessions{
			MaxAgeDays: 90,
			MaxCount:   200,
		},
	}
}

func Load() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "term-chat")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	v.SetDefault("stream", true)
	v.SetDefault("sessions.max_age_days", 90)
	v.SetDefault("sessions.max_count", 200)

	// Config file is optional; defaults plus env API keys are enough to run.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.loadRoles(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "term-chat", "config.yaml"), nil
}

// Exists returns true if a config file exists
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// NeedsSetup returns true if no config file exists and no client could be
// built from environment variables alone.
func NeedsSetup() bool {
	if Exists() {
		return false
	}
	return os.Getenv("OPENAI_API_KEY") == "" &&
		os.Getenv("ANTHROPIC_API_KEY") == "" &&
		os.Getenv("GEMINI_API_KEY") == ""
}

// Save writes the config to disk
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: client entries may carry literal API keys.
	return os.WriteFile(path, data, 0600)
}

// Shared is a reference-counted handle to the live configuration. Readers
// take an immutable snapshot; setters install a replacement snapshot, so a
// reader mid-call never observes a half-applied change.
type Shared struct {
	mu  sync.RWMutex
	cfg *Config
}

func NewShared(cfg *Config) *Shared {
	return &Shared{cfg: cfg}
}

// Snapshot returns the current configuration snapshot. The returned value
// must be treated as read-only.
func (s *Shared) Snapshot() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Shared) SetModel(selection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.cfg
	next.Model = selection
	s.cfg = &next
}

func (s *Shared) SetDryRun(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.cfg
	next.DryRun = on
	s.cfg = &next
}

func (s *Shared) SetRole(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.cfg
	next.Role = name
	s.cfg = &next
}

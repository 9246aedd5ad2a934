package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/samsaffron/term-chat/internal/config"
)

// ModelInfo identifies one model offered by a configured client. Index is
// the zero-based position of the owning entry in the clients list — not a
// global model ID. Values are derived freshly from configuration and never
// persisted.
type ModelInfo struct {
	Client    string
	Name      string
	MaxTokens int
	Index     int
}

// FullName returns the selection string for the model ("client:name").
func (m ModelInfo) FullName() string {
	if m.Name == "" {
		return m.Client
	}
	return m.Client + ":" + m.Name
}

// Prompt is one outgoing request: user content plus the optional system
// prompt contributed by the active role.
type Prompt struct {
	Content string
	System  string
}

// ModelConfig declares one model a config-driven client offers.
type ModelConfig struct {
	Name      string `mapstructure:"name"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type OpenAIConfig struct {
	Name           string  `mapstructure:"name"`
	APIKey         string  `mapstructure:"api_key"`
	OrganizationID string  `mapstructure:"organization_id"`
	Proxy          *string `mapstructure:"proxy"`
	ConnectTimeout int     `mapstructure:"connect_timeout"`
}

// LocalAIConfig covers any server speaking the OpenAI chat completions
// protocol: LocalAI, Ollama, LM Studio, OpenRouter and friends. Models are
// declared in the entry since the server's catalog is its own business.
type LocalAIConfig struct {
	Name           string        `mapstructure:"name"`
	URL            string        `mapstructure:"url"`
	APIKey         string        `mapstructure:"api_key"`
	Models         []ModelConfig `mapstructure:"models"`
	Proxy          *string       `mapstructure:"proxy"`
	ConnectTimeout int           `mapstructure:"connect_timeout"`
}

type AnthropicConfig struct {
	Name           string  `mapstructure:"name"`
	APIKey         string  `mapstructure:"api_key"`
	Proxy          *string `mapstructure:"proxy"`
	ConnectTimeout int     `mapstructure:"connect_timeout"`
}

type GeminiConfig struct {
	Name           string  `mapstructure:"name"`
	APIKey         string  `mapstructure:"api_key"`
	Proxy          *string `mapstructure:"proxy"`
	ConnectTimeout int     `mapstructure:"connect_timeout"`
}

// BedrockConfig serves Claude models through AWS Bedrock. Credentials may
// be given inline or left empty to use the ambient AWS credential chain.
type BedrockConfig struct {
	Name            string  `mapstructure:"name"`
	Region          string  `mapstructure:"region"`
	AccessKeyID     string  `mapstructure:"access_key_id"`
	SecretAccessKey string  `mapstructure:"secret_access_key"`
	Proxy           *string `mapstructure:"proxy"`
	ConnectTimeout  int     `mapstructure:"connect_timeout"`
}

const defaultConnectTimeout = 10 * time.Second

func connectTimeout(secs int) time.Duration {
	if secs <= 0 {
		return defaultConnectTimeout
	}
	return time.Duration(secs) * time.Second
}

// decodeEntry populates a kind-specific config struct from a raw clients
// entry.
func decodeEntry(entry config.ClientEntry, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(entry)); err != nil {
		return fmt.Errorf("invalid %s client config: %w", entry.Type(), err)
	}
	return nil
}

// resolveAPIKey resolves indirection in a configured key and falls back to
// an environment variable when the config carries none.
func resolveAPIKey(raw, envVar string) (string, error) {
	key, err := config.ResolveValue(raw)
	if err != nil {
		return "", err
	}
	if key == "" && envVar != "" {
		key = os.Getenv(envVar)
	}
	return key, nil
}

package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/samsaffron/term-chat/internal/config"
)

// anthropicMaxOutputTokens caps reply length; the Messages API requires an
// explicit output budget on every request.
const anthropicMaxOutputTokens = 8192

// anthropicClient talks to the Anthropic Messages API. The bedrock kind
// reuses it with AWS transport options, so the label tells error messages
// apart.
type anthropicClient struct {
	client *anthropic.Client
	model  ModelInfo
	label  string
}

// anthropicModelTable lists the models the anthropic kind offers, with
// effective input token limits (context minus reserved output).
var anthropicModelTable = []ModelConfig{
	{"claude-sonnet-4-6", 136_000},
	{"claude-opus-4-6", 136_000},
	{"claude-sonnet-4-5", 136_000},
	{"claude-opus-4-5", 136_000},
	{"claude-haiku-4-5", 136_000},
	{"claude-3-5-sonnet-latest", 192_000},
	{"claude-3-5-haiku-latest", 192_000},
}

func buildAnthropic(entry config.ClientEntry, model ModelInfo, cfg *config.Shared) (exchanger, error) {
	var ac AnthropicConfig
	if err := decodeEntry(entry, &ac); err != nil {
		return nil, err
	}
	apiKey, err := resolveAPIKey(ac.APIKey, "ANTHROPIC_API_KEY")
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: no api_key configured and ANTHROPIC_API_KEY unset")
	}
	proxy, err := ResolveProxy(ac.Proxy)
	if err != nil {
		return nil, err
	}
	httpClient, err := newHTTPClient(proxy, connectTimeout(ac.ConnectTimeout))
	if err != nil {
		return nil, err
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	)
	return &anthropicClient{client: &client, model: model, label: "anthropic"}, nil
}

func anthropicModels(entry config.ClientEntry, index int) []ModelInfo {
	name := entry.Name()
	models := make([]ModelInfo, 0, len(anthropicModelTable))
	for _, m := range anthropicModelTable {
		models = append(models, ModelInfo{Client: name, Name: m.Name, MaxTokens: m.MaxTokens, Index: index})
	}
	return models
}

func anthropicTemplate() string {
	return `  - type: anthropic
    api_key: $ANTHROPIC_API_KEY
    # proxy: socks5://127.0.0.1:1080
    # connect_timeout: 10
`
}

func (c *anthropicClient) params(p Prompt) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model.Name),
		MaxTokens: anthropicMaxOutputTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.Content)),
		},
	}
	if p.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: p.System}}
	}
	return params
}

func (c *anthropicClient) debugRequest(p Prompt) {
	if !Debug {
		return
	}
	fmt.Fprintf(os.Stderr, "=== DEBUG: %s Request ===\n", c.label)
	fmt.Fprintf(os.Stderr, "Model: %s\n", c.model.Name)
	fmt.Fprintf(os.Stderr, "System: %s\n", truncate(p.System, 200))
	fmt.Fprintf(os.Stderr, "Content: %s\n", truncate(p.Content, 200))
	fmt.Fprintln(os.Stderr, "=========================")
}

func (c *anthropicClient) exchangeOnce(ctx context.Context, p Prompt) (string, error) {
	c.debugRequest(p)
	message, err := c.client.Messages.New(ctx, c.params(p))
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", c.label, err)
	}
	var out string
	for _, block := range message.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out, nil
}

func (c *anthropicClient) exchangeStreaming(ctx context.Context, p Prompt, handler *ReplyStreamHandler) error {
	c.debugRequest(p)
	stream := c.client.Messages.NewStreaming(ctx, c.params(p))
	for stream.Next() {
		event := stream.Current()
		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if eventVariant.Delta.Type == "text_delta" && eventVariant.Delta.Text != "" {
				handler.Text(eventVariant.Delta.Text)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("%s streaming error: %w", c.label, err)
	}
	return nil
}

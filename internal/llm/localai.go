package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/samsaffron/term-chat/internal/config"
)

// localAIClient talks to any server speaking the OpenAI chat completions
// protocol: LocalAI, Ollama, LM Studio, OpenRouter and the rest. The wire
// format is OpenAI's; only the base URL and the model catalog differ, so
// models come from the clients entry rather than a builtin table.
type localAIClient struct {
	client *openai.Client
	model  ModelInfo
}

func buildLocalAI(entry config.ClientEntry, model ModelInfo, cfg *config.Shared) (exchanger, error) {
	var lc LocalAIConfig
	if err := decodeEntry(entry, &lc); err != nil {
		return nil, err
	}
	if lc.URL == "" {
		return nil, fmt.Errorf("localai: no url configured")
	}
	baseURL, err := config.ResolveValue(lc.URL)
	if err != nil {
		return nil, err
	}
	apiKey, err := resolveAPIKey(lc.APIKey, "")
	if err != nil {
		return nil, err
	}
	proxy, err := ResolveProxy(lc.Proxy)
	if err != nil {
		return nil, err
	}
	httpClient, err := newHTTPClient(proxy, connectTimeout(lc.ConnectTimeout))
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := openai.NewClient(opts...)
	return &localAIClient{client: &client, model: model}, nil
}

func localAIModels(entry config.ClientEntry, index int) []ModelInfo {
	var lc LocalAIConfig
	if err := decodeEntry(entry, &lc); err != nil {
		return nil
	}
	name := entry.Name()
	models := make([]ModelInfo, 0, len(lc.Models))
	for _, m := range lc.Models {
		models = append(models, ModelInfo{Client: name, Name: m.Name, MaxTokens: m.MaxTokens, Index: index})
	}
	return models
}

func localAITemplate() string {
	return `  - type: localai
    url: http://localhost:8080/v1
    # api_key: xxx
    models:
      - name: llama3
        max_tokens: 8192
`
}

func (c *localAIClient) params(p Prompt) openai.ChatCompletionNewParams {
	var messages []openai.ChatCompletionMessageParamUnion
	if p.System != "" {
		messages = append(messages, openai.SystemMessage(p.System))
	}
	messages = append(messages, openai.UserMessage(p.Content))
	return openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model.Name),
		Messages: messages,
	}
}

func (c *localAIClient) debugRequest(p Prompt) {
	if !Debug {
		return
	}
	fmt.Fprintln(os.Stderr, "=== DEBUG: LocalAI Request ===")
	fmt.Fprintf(os.Stderr, "Model: %s\n", c.model.Name)
	fmt.Fprintf(os.Stderr, "System: %s\n", truncate(p.System, 200))
	fmt.Fprintf(os.Stderr, "Content: %s\n", truncate(p.Content, 200))
	fmt.Fprintln(os.Stderr, "==============================")
}

func (c *localAIClient) exchangeOnce(ctx context.Context, p Prompt) (string, error) {
	c.debugRequest(p)
	resp, err := c.client.Chat.Completions.New(ctx, c.params(p))
	if err != nil {
		return "", fmt.Errorf("localai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("localai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *localAIClient) exchangeStreaming(ctx context.Context, p Prompt, handler *ReplyStreamHandler) error {
	c.debugRequest(p)
	stream := c.client.Chat.Completions.NewStreaming(ctx, c.params(p))
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			handler.Text(delta)
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("localai streaming error: %w", err)
	}
	return nil
}

package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/samsaffron/term-chat/internal/config"
)

// geminiClient talks to the Gemini API through the google genai SDK.
type geminiClient struct {
	client *genai.Client
	model  ModelInfo
}

// geminiModelTable lists the models the gemini kind offers, with effective
// input token limits (context minus reserved output).
var geminiModelTable = []ModelConfig{
	{"gemini-3-pro", 936_000},
	{"gemini-3-flash", 983_000},
	{"gemini-2.5-pro", 983_000},
	{"gemini-2.5-flash", 983_000},
	{"gemini-2.0-flash", 1_040_000},
}

func buildGemini(entry config.ClientEntry, model ModelInfo, cfg *config.Shared) (exchanger, error) {
	var gc GeminiConfig
	if err := decodeEntry(entry, &gc); err != nil {
		return nil, err
	}
	apiKey, err := resolveAPIKey(gc.APIKey, "GEMINI_API_KEY")
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: no api_key configured and GEMINI_API_KEY unset")
	}
	proxy, err := ResolveProxy(gc.Proxy)
	if err != nil {
		return nil, err
	}
	httpClient, err := newHTTPClient(proxy, connectTimeout(gc.ConnectTimeout))
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}
	return &geminiClient{client: client, model: model}, nil
}

func geminiModels(entry config.ClientEntry, index int) []ModelInfo {
	name := entry.Name()
	models := make([]ModelInfo, 0, len(geminiModelTable))
	for _, m := range geminiModelTable {
		models = append(models, ModelInfo{Client: name, Name: m.Name, MaxTokens: m.MaxTokens, Index: index})
	}
	return models
}

func geminiTemplate() string {
	return `  - type: gemini
    api_key: $GEMINI_API_KEY
    # proxy: socks5://127.0.0.1:1080
    # connect_timeout: 10
`
}

func (c *geminiClient) generateConfig(p Prompt) *genai.GenerateContentConfig {
	if p.System == "" {
		return nil
	}
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: p.System}},
		},
	}
}

func (c *geminiClient) debugRequest(p Prompt) {
	if !Debug {
		return
	}
	fmt.Fprintln(os.Stderr, "=== DEBUG: Gemini Request ===")
	fmt.Fprintf(os.Stderr, "Model: %s\n", c.model.Name)
	fmt.Fprintf(os.Stderr, "System: %s\n", truncate(p.System, 200))
	fmt.Fprintf(os.Stderr, "Content: %s\n", truncate(p.Content, 200))
	fmt.Fprintln(os.Stderr, "=============================")
}

func (c *geminiClient) exchangeOnce(ctx context.Context, p Prompt) (string, error) {
	c.debugRequest(p)
	resp, err := c.client.Models.GenerateContent(ctx, c.model.Name, genai.Text(p.Content), c.generateConfig(p))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	return geminiResponseText(resp), nil
}

func (c *geminiClient) exchangeStreaming(ctx context.Context, p Prompt, handler *ReplyStreamHandler) error {
	c.debugRequest(p)
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model.Name, genai.Text(p.Content), c.generateConfig(p)) {
		if err != nil {
			return fmt.Errorf("gemini streaming error: %w", err)
		}
		if text := geminiResponseText(resp); text != "" {
			handler.Text(text)
		}
	}
	return nil
}

func geminiResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var out string
	for _, part := range candidate.Content.Parts {
		out += part.Text
	}
	return out
}

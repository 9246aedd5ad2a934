package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/samsaffron/term-chat/internal/config"
)

// openAIClient talks to the OpenAI Responses API.
type openAIClient struct {
	client *openai.Client
	model  ModelInfo
}

// openAIModelTable lists the models the openai kind offers, with effective
// input token limits (context minus reserved output).
var openAIModelTable = []ModelConfig{
	{"gpt-5.2", 272_000},
	{"gpt-5.2-codex", 272_000},
	{"gpt-5.1", 272_000},
	{"gpt-5-mini", 272_000},
	{"gpt-5-nano", 272_000},
	{"gpt-4.1", 1_014_808},
	{"gpt-4o", 112_000},
	{"gpt-4o-mini", 112_000},
	{"o3", 100_000},
	{"o4-mini", 100_000},
}

func buildOpenAI(entry config.ClientEntry, model ModelInfo, cfg *config.Shared) (exchanger, error) {
	var oc OpenAIConfig
	if err := decodeEntry(entry, &oc); err != nil {
		return nil, err
	}
	apiKey, err := resolveAPIKey(oc.APIKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai: no api_key configured and OPENAI_API_KEY unset")
	}
	proxy, err := ResolveProxy(oc.Proxy)
	if err != nil {
		return nil, err
	}
	httpClient, err := newHTTPClient(proxy, connectTimeout(oc.ConnectTimeout))
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	}
	if oc.OrganizationID != "" {
		opts = append(opts, option.WithHeader("OpenAI-Organization", oc.OrganizationID))
	}
	client := openai.NewClient(opts...)
	return &openAIClient{client: &client, model: model}, nil
}

func openAIModels(entry config.ClientEntry, index int) []ModelInfo {
	name := entry.Name()
	models := make([]ModelInfo, 0, len(openAIModelTable))
	for _, m := range openAIModelTable {
		models = append(models, ModelInfo{Client: name, Name: m.Name, MaxTokens: m.MaxTokens, Index: index})
	}
	return models
}

func openAITemplate() string {
	return `  - type: openai
    api_key: $OPENAI_API_KEY
    # organization_id: org-xxxxxx
    # proxy: socks5://127.0.0.1:1080
    # connect_timeout: 10
`
}

func (c *openAIClient) params(p Prompt) responses.ResponseNewParams {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.model.Name),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(p.Content),
		},
	}
	if p.System != "" {
		params.Instructions = openai.String(p.System)
	}
	return params
}

func (c *openAIClient) debugRequest(p Prompt) {
	if !Debug {
		return
	}
	fmt.Fprintln(os.Stderr, "=== DEBUG: OpenAI Request ===")
	fmt.Fprintf(os.Stderr, "Model: %s\n", c.model.Name)
	fmt.Fprintf(os.Stderr, "System: %s\n", truncate(p.System, 200))
	fmt.Fprintf(os.Stderr, "Content: %s\n", truncate(p.Content, 200))
	fmt.Fprintln(os.Stderr, "=============================")
}

func (c *openAIClient) exchangeOnce(ctx context.Context, p Prompt) (string, error) {
	c.debugRequest(p)
	resp, err := c.client.Responses.New(ctx, c.params(p))
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	return collectResponseText(resp), nil
}

func (c *openAIClient) exchangeStreaming(ctx context.Context, p Prompt, handler *ReplyStreamHandler) error {
	c.debugRequest(p)
	stream := c.client.Responses.NewStreaming(ctx, c.params(p))
	for stream.Next() {
		event := stream.Current()
		if event.Type == "response.output_text.delta" && event.Text != "" {
			handler.Text(event.Text)
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("openai streaming error: %w", err)
	}
	return nil
}

func collectResponseText(resp *responses.Response) string {
	var out string
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			switch content.Type {
			case "output_text":
				out += content.Text
			case "refusal":
				out += content.Refusal
			}
		}
	}
	return out
}

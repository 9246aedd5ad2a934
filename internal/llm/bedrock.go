package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/samsaffron/term-chat/internal/config"
)

// bedrockModelTable lists Claude models reachable through AWS Bedrock by
// their US on-demand inference profile IDs, with effective input token
// limits.
var bedrockModelTable = []ModelConfig{
	{"us.anthropic.claude-sonnet-4-6", 136_000},
	{"us.anthropic.claude-sonnet-4-5-20250929-v1:0", 136_000},
	{"us.anthropic.claude-haiku-4-5-20251001-v1:0", 136_000},
	{"us.anthropic.claude-sonnet-4-20250514-v1:0", 136_000},
}

// buildBedrock serves Claude through AWS Bedrock: the Anthropic exchanger
// with AWS transport and signing underneath. Credentials may be inline or
// come from the ambient AWS credential chain.
func buildBedrock(entry config.ClientEntry, model ModelInfo, cfg *config.Shared) (exchanger, error) {
	var bc BedrockConfig
	if err := decodeEntry(entry, &bc); err != nil {
		return nil, err
	}
	proxy, err := ResolveProxy(bc.Proxy)
	if err != nil {
		return nil, err
	}
	httpClient, err := newHTTPClient(proxy, connectTimeout(bc.ConnectTimeout))
	if err != nil {
		return nil, err
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithHTTPClient(httpClient),
	}
	if bc.Region != "" {
		opts = append(opts, awsconfig.WithRegion(bc.Region))
	}
	if bc.AccessKeyID != "" || bc.SecretAccessKey != "" {
		accessKey, err := config.ResolveValue(bc.AccessKeyID)
		if err != nil {
			return nil, err
		}
		secretKey, err := config.ResolveValue(bc.SecretAccessKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("bedrock: failed to load AWS config: %w", err)
	}

	client := anthropic.NewClient(bedrock.WithConfig(awsCfg))
	return &anthropicClient{client: &client, model: model, label: "bedrock"}, nil
}

func bedrockModels(entry config.ClientEntry, index int) []ModelInfo {
	name := entry.Name()
	models := make([]ModelInfo, 0, len(bedrockModelTable))
	for _, m := range bedrockModelTable {
		models = append(models, ModelInfo{Client: name, Name: m.Name, MaxTokens: m.MaxTokens, Index: index})
	}
	return models
}

func bedrockTemplate() string {
	return `  - type: bedrock
    region: us-east-1
    # access_key_id: $AWS_ACCESS_KEY_ID
    # secret_access_key: $AWS_SECRET_ACCESS_KEY
    # connect_timeout: 10
`
}

package llm

import (
	"fmt"
	"strings"
)

// FormatTokenCount returns a human-readable string for a token count
// (e.g., "128K", "1M", "200K"). Returns "" for zero or negative values.
func FormatTokenCount(tokens int) string {
	if tokens <= 0 {
		return ""
	}
	if tokens >= 1_000_000 {
		rounded := (tokens + 50_000) / 100_000
		if rounded%10 == 0 {
			return fmt.Sprintf("%dM", rounded/10)
		}
		return fmt.Sprintf("%.1fM", float64(rounded)/10)
	}
	k := (tokens + 500) / 1_000
	return fmt.Sprintf("%dK", k)
}

type maxTokensEntry struct {
	prefix string
	tokens int
}

func lookupPrefix(model string, table []maxTokensEntry) int {
	best := 0
	bestLen := 0
	for _, e := range table {
		if strings.HasPrefix(model, e.prefix) && len(e.prefix) > bestLen {
			best = e.tokens
			bestLen = len(e.prefix)
		}
	}
	return best
}

// maxTokensTable estimates effective input token limits for model names
// outside any client's declared catalog, matched by longest prefix.
// Unknown models return 0 (no limit known).
var maxTokensTable = []maxTokensEntry{
	{"claude-sonnet-4", 136_000},
	{"claude-opus-4", 136_000},
	{"claude-haiku-4", 136_000},
	{"claude-3-5-sonnet", 192_000},
	{"claude-3-5-haiku", 192_000},
	{"claude-3", 196_000},

	{"gpt-5", 272_000},
	{"gpt-4.1", 1_014_808},
	{"gpt-4o", 112_000},
	{"gpt-4-turbo", 124_000},
	{"gpt-4", 8_192},
	{"gpt-3.5-turbo", 12_000},
	{"o1", 100_000},
	{"o3", 100_000},
	{"o4-mini", 100_000},

	{"gemini-3-pro", 936_000},
	{"gemini-3-flash", 983_000},
	{"gemini-2.5", 983_000},
	{"gemini-2.0-flash", 1_040_000},

	{"deepseek", 128_000},
	{"llama3", 8_192},
	{"llama4", 128_000},
	{"mistral", 32_000},
	{"qwen", 128_000},
}

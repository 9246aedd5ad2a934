package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/samsaffron/term-chat/internal/config"
	"github.com/samsaffron/term-chat/internal/llm"
)

var modelsJSON bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models from the configured clients",
	Long: `List every model the configured clients offer.

API-backed clients contribute their built-in catalogs; local clients
list the models declared in their config entry. The active selection
is marked with *.

Examples:
  term-chat models
  term-chat models --json`,
	Args: cobra.NoArgs,
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}

	models := llm.ListModels(cfg)
	if len(models) == 0 {
		fmt.Println("No models configured. Run 'term-chat config init' to set up a client.")
		return nil
	}

	current, currentErr := llm.CurrentModel(cfg)

	if modelsJSON {
		type row struct {
			Selection string `json:"selection"`
			Client    string `json:"client"`
			Name      string `json:"name,omitempty"`
			MaxTokens int    `json:"max_tokens,omitempty"`
			Current   bool   `json:"current,omitempty"`
		}
		rows := make([]row, 0, len(models))
		for _, m := range models {
			rows = append(rows, row{
				Selection: m.FullName(),
				Client:    m.Client,
				Name:      m.Name,
				MaxTokens: m.MaxTokens,
				Current:   currentErr == nil && m == current,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	nameWidth := len("MODEL")
	for _, m := range models {
		if w := runewidth.StringWidth(m.FullName()); w > nameWidth {
			nameWidth = w
		}
	}

	fmt.Printf("  %s  %s\n", runewidth.FillRight("MODEL", nameWidth), "CONTEXT")
	for _, m := range models {
		marker := " "
		if currentErr == nil && m == current {
			marker = "*"
		}
		contextSize := "-"
		if m.MaxTokens > 0 {
			contextSize = llm.FormatTokenCount(m.MaxTokens)
		}
		fmt.Printf("%s %s  %s\n", marker, runewidth.FillRight(m.FullName(), nameWidth), contextSize)
	}
	return nil
}

// ModelFlagCompletion completes --model values: client names first, then
// client:model selections once a colon is typed.
func ModelFlagCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	completions := modelCompletions(cfg, toComplete)
	if !strings.Contains(toComplete, ":") {
		// No space after a bare client name so ":" can follow.
		return completions, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func modelCompletions(cfg *config.Config, toComplete string) []string {
	models := llm.ListModels(cfg)
	var out []string

	if strings.Contains(toComplete, ":") {
		for _, m := range models {
			if full := m.FullName(); strings.HasPrefix(full, toComplete) {
				out = append(out, full)
			}
		}
		return out
	}

	seen := make(map[string]bool)
	for _, m := range models {
		if seen[m.Client] || !strings.HasPrefix(m.Client, toComplete) {
			continue
		}
		seen[m.Client] = true
		out = append(out, m.Client)
	}
	return out
}

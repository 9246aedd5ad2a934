package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samsaffron/term-chat/internal/config"
	"github.com/samsaffron/term-chat/internal/exitcode"
	"github.com/samsaffron/term-chat/internal/llm"
	"github.com/samsaffron/term-chat/internal/ui"
)

var (
	flagModel    string
	flagRole     string
	flagDryRun   bool
	flagNoStream bool
	flagDebug    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagModel, "model", "m", "", "Model to use, as client or client:name")
	rootCmd.PersistentFlags().StringVarP(&flagRole, "role", "r", "", "Role applied to the input")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Echo the input back instead of calling the model")
	rootCmd.PersistentFlags().BoolVar(&flagNoStream, "no-stream", false, "Wait for the full reply instead of streaming")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Show request diagnostics on stderr")
	if err := rootCmd.RegisterFlagCompletionFunc("model", ModelFlagCompletion); err != nil {
		panic(fmt.Sprintf("failed to register model completion: %v", err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "term-chat [question]",
	Short: "Chat with LLMs from the terminal",
	Long: `term-chat talks to OpenAI, Anthropic, Gemini, Bedrock and local
OpenAI-compatible servers from one CLI.

With a question it answers once and exits; without arguments it opens
an interactive chat.

Examples:
  term-chat "What is the capital of France?"
  term-chat                                  # interactive chat
  term-chat ask "Explain TCP vs UDP" --text
  term-chat -m anthropic:claude-sonnet-4-5 "Review this regex"
  term-chat --role commit-message "renamed config loader"
  term-chat models                           # list configured models
  term-chat sessions                         # list saved conversations`,
	Args:              cobra.ArbitraryArgs,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		llm.Debug = flagDebug || ui.ParseBoolDefault(os.Getenv("TERM_CHAT_DEBUG"), false)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return runAsk(cmd, args)
		}
		return runChat(cmd, args)
	},
}

// loadShared loads the configuration, bootstrapping it through the setup
// wizard on first run, and applies command-line overrides on top.
func loadShared() (*config.Shared, error) {
	var cfg *config.Config
	var err error

	if config.NeedsSetup() {
		cfg, err = ui.RunSetupWizard()
		if err != nil {
			return nil, fmt.Errorf("setup cancelled: %w", err)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			return nil, err
		}
	}

	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagRole != "" {
		cfg.Role = flagRole
	}
	if flagDryRun {
		cfg.DryRun = true
	}
	if flagNoStream {
		cfg.Stream = false
	}

	if cfg.Role != "" {
		if _, ok := cfg.FindRole(cfg.Role); !ok {
			return nil, fmt.Errorf("unknown role %q", cfg.Role)
		}
	}

	return config.NewShared(cfg), nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(exitcode.ExitError); ok {
			// A ctrl-c interrupt exits with the signal code, quietly.
			if exitErr.Code != exitcode.Cancelled {
				fmt.Fprintln(os.Stderr, "Error:", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samsaffron/term-chat/internal/llm"
	"github.com/samsaffron/term-chat/internal/session"
	"github.com/samsaffron/term-chat/internal/tui/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat",
	Long: `Start an interactive chat in the terminal.

Replies stream in and render as markdown; finished turns stay in the
terminal scrollback. Conversations are saved when save_session is on
in the config, or after a /save.

Keys:
  Enter        send message
  Ctrl+J       insert newline
  Tab          complete the highlighted command
  Esc          cancel a streaming reply
  Ctrl+C       quit

Slash commands:
  /help /model /role /clear /dryrun /save /quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	shared, err := loadShared()
	if err != nil {
		return err
	}
	client, err := llm.InitClient(shared)
	if err != nil {
		return err
	}

	cfg := shared.Snapshot()

	// Chat still works when the store cannot open; saving is disabled.
	var store session.Store
	if s, err := session.NewSQLiteStore(session.Config{
		MaxAgeDays: cfg.Sessions.MaxAgeDays,
		MaxCount:   cfg.Sessions.MaxCount,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: session storage unavailable: %v\n", err)
	} else {
		store = s
		defer s.Close()
	}

	return chat.Run(shared, client, store)
}

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/samsaffron/term-chat/internal/config"
	"github.com/samsaffron/term-chat/internal/session"
	"github.com/samsaffron/term-chat/internal/ui"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved conversations",
	Long: `List, search, show, delete, and export saved conversations.

Examples:
  term-chat sessions                      # list recent sessions
  term-chat sessions list --model openai:gpt-5-mini
  term-chat sessions search "kubernetes"
  term-chat sessions show                 # show the current session
  term-chat sessions show <id>
  term-chat sessions export <id> notes.md
  term-chat sessions delete <id>`,
	RunE: runSessionsList, // default to list
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search across session messages",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSessionsSearch,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a session transcript (current session when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export <id> [path]",
	Short: "Export a session as markdown",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSessionsExport,
}

var sessionsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all sessions (requires confirmation)",
	Args:  cobra.NoArgs,
	RunE:  runSessionsReset,
}

var (
	sessionsModel string
	sessionsLimit int
	sessionsJSON  bool
)

func init() {
	sessionsListCmd.Flags().StringVar(&sessionsModel, "model", "", "Filter by model selection")
	sessionsListCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "Maximum number of sessions to list")
	sessionsShowCmd.Flags().BoolVar(&sessionsJSON, "json", false, "Output as JSON")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsSearchCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsCmd.AddCommand(sessionsResetCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func getSessionStore() (session.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return session.NewSQLiteStore(session.Config{
		MaxAgeDays: cfg.Sessions.MaxAgeDays,
		MaxCount:   cfg.Sessions.MaxCount,
	})
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.List(context.Background(), session.ListOptions{
		Model: sessionsModel,
		Limit: sessionsLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	fmt.Printf("%-13s %-24s %-24s %-10s %s\n", "ID", "NAME", "MODEL", "UPDATED", "MSGS")
	fmt.Println(strings.Repeat("-", 80))
	for _, s := range summaries {
		name := s.Name
		if name == "" {
			name = "-"
		}
		fmt.Printf("%-13s %-24s %-24s %-10s %d\n",
			session.ShortID(s.ID),
			ui.Truncate(name, 24),
			ui.Truncate(s.Model, 24),
			formatRelativeTime(s.UpdatedAt),
			s.MessageCount,
		)
	}
	return nil
}

func runSessionsSearch(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	query := strings.Join(args, " ")
	results, err := store.Search(context.Background(), query, 20)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No results found for %q\n", query)
		return nil
	}

	styles := ui.NewStyles(os.Stdout)
	fmt.Printf("Found %d matches for %q:\n\n", len(results), query)
	for _, r := range results {
		name := r.SessionName
		if name == "" {
			name = session.ShortID(r.SessionID)
		}
		fmt.Printf("%s %s\n", styles.Bold.Render(name), styles.Muted.Render(r.Model))
		fmt.Printf("  %s\n\n", r.Snippet)
	}
	return nil
}

// resolveSession returns the named session, or the current one when id
// is empty.
func resolveSession(ctx context.Context, store session.Store, id string) (*session.Session, error) {
	if id == "" {
		sess, err := store.GetCurrent(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get current session: %w", err)
		}
		if sess == nil {
			return nil, fmt.Errorf("no current session; pass an id or start a chat first")
		}
		return sess, nil
	}
	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("session %q not found", id)
	}
	return sess, nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	sess, err := resolveSession(ctx, store, id)
	if err != nil {
		return err
	}

	messages, err := store.GetMessages(ctx, sess.ID, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to get messages: %w", err)
	}

	if sessionsJSON {
		data := struct {
			Session  *session.Session  `json:"session"`
			Messages []session.Message `json:"messages"`
		}{sess, messages}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	fmt.Printf("Session: %s\n", sess.ID)
	if sess.Name != "" {
		fmt.Printf("Name: %s\n", sess.Name)
	}
	fmt.Printf("Model: %s\n", sess.Model)
	if sess.Role != "" {
		fmt.Printf("Role: %s\n", sess.Role)
	}
	fmt.Printf("Created: %s\n", sess.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Updated: %s\n", sess.UpdatedAt.Format(time.RFC3339))
	fmt.Printf("Messages: %d\n\n", len(messages))

	for _, msg := range messages {
		glyph := "❯"
		if msg.Role == session.RoleAssistant {
			glyph = "🤖"
		}
		fmt.Printf("%s %s\n\n", glyph, ui.Truncate(msg.Content, 200))
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	sess, err := resolveSession(ctx, store, args[0])
	if err != nil {
		return err
	}
	current, _ := store.GetCurrent(ctx)

	if err := store.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	// Don't leave the current pointer dangling at a deleted row.
	if current != nil && current.ID == sess.ID {
		if err := store.ClearCurrent(ctx); err != nil {
			return fmt.Errorf("failed to clear current session: %w", err)
		}
	}
	fmt.Printf("Deleted session: %s\n", sess.ID)
	return nil
}

func runSessionsExport(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	sess, err := resolveSession(ctx, store, args[0])
	if err != nil {
		return err
	}
	messages, err := store.GetMessages(ctx, sess.ID, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to get messages: %w", err)
	}

	outputPath := ""
	if len(args) > 1 {
		outputPath = args[1]
	} else {
		name := sess.Name
		if name == "" {
			name = session.ShortID(sess.ID)
		}
		outputPath = name + ".md"
	}

	md := session.ExportToMarkdown(sess, messages)
	if err := os.WriteFile(outputPath, []byte(md), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Printf("Exported %d messages to %s\n", len(messages), outputPath)
	return nil
}

func runSessionsReset(cmd *cobra.Command, args []string) error {
	dbPath, err := session.GetDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No sessions database to delete.")
		return nil
	}

	fmt.Printf("This deletes ALL sessions in %s.\nType 'yes' to confirm: ", dbPath)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.TrimSpace(answer) != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", p, err)
		}
	}
	fmt.Println("Sessions deleted.")
	return nil
}

// formatRelativeTime returns a compact relative time for listings.
func formatRelativeTime(t time.Time) string {
	dur := time.Since(t)
	switch {
	case dur < time.Minute:
		return "just now"
	case dur < time.Hour:
		return fmt.Sprintf("%dm ago", int(dur.Minutes()))
	case dur < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(dur.Hours()))
	case dur < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(dur.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

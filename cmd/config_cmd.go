package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samsaffron/term-chat/internal/config"
	"github.com/samsaffron/term-chat/internal/llm"
	"github.com/samsaffron/term-chat/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize the configuration",
	Long: `Show the effective configuration, set it up interactively, or print
a client config template.

Examples:
  term-chat config                    # show effective configuration
  term-chat config init               # run the setup wizard
  term-chat config template anthropic # print a clients entry template`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Run the interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := ui.RunSetupWizard()
		return err
	},
}

var configTemplateCmd = &cobra.Command{
	Use:       "template <client>",
	Short:     "Print a config template for a client type",
	Args:      cobra.ExactArgs(1),
	ValidArgs: llm.AllClients(),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := llm.CreateClientConfig(args[0])
		if err != nil {
			return err
		}
		fmt.Println(tmpl)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configTemplateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	styles := ui.NewStyles(os.Stdout)

	path, err := config.GetConfigPath()
	if err != nil {
		path = "(unknown)"
	}
	if !config.Exists() {
		path += " " + styles.Muted.Render("(not created)")
	}
	fmt.Printf("%s %s\n", styles.Bold.Render("Config:"), path)

	model := cfg.Model
	if model == "" {
		if current, err := llm.CurrentModel(cfg); err == nil {
			model = current.FullName() + " " + styles.Muted.Render("(default)")
		} else {
			model = styles.Muted.Render("(none)")
		}
	}
	fmt.Printf("%s  %s\n", styles.Bold.Render("Model:"), model)

	role := cfg.Role
	if role == "" {
		role = styles.Muted.Render("(none)")
	}
	fmt.Printf("%s   %s\n", styles.Bold.Render("Role:"), role)

	fmt.Printf("%s %s\n", styles.Bold.Render("Stream:"), styles.FormatEnabled(cfg.Stream))
	fmt.Printf("%s %s\n", styles.Bold.Render("Dryrun:"), styles.FormatEnabled(cfg.DryRun))
	fmt.Printf("%s %s %s\n", styles.Bold.Render("Saving:"), styles.FormatEnabled(cfg.SaveSession),
		styles.Muted.Render(fmt.Sprintf("(keep %dd, max %d)", cfg.Sessions.MaxAgeDays, cfg.Sessions.MaxCount)))

	if len(cfg.Roles()) > 0 {
		names := make([]string, 0, len(cfg.Roles()))
		for _, r := range cfg.Roles() {
			names = append(names, r.Name)
		}
		fmt.Printf("%s  %s\n", styles.Bold.Render("Roles:"), strings.Join(names, ", "))
	}

	fmt.Printf("%s\n", styles.Bold.Render("Clients:"))
	if len(cfg.Clients) == 0 {
		fmt.Printf("  %s\n", styles.Muted.Render("(none configured)"))
		return nil
	}
	for i, entry := range cfg.Clients {
		line := fmt.Sprintf("  %d. %s", i+1, entry.Name())
		if entry.Name() != entry.Type() {
			line += fmt.Sprintf(" (%s)", entry.Type())
		}
		if url, _ := entry["url"].(string); url != "" {
			line += " " + styles.Muted.Render(url)
		}
		fmt.Println(line)
	}
	return nil
}

package chat

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/samsaffron/term-chat/internal/llm"
	"github.com/samsaffron/term-chat/internal/session"
)

// Command is a slash command available at the prompt.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
}

// AllCommands lists every available command, in palette order.
var AllCommands = []Command{
	{Name: "help", Aliases: []string{"h", "?"}, Description: "Show commands and key bindings", Usage: "/help"},
	{Name: "model", Aliases: []string{"m"}, Description: "Show or switch the active model", Usage: "/model [client:name]"},
	{Name: "role", Aliases: []string{"r"}, Description: "Show, set or clear the active role", Usage: "/role [name|none]"},
	{Name: "clear", Aliases: []string{"new"}, Description: "Start a new conversation", Usage: "/clear"},
	{Name: "dryrun", Aliases: []string{"dry"}, Description: "Toggle dry-run echo mode", Usage: "/dryrun [on|off]"},
	{Name: "save", Aliases: []string{"s"}, Description: "Save the conversation as a session", Usage: "/save [name]"},
	{Name: "quit", Aliases: []string{"q", "exit"}, Description: "Leave the chat", Usage: "/quit"},
}

// CommandSource adapts the command list for fuzzy matching.
type CommandSource []Command

func (c CommandSource) String(i int) string { return c[i].Name }
func (c CommandSource) Len() int            { return len(c) }

// FilterCommands returns the commands matching a partial slash input,
// best match first. An empty query returns everything.
func FilterCommands(input string) []Command {
	query := strings.TrimPrefix(strings.TrimSpace(input), "/")
	query = strings.ToLower(query)
	if i := strings.IndexByte(query, ' '); i >= 0 {
		query = query[:i]
	}
	if query == "" {
		return AllCommands
	}

	for _, cmd := range AllCommands {
		for _, alias := range cmd.Aliases {
			if query == alias {
				return []Command{cmd}
			}
		}
	}

	matches := fuzzy.FindFrom(query, CommandSource(AllCommands))
	if len(matches) > 0 {
		out := make([]Command, 0, len(matches))
		for _, match := range matches {
			out = append(out, AllCommands[match.Index])
		}
		return out
	}

	var out []Command
	for _, cmd := range AllCommands {
		if strings.HasPrefix(cmd.Name, query) {
			out = append(out, cmd)
		}
	}
	return out
}

// findCommand resolves a typed name to a command: exact name or alias
// first, then a unique prefix. The second return lists candidates when
// the prefix is ambiguous.
func findCommand(name string) (*Command, []Command) {
	for i := range AllCommands {
		cmd := &AllCommands[i]
		if cmd.Name == name {
			return cmd, nil
		}
		for _, alias := range cmd.Aliases {
			if alias == name {
				return cmd, nil
			}
		}
	}

	var prefixed []Command
	for _, cmd := range AllCommands {
		if strings.HasPrefix(cmd.Name, name) {
			prefixed = append(prefixed, cmd)
		}
	}
	if len(prefixed) == 1 {
		return &prefixed[0], nil
	}
	return nil, prefixed
}

// ExecuteCommand runs a slash command line such as "/model openai:gpt-5".
func (m *Model) ExecuteCommand(input string) tea.Cmd {
	line := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "/"))
	name, arg := line, ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		name, arg = line[:i], strings.TrimSpace(line[i+1:])
	}
	name = strings.ToLower(name)
	if name == "" {
		return m.cmdHelp()
	}

	cmd, candidates := findCommand(name)
	if cmd == nil {
		if len(candidates) > 1 {
			names := make([]string, len(candidates))
			for i, c := range candidates {
				names[i] = "/" + c.Name
			}
			return m.showError(fmt.Sprintf("ambiguous command %q: %s", "/"+name, strings.Join(names, ", ")))
		}
		return m.showError(fmt.Sprintf("unknown command %q, try /help", "/"+name))
	}

	switch cmd.Name {
	case "help":
		return m.cmdHelp()
	case "model":
		return m.cmdModel(arg)
	case "role":
		return m.cmdRole(arg)
	case "clear":
		return m.cmdClear()
	case "dryrun":
		return m.cmdDryRun(arg)
	case "save":
		return m.cmdSave(arg)
	case "quit":
		m.quitting = true
		return tea.Quit
	}
	return nil
}

func (m *Model) cmdHelp() tea.Cmd {
	var b strings.Builder
	b.WriteString("## Commands\n\n")
	for _, cmd := range AllCommands {
		b.WriteString(fmt.Sprintf("- `%s` — %s\n", cmd.Usage, cmd.Description))
	}
	b.WriteString("\n## Keys\n\n")
	b.WriteString("- `enter` send, `ctrl+j` newline\n")
	b.WriteString("- `tab` complete the highlighted command\n")
	b.WriteString("- `esc` cancel a streaming reply\n")
	b.WriteString("- `ctrl+c` quit\n")
	return m.showSystemMessage(b.String())
}

func (m *Model) cmdModel(arg string) tea.Cmd {
	if arg == "" {
		cfg := m.shared.Snapshot()
		current := m.client.Model().FullName()
		var b strings.Builder
		b.WriteString("## Models\n\n")
		for _, info := range llm.ListModels(cfg) {
			if info.FullName() == current {
				b.WriteString(fmt.Sprintf("- **%s** (current)\n", info.FullName()))
			} else {
				b.WriteString(fmt.Sprintf("- %s\n", info.FullName()))
			}
		}
		b.WriteString("\nSwitch with `/model client:name`.\n")
		return m.showSystemMessage(b.String())
	}

	prev := m.shared.Snapshot().Model
	m.shared.SetModel(arg)
	client, err := llm.InitClient(m.shared)
	if err != nil {
		m.shared.SetModel(prev)
		return m.showError(err.Error())
	}
	m.client = client
	return m.showSystemMessage(fmt.Sprintf("Switched to **%s**.", client.Model().FullName()))
}

func (m *Model) cmdRole(arg string) tea.Cmd {
	cfg := m.shared.Snapshot()
	switch arg {
	case "":
		roles := cfg.Roles()
		if len(roles) == 0 {
			return m.showSystemMessage("No roles configured. Add them to `roles.yaml` in the config directory.")
		}
		var b strings.Builder
		b.WriteString("## Roles\n\n")
		for _, r := range roles {
			if r.Name == cfg.Role {
				b.WriteString(fmt.Sprintf("- **%s** (active)\n", r.Name))
			} else {
				b.WriteString(fmt.Sprintf("- %s\n", r.Name))
			}
		}
		b.WriteString("\nSet with `/role name`, clear with `/role none`.\n")
		return m.showSystemMessage(b.String())
	case "none", "clear", "-":
		m.shared.SetRole("")
		return m.showSystemMessage("Role cleared.")
	default:
		if _, ok := cfg.FindRole(arg); !ok {
			return m.showError(fmt.Sprintf("unknown role %q", arg))
		}
		m.shared.SetRole(arg)
		return m.showSystemMessage(fmt.Sprintf("Role set to **%s**.", arg))
	}
}

func (m *Model) cmdClear() tea.Cmd {
	m.history = nil
	m.persisted = 0
	m.sess = nil
	m.seq = 0
	return m.showSystemMessage("Started a new conversation.")
}

func (m *Model) cmdDryRun(arg string) tea.Cmd {
	cfg := m.shared.Snapshot()
	var on bool
	switch strings.ToLower(arg) {
	case "":
		on = !cfg.DryRun
	case "on", "true", "1", "yes":
		on = true
	case "off", "false", "0", "no":
		on = false
	default:
		return m.showError(fmt.Sprintf("expected on or off, got %q", arg))
	}
	m.shared.SetDryRun(on)
	if on {
		return m.showSystemMessage("Dry-run **on**: replies echo your input without calling the model.")
	}
	return m.showSystemMessage("Dry-run **off**.")
}

func (m *Model) cmdSave(arg string) tea.Cmd {
	if m.store == nil {
		return m.showError("session storage is unavailable")
	}
	if len(m.history) == 0 {
		return m.showError("nothing to save yet")
	}
	if err := m.ensureSession(); err != nil {
		return m.showError(err.Error())
	}
	if arg != "" {
		m.sess.Name = arg
		if err := m.store.Update(m.ctx, m.sess); err != nil {
			return m.showError(err.Error())
		}
	}
	if err := m.flushHistory(); err != nil {
		return m.showError(err.Error())
	}
	m.autosave = true

	label := m.sess.Name
	if label == "" {
		label = session.ShortID(m.sess.ID)
	}
	return m.showSystemMessage(fmt.Sprintf("Saved %d messages to session **%s**.", len(m.history), label))
}

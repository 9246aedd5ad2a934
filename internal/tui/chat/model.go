package chat

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/samsaffron/term-chat/internal/config"
	"github.com/samsaffron/term-chat/internal/llm"
	"github.com/samsaffron/term-chat/internal/session"
	"github.com/samsaffron/term-chat/internal/ui"
)

// Model drives the interactive chat. It runs inline rather than in the
// alt screen: finished turns are pushed to the terminal scrollback with
// tea.Println and stay there after exit.
type Model struct {
	ctx    context.Context
	shared *config.Shared
	client *llm.Client
	store  session.Store

	styles   *ui.Styles
	textarea textarea.Model
	spinner  spinner.Model

	width  int
	height int

	// In-flight exchange. pending holds streamed text waiting for a
	// safe markdown boundary before it moves to the scrollback.
	streaming bool
	stream    *streamState
	pending   string
	replyLen  int
	startTime time.Time

	// Conversation transcript. persisted counts how many history
	// entries have already been written to the store.
	history   []session.Message
	persisted int
	sess      *session.Session
	seq       int
	autosave  bool

	paletteIndex int
	quitting     bool
}

// New builds the chat model. store may be nil when session storage
// failed to open; saving is then disabled but chat still works.
func New(shared *config.Shared, client *llm.Client, store session.Store) Model {
	ta := textarea.New()
	ta.Placeholder = "Send a message (/help for commands)"
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.SetWidth(78)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.Focus()
	// Enter submits; ctrl+j inserts the newline instead.
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	cfg := shared.Snapshot()
	return Model{
		ctx:      context.Background(),
		shared:   shared,
		client:   client,
		store:    store,
		styles:   ui.NewStyles(os.Stdout),
		textarea: ta,
		spinner:  sp,
		width:    80,
		autosave: cfg.SaveSession && store != nil,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tea.Println(m.headerView()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(msg.Width - 2)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !m.streaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case streamChunkMsg:
		return m.handleChunk(msg)

	case streamDoneMsg:
		return m.handleDone(msg)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.streaming && m.stream != nil {
			m.stream.handler.AbortSignal().Abort()
		}
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEsc:
		if m.streaming && m.stream != nil {
			m.stream.handler.AbortSignal().Abort()
			return m, nil
		}
		if m.paletteVisible() {
			m.textarea.Reset()
			m.paletteIndex = 0
		}
		return m, nil

	case tea.KeyEnter:
		if m.streaming {
			return m, nil
		}
		input := strings.TrimSpace(m.textarea.Value())
		if input == "" {
			return m, nil
		}
		m.textarea.Reset()
		m.paletteIndex = 0
		if strings.HasPrefix(input, "/") {
			cmd := m.ExecuteCommand(input)
			return m, cmd
		}
		return m.submit(input)

	case tea.KeyTab:
		if m.paletteVisible() {
			filtered := FilterCommands(m.textarea.Value())
			if len(filtered) > 0 {
				idx := m.paletteIndex
				if idx >= len(filtered) {
					idx = 0
				}
				m.textarea.SetValue("/" + filtered[idx].Name + " ")
				m.paletteIndex = 0
			}
			return m, nil
		}

	case tea.KeyUp:
		if m.paletteVisible() {
			if m.paletteIndex > 0 {
				m.paletteIndex--
			}
			return m, nil
		}

	case tea.KeyDown:
		if m.paletteVisible() {
			if m.paletteIndex < len(FilterCommands(m.textarea.Value()))-1 {
				m.paletteIndex++
			}
			return m, nil
		}
	}

	if msg.String() == "ctrl+j" {
		m.textarea.InsertString("\n")
		return m, nil
	}

	before := m.textarea.Value()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	if m.textarea.Value() != before {
		m.paletteIndex = 0
	}
	return m, cmd
}

// submit starts a streaming exchange for one user turn.
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	m.seq++
	m.history = append(m.history, session.Message{
		Role:      session.RoleUser,
		Content:   input,
		CreatedAt: time.Now(),
		Sequence:  m.seq,
	})

	m.streaming = true
	m.pending = ""
	m.replyLen = 0
	m.startTime = time.Now()
	m.stream = newStreamState()

	st := m.stream
	client := m.client
	go func() {
		st.done <- client.SendMessageStreaming(input, st.handler)
	}()

	return m, tea.Batch(
		tea.Println(m.styles.UserLabel.Render("You")+"\n"+input+"\n"),
		tea.Println(m.styles.AssistantLabel.Render(m.client.Model().FullName())),
		m.spinner.Tick,
		waitForStream(st),
	)
}

func (m Model) handleChunk(msg streamChunkMsg) (tea.Model, tea.Cmd) {
	m.pending += msg.text
	m.replyLen += len(msg.text)

	var cmds []tea.Cmd
	if b := ui.FindSafeBoundary(m.pending); b > 0 {
		stable := m.pending[:b]
		m.pending = m.pending[b:]
		if rendered := ui.RenderMarkdown(stable, m.contentWidth()); rendered != "" {
			cmds = append(cmds, tea.Println(rendered))
		}
	}
	cmds = append(cmds, waitForStream(m.stream))
	return m, tea.Batch(cmds...)
}

func (m Model) handleDone(msg streamDoneMsg) (tea.Model, tea.Cmd) {
	m.pending += msg.tail
	reply := m.stream.handler.Content()
	aborted := m.stream.handler.AbortSignal().Aborted()
	elapsed := time.Since(m.startTime)
	m.streaming = false
	m.stream = nil

	var cmds []tea.Cmd
	if m.pending != "" {
		if rendered := ui.RenderMarkdown(m.pending, m.contentWidth()); rendered != "" {
			cmds = append(cmds, tea.Println(rendered))
		}
		m.pending = ""
	}
	switch {
	case msg.err != nil:
		cmds = append(cmds, m.showError(msg.err.Error()))
	case aborted:
		cmds = append(cmds, tea.Println(m.styles.Muted.Render("· cancelled")))
	}

	if reply != "" {
		m.seq++
		m.history = append(m.history, session.Message{
			Role:       session.RoleAssistant,
			Content:    reply,
			DurationMs: elapsed.Milliseconds(),
			CreatedAt:  time.Now(),
			Sequence:   m.seq,
		})
	}
	if m.autosave && len(m.history) > m.persisted {
		if err := m.persistTurns(); err != nil {
			cmds = append(cmds, m.showError("session save failed: "+err.Error()))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.streaming {
		phase := "Thinking"
		if m.replyLen > 0 {
			phase = "Responding"
		}
		indicator := ui.StreamingIndicator{
			Spinner:    m.spinner.View(),
			Phase:      phase,
			Elapsed:    time.Since(m.startTime),
			Chars:      m.replyLen,
			ShowCancel: true,
		}
		b.WriteString(indicator.Render(m.styles))
		b.WriteString("\n")
		if m.pending != "" {
			b.WriteString(m.pending)
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	if m.paletteVisible() {
		b.WriteString(m.paletteView())
	} else {
		b.WriteString(m.statusView())
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) headerView() string {
	cfg := m.shared.Snapshot()
	title := m.styles.Title.Render("term-chat") + " " +
		m.styles.Muted.Render(m.client.Model().FullName())
	hints := []string{"/help for commands", "esc cancels", "ctrl+c quits"}
	if cfg.DryRun {
		hints = append([]string{"dry-run"}, hints...)
	}
	return title + "\n" + m.styles.Muted.Render(strings.Join(hints, " · "))
}

func (m Model) statusView() string {
	cfg := m.shared.Snapshot()
	parts := []string{m.client.Model().FullName()}
	if cfg.Role != "" {
		parts = append(parts, "role:"+cfg.Role)
	}
	if cfg.DryRun {
		parts = append(parts, "dry-run")
	}
	if m.sess != nil {
		parts = append(parts, "session:"+session.ShortID(m.sess.ID))
	}
	return m.styles.Muted.Render(strings.Join(parts, " · "))
}

// paletteVisible reports whether the command palette should show below
// the input.
func (m Model) paletteVisible() bool {
	return !m.streaming && strings.HasPrefix(m.textarea.Value(), "/")
}

func (m Model) paletteView() string {
	filtered := FilterCommands(m.textarea.Value())
	if len(filtered) == 0 {
		return m.styles.Muted.Render("no matching command")
	}
	idx := m.paletteIndex
	if idx >= len(filtered) {
		idx = len(filtered) - 1
	}

	var b strings.Builder
	for i, cmd := range filtered {
		entry := fmt.Sprintf("%-8s %s", "/"+cmd.Name, m.styles.Muted.Render(cmd.Description))
		if i == idx {
			b.WriteString("❯ " + m.styles.Bold.Render("/"+cmd.Name))
			b.WriteString(fmt.Sprintf("%*s", 8-len(cmd.Name)-1, ""))
			b.WriteString(" " + m.styles.Muted.Render(cmd.Description))
		} else {
			b.WriteString("  " + entry)
		}
		if i < len(filtered)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) contentWidth() int {
	w := m.width
	if w <= 0 {
		w = 80
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m *Model) showSystemMessage(md string) tea.Cmd {
	return tea.Println(ui.RenderMarkdown(md, m.contentWidth()))
}

func (m *Model) showError(text string) tea.Cmd {
	return tea.Println(m.styles.FormatResult(false, text))
}

// ensureSession lazily creates the backing session row on first save.
func (m *Model) ensureSession() error {
	if m.sess != nil {
		return nil
	}
	cfg := m.shared.Snapshot()
	sess := &session.Session{
		Model: m.client.Model().FullName(),
		Role:  cfg.Role,
	}
	if err := m.store.Create(m.ctx, sess); err != nil {
		return err
	}
	m.sess = sess
	return nil
}

// flushHistory writes history entries not yet in the store.
func (m *Model) flushHistory() error {
	for i := m.persisted; i < len(m.history); i++ {
		msg := m.history[i]
		if err := m.store.AddMessage(m.ctx, m.sess.ID, &msg); err != nil {
			return err
		}
		m.history[i] = msg
	}
	m.persisted = len(m.history)
	return nil
}

func (m *Model) persistTurns() error {
	if err := m.ensureSession(); err != nil {
		return err
	}
	return m.flushHistory()
}

// Run starts the interactive chat and blocks until it exits. The last
// touched session becomes the current one so `sessions show` finds it.
func Run(shared *config.Shared, client *llm.Client, store session.Store) error {
	p := tea.NewProgram(New(shared, client, store))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("chat ui failed: %w", err)
	}
	if fm, ok := final.(Model); ok && fm.sess != nil && store != nil {
		if err := store.SetCurrent(context.Background(), fm.sess.ID); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not mark current session: %v\n", err)
		}
	}
	return nil
}

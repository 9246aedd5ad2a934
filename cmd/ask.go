package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/samsaffron/term-chat/internal/exitcode"
	"github.com/samsaffron/term-chat/internal/llm"
	"github.com/samsaffron/term-chat/internal/ui"
)

var askText bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question and stream the answer",
	Long: `Ask one question, stream the reply, and exit.

The reply renders as markdown on a terminal; pipe the output or pass
--text for plain text. Esc cancels the reply, ctrl-c exits with the
interrupt code.

Examples:
  term-chat ask "What is the capital of France?"
  term-chat ask "How do I reverse a string in Go?" --text
  term-chat ask "Write a haiku about RAID arrays" --dry-run
  term-chat ask "Summarize this" --no-stream`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askText, "text", "t", false, "Output plain text instead of rendered markdown")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	shared, err := loadShared()
	if err != nil {
		return err
	}
	client, err := llm.InitClient(shared)
	if err != nil {
		return err
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	rendered := !askText && isTTY

	if !shared.Snapshot().Stream {
		reply, err := client.SendMessage(question)
		if err != nil {
			return err
		}
		if rendered {
			fmt.Println(ui.RenderMarkdown(reply, askRenderWidth()))
		} else {
			fmt.Println(reply)
		}
		return nil
	}

	output := make(chan string, 64)
	handler := llm.NewReplyStreamHandler(func(chunk string) { output <- chunk }, nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.SendMessageStreaming(question, handler)
		close(output)
	}()

	if rendered {
		err = streamRendered(output, handler)
	} else {
		err = streamPlainText(output)
	}
	if err != nil {
		// The view died; stop the exchange and unblock its sink before
		// reporting.
		handler.AbortSignal().Abort()
		for range output {
		}
		<-errCh
		return err
	}

	if err := <-errCh; err != nil {
		return err
	}
	if handler.AbortSignal().Interrupted() {
		return exitcode.Cancel()
	}
	return nil
}

// streamPlainText prints chunks as they arrive, for pipes and --text.
func streamPlainText(output <-chan string) error {
	for chunk := range output {
		fmt.Print(chunk)
	}
	fmt.Println()
	return nil
}

// streamRendered runs the spinner-and-markdown view on a terminal.
// Without a controlling tty it falls back to plain streaming.
func streamRendered(output <-chan string, handler *llm.ReplyStreamHandler) error {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return streamPlainText(output)
	}
	defer tty.Close()

	m := newAskModel(output, handler)
	p := tea.NewProgram(m, tea.WithInput(tty), tea.WithOutput(os.Stdout))
	_, err = p.Run()
	return err
}

// askModel renders one streaming reply: spinner while waiting, then the
// accumulated markdown re-rendered as chunks land.
type askModel struct {
	spinner   spinner.Model
	styles    *ui.Styles
	content   strings.Builder
	output    <-chan string
	handler   *llm.ReplyStreamHandler
	width     int
	startTime time.Time
	done      bool
	finalView string
}

type askChunkMsg string

type askDoneMsg struct{}

func newAskModel(output <-chan string, handler *llm.ReplyStreamHandler) *askModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &askModel{
		spinner:   sp,
		styles:    ui.NewStyles(os.Stdout),
		output:    output,
		handler:   handler,
		width:     80,
		startTime: time.Now(),
	}
}

func (m *askModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForAskChunk(m.output))
}

func waitForAskChunk(output <-chan string) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-output
		if !ok {
			return askDoneMsg{}
		}
		return askChunkMsg(chunk)
	}
}

func (m *askModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC:
			// Let the exchange wind down; done arrives when it has.
			m.handler.AbortSignal().Interrupt()
			return m, nil
		case msg.Type == tea.KeyEsc, msg.String() == "q":
			m.handler.AbortSignal().Abort()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case askChunkMsg:
		m.content.WriteString(string(msg))
		return m, waitForAskChunk(m.output)

	case askDoneMsg:
		m.done = true
		if m.content.Len() > 0 {
			m.finalView = ui.RenderMarkdown(m.content.String(), m.renderWidth())
		}
		if m.handler.AbortSignal().Aborted() {
			m.finalView += "\n" + m.styles.Muted.Render("· cancelled")
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m *askModel) View() string {
	if m.done {
		if m.finalView == "" {
			return ""
		}
		return m.finalView + "\n"
	}

	if m.content.Len() == 0 {
		indicator := ui.StreamingIndicator{
			Spinner:    m.spinner.View(),
			Phase:      "Thinking",
			Elapsed:    time.Since(m.startTime),
			ShowCancel: true,
		}
		return indicator.Render(m.styles) + "\n"
	}

	return ui.RenderMarkdown(m.content.String(), m.renderWidth()) + "\n"
}

func (m *askModel) renderWidth() int {
	w := m.width
	if w <= 0 {
		w = 80
	}
	if w > 100 {
		w = 100
	}
	return w
}

// askRenderWidth sizes non-interactive rendering from the terminal.
func askRenderWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		if w > 100 {
			return 100
		}
		return w
	}
	return 80
}

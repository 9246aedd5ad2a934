package ui

import (
	"fmt"
	"strings"
	"time"
)

// StreamingIndicator renders a consistent status line while a reply
// streams in.
type StreamingIndicator struct {
	Spinner    string // spinner.View() output
	Phase      string // "Thinking", "Responding", ...
	Elapsed    time.Duration
	Chars      int  // received characters, 0 = don't show
	ShowCancel bool // show "(esc to cancel)"
}

// Render returns the formatted streaming indicator string
func (s StreamingIndicator) Render(styles *Styles) string {
	var b strings.Builder

	b.WriteString(s.Spinner)
	b.WriteString(" ")
	b.WriteString(s.Phase)
	b.WriteString("...")

	if s.Chars > 0 {
		b.WriteString(fmt.Sprintf(" %d chars |", s.Chars))
	}

	b.WriteString(fmt.Sprintf(" %.1fs", s.Elapsed.Seconds()))

	if s.ShowCancel {
		b.WriteString(" ")
		b.WriteString(styles.Muted.Render("(esc to cancel)"))
	}

	return b.String()
}

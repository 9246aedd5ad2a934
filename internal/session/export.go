package session

import (
	"fmt"
	"strings"
)

// escapeTableCell escapes characters that break markdown table cells.
func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// ExportToMarkdown renders a session and its messages as a markdown
// transcript suitable for sharing or archiving.
func ExportToMarkdown(sess *Session, messages []Message) string {
	var b strings.Builder

	title := sess.Name
	if title == "" {
		title = ShortID(sess.ID)
	}
	b.WriteString(fmt.Sprintf("# Session: %s\n\n", escapeTableCell(title)))

	b.WriteString("## Setup\n\n")
	b.WriteString("| | |\n")
	b.WriteString("|---|---|\n")
	b.WriteString(fmt.Sprintf("| **Model** | %s |\n", escapeTableCell(sess.Model)))
	if sess.Role != "" {
		b.WriteString(fmt.Sprintf("| **Role** | %s |\n", escapeTableCell(sess.Role)))
	}
	b.WriteString(fmt.Sprintf("| **Created** | %s |\n", sess.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")))
	b.WriteString(fmt.Sprintf("| **Messages** | %d |\n", len(messages)))
	b.WriteString("\n---\n\n")

	b.WriteString("## Conversation\n\n")
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			b.WriteString("### User\n\n")
		case RoleAssistant:
			b.WriteString("### Assistant\n\n")
		default:
			continue
		}
		b.WriteString(msg.Content)
		b.WriteString("\n\n---\n\n")
	}

	return b.String()
}

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samsaffron/term-chat/internal/llm"
)

// Messages for tea updates
type (
	// streamChunkMsg carries one delivered reply chunk.
	streamChunkMsg struct {
		text string
	}

	// streamDoneMsg signals the exchange finished. tail holds chunks
	// that were flushed between the last read and completion.
	streamDoneMsg struct {
		tail string
		err  error
	}
)

// streamState owns the channel plumbing for one in-flight exchange.
type streamState struct {
	handler *llm.ReplyStreamHandler
	chunks  chan string
	done    chan error
}

// newStreamState wires a handler whose sink feeds the chunk channel.
func newStreamState() *streamState {
	st := &streamState{
		chunks: make(chan string, 64),
		done:   make(chan error, 1),
	}
	st.handler = llm.NewReplyStreamHandler(func(chunk string) {
		st.chunks <- chunk
	}, nil)
	return st
}

// next blocks for the next stream event. Chunks win over completion so
// text is never reordered past the done signal.
func (st *streamState) next() tea.Msg {
	select {
	case text := <-st.chunks:
		return streamChunkMsg{text: text}
	default:
	}

	select {
	case text := <-st.chunks:
		return streamChunkMsg{text: text}
	case err := <-st.done:
		// Drain anything the handler flushed right before finishing.
		var tail strings.Builder
		for {
			select {
			case text := <-st.chunks:
				tail.WriteString(text)
			default:
				return streamDoneMsg{tail: tail.String(), err: err}
			}
		}
	}
}

// waitForStream returns a command that delivers the next stream event.
func waitForStream(st *streamState) tea.Cmd {
	return st.next
}

package cmd

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samsaffron/term-chat/internal/llm"
	"github.com/samsaffron/term-chat/internal/testutil"
)

func newTestAskModel() (*askModel, chan string, *llm.ReplyStreamHandler) {
	output := make(chan string, 8)
	handler := llm.NewReplyStreamHandler(nil, nil)
	return newAskModel(output, handler), output, handler
}

func TestAskModel_AccumulatesChunks(t *testing.T) {
	m, _, _ := newTestAskModel()

	model, cmd := m.Update(askChunkMsg("Hello "))
	am := model.(*askModel)
	if got := am.content.String(); got != "Hello " {
		t.Fatalf("expected accumulated chunk, got %q", got)
	}
	if cmd == nil {
		t.Fatal("expected a follow-up read command")
	}

	model, _ = am.Update(askChunkMsg("world"))
	am = model.(*askModel)
	if got := am.content.String(); got != "Hello world" {
		t.Fatalf("expected both chunks, got %q", got)
	}
}

func TestAskModel_DoneRendersAndQuits(t *testing.T) {
	m, _, _ := newTestAskModel()
	m.content.WriteString("Hello world")

	model, cmd := m.Update(askDoneMsg{})
	am := model.(*askModel)

	if !am.done {
		t.Fatal("expected done state")
	}
	testutil.AssertContainsPlain(t, am.finalView, "Hello world")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg after done")
	}
}

func TestAskModel_CtrlCInterruptsWithoutQuitting(t *testing.T) {
	m, _, handler := newTestAskModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	if !handler.AbortSignal().Interrupted() {
		t.Fatal("expected interrupt recorded")
	}
	if cmd != nil {
		t.Fatal("expected no quit until the stream winds down")
	}
}

func TestAskModel_EscAborts(t *testing.T) {
	m, _, handler := newTestAskModel()

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if !handler.AbortSignal().Aborted() {
		t.Fatal("expected abort recorded")
	}
	if handler.AbortSignal().Interrupted() {
		t.Fatal("esc must not count as an interrupt")
	}
}

func TestAskModel_AbortedDoneShowsCancelled(t *testing.T) {
	m, _, handler := newTestAskModel()
	m.content.WriteString("partial reply")
	handler.AbortSignal().Abort()

	model, _ := m.Update(askDoneMsg{})
	am := model.(*askModel)

	testutil.AssertContainsPlain(t, am.finalView, "cancelled")
}

func TestAskModel_ViewShowsThinkingBeforeContent(t *testing.T) {
	m, _, _ := newTestAskModel()

	testutil.AssertContains(t, m.View(), "Thinking")
}

func TestAskModel_RenderWidthClamped(t *testing.T) {
	m, _, _ := newTestAskModel()

	model, _ := m.Update(tea.WindowSizeMsg{Width: 300, Height: 50})
	am := model.(*askModel)
	if got := am.renderWidth(); got != 100 {
		t.Fatalf("expected render width capped at 100, got %d", got)
	}

	am.width = 0
	if got := am.renderWidth(); got != 80 {
		t.Fatalf("expected default render width 80, got %d", got)
	}
}

func TestWaitForAskChunk(t *testing.T) {
	output := make(chan string, 1)
	output <- "chunk"

	msg := waitForAskChunk(output)()
	if got, ok := msg.(askChunkMsg); !ok || string(got) != "chunk" {
		t.Fatalf("expected chunk message, got %#v", msg)
	}

	close(output)
	msg = waitForAskChunk(output)()
	if _, ok := msg.(askDoneMsg); !ok {
		t.Fatalf("expected done message on closed channel, got %#v", msg)
	}
}

package chat

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samsaffron/term-chat/internal/config"
	"github.com/samsaffron/term-chat/internal/llm"
	"github.com/samsaffron/term-chat/internal/session"
)

// newTestChatModel builds a model backed by a mock client and no store.
func newTestChatModel(t *testing.T, mock *llm.MockClient) Model {
	t.Helper()
	cfg := config.Default()
	cfg.Clients = []config.ClientEntry{{
		"type": "localai",
		"url":  "http://localhost:9999/v1",
		"models": []map[string]any{
			{"name": "alpha"},
			{"name": "beta"},
		},
	}}
	cfg.Model = "localai:alpha"
	shared := config.NewShared(cfg)
	client := mock.Client(shared, llm.ModelInfo{Client: "localai", Name: "alpha"})
	return New(shared, client, nil)
}

func TestFilterCommands_EmptyQueryReturnsAll(t *testing.T) {
	got := FilterCommands("/")
	if len(got) != len(AllCommands) {
		t.Fatalf("expected all %d commands, got %d", len(AllCommands), len(got))
	}
}

func TestFilterCommands_ExactAliasWins(t *testing.T) {
	got := FilterCommands("/q")
	if len(got) != 1 || got[0].Name != "quit" {
		t.Fatalf("expected exactly quit for alias q, got %v", got)
	}
}

func TestFilterCommands_FuzzyMatch(t *testing.T) {
	got := FilterCommands("/mdl")
	if len(got) == 0 || got[0].Name != "model" {
		t.Fatalf("expected model as best fuzzy match for mdl, got %v", got)
	}
}

func TestFilterCommands_IgnoresArguments(t *testing.T) {
	got := FilterCommands("/model gpt-5")
	if len(got) == 0 || got[0].Name != "model" {
		t.Fatalf("expected model match regardless of arguments, got %v", got)
	}
}

func TestFilterCommands_NoMatch(t *testing.T) {
	if got := FilterCommands("/xyzzy"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestExecuteCommand_QuitSetsQuitting(t *testing.T) {
	m := newTestChatModel(t, llm.NewMockClient())

	cmd := m.ExecuteCommand("/quit")

	if !m.quitting {
		t.Fatal("expected quitting after /quit")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg from /quit")
	}
}

func TestExecuteCommand_AliasResolves(t *testing.T) {
	m := newTestChatModel(t, llm.NewMockClient())

	_ = m.ExecuteCommand("/exit")

	if !m.quitting {
		t.Fatal("expected alias exit to resolve to quit")
	}
}

func TestExecuteCommand_UnknownShowsError(t *testing.T) {
	m := newTestChatModel(t, llm.NewMockClient())

	cmd := m.ExecuteCommand("/bogus")

	if m.quitting {
		t.Fatal("unknown command must not quit")
	}
	if cmd == nil {
		t.Fatal("expected an error message command")
	}
}

func TestExecuteCommand_DryRunToggles(t *testing.T) {
	m := newTestChatModel(t, llm.NewMockClient())

	_ = m.ExecuteCommand("/dryrun")
	if !m.shared.Snapshot().DryRun {
		t.Fatal("expected dry-run on after first toggle")
	}

	_ = m.ExecuteCommand("/dryrun")
	if m.shared.Snapshot().DryRun {
		t.Fatal("expected dry-run off after second toggle")
	}

	_ = m.ExecuteCommand("/dryrun on")
	if !m.shared.Snapshot().DryRun {
		t.Fatal("expected dry-run on after explicit on")
	}

	_ = m.ExecuteCommand("/dryrun maybe")
	if !m.shared.Snapshot().DryRun {
		t.Fatal("invalid argument must leave dry-run unchanged")
	}
}

func TestExecuteCommand_RoleSetAndClear(t *testing.T) {
	cfg := config.Default()
	cfg.Clients = []config.ClientEntry{{
		"type":   "localai",
		"url":    "http://localhost:9999/v1",
		"models": []map[string]any{{"name": "alpha"}},
	}}
	cfg.Model = "localai:alpha"
	cfg.SetRoles([]config.Role{{Name: "pirate", Prompt: "Talk like a pirate."}})
	shared := config.NewShared(cfg)
	client := llm.NewMockClient().Client(shared, llm.ModelInfo{Client: "localai", Name: "alpha"})
	m := New(shared, client, nil)

	_ = m.ExecuteCommand("/role pirate")
	if got := m.shared.Snapshot().Role; got != "pirate" {
		t.Fatalf("expected role pirate, got %q", got)
	}

	_ = m.ExecuteCommand("/role nosuch")
	if got := m.shared.Snapshot().Role; got != "pirate" {
		t.Fatalf("unknown role must leave selection unchanged, got %q", got)
	}

	_ = m.ExecuteCommand("/role none")
	if got := m.shared.Snapshot().Role; got != "" {
		t.Fatalf("expected cleared role, got %q", got)
	}
}

func TestExecuteCommand_ModelSwitch(t *testing.T) {
	m := newTestChatModel(t, llm.NewMockClient())

	_ = m.ExecuteCommand("/model localai:beta")

	if got := m.shared.Snapshot().Model; got != "localai:beta" {
		t.Fatalf("expected selection localai:beta, got %q", got)
	}
	if got := m.client.Model().Name; got != "beta" {
		t.Fatalf("expected rebuilt client on beta, got %q", got)
	}
}

func TestExecuteCommand_ModelSwitchRevertsOnError(t *testing.T) {
	m := newTestChatModel(t, llm.NewMockClient())
	before := m.client

	cmd := m.ExecuteCommand("/model nosuch:thing")

	if got := m.shared.Snapshot().Model; got != "localai:alpha" {
		t.Fatalf("expected selection reverted to localai:alpha, got %q", got)
	}
	if m.client != before {
		t.Fatal("expected client unchanged after failed switch")
	}
	if cmd == nil {
		t.Fatal("expected an error message command")
	}
}

func TestExecuteCommand_ClearResetsConversation(t *testing.T) {
	m := newTestChatModel(t, llm.NewMockClient())
	m.history = []session.Message{{Role: session.RoleUser, Content: "hi", Sequence: 1}}
	m.persisted = 1
	m.seq = 1
	m.sess = &session.Session{ID: "20240101-000000-abcdef"}

	_ = m.ExecuteCommand("/clear")

	if len(m.history) != 0 || m.persisted != 0 || m.seq != 0 || m.sess != nil {
		t.Fatal("expected conversation state fully reset")
	}
}

func TestExecuteCommand_SaveWithoutStoreFails(t *testing.T) {
	m := newTestChatModel(t, llm.NewMockClient())
	m.history = []session.Message{{Role: session.RoleUser, Content: "hi", Sequence: 1}}

	cmd := m.ExecuteCommand("/save")

	if m.sess != nil {
		t.Fatal("expected no session without a store")
	}
	if cmd == nil {
		t.Fatal("expected an error message command")
	}
}

func TestExecuteCommand_SaveWithNoopStoreDiscards(t *testing.T) {
	m := newTestChatModel(t, llm.NewMockClient())
	m.store = &session.NoopStore{}
	m.history = []session.Message{{Role: session.RoleUser, Content: "hi", Sequence: 1}}

	_ = m.ExecuteCommand("/save")

	if m.sess == nil || m.sess.ID == "" {
		t.Fatal("expected a session id even when writes are discarded")
	}
	if !m.autosave {
		t.Fatal("expected autosave enabled after /save")
	}
	if got, err := m.store.Get(m.ctx, m.sess.ID); err != nil || got != nil {
		t.Fatalf("noop store must not retain sessions, got %v err %v", got, err)
	}
}

func TestExecuteCommand_SavePersistsConversation(t *testing.T) {
	t.Setenv("TERM_CHAT_DATA_DIR", t.TempDir())
	store, err := session.NewSQLiteStore(session.Config{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := newTestChatModel(t, llm.NewMockClient())
	m.store = store
	m.history = []session.Message{
		{Role: session.RoleUser, Content: "what is a monad", Sequence: 1},
		{Role: session.RoleAssistant, Content: "a monoid in disguise", Sequence: 2},
	}

	_ = m.ExecuteCommand("/save functors")

	if m.sess == nil {
		t.Fatal("expected a session after /save")
	}
	if !m.autosave {
		t.Fatal("expected autosave enabled after /save")
	}

	got, err := store.Get(m.ctx, m.sess.ID)
	if err != nil || got == nil {
		t.Fatalf("expected saved session, got %v err %v", got, err)
	}
	if got.Name != "functors" {
		t.Fatalf("expected session named functors, got %q", got.Name)
	}
	msgs, err := store.GetMessages(m.ctx, m.sess.ID, 0, 0)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 saved messages, got %d", len(msgs))
	}
}

func TestExecuteCommand_SaveTwiceDoesNotDuplicate(t *testing.T) {
	t.Setenv("TERM_CHAT_DATA_DIR", t.TempDir())
	store, err := session.NewSQLiteStore(session.Config{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := newTestChatModel(t, llm.NewMockClient())
	m.store = store
	m.history = []session.Message{
		{Role: session.RoleUser, Content: "hello", Sequence: 1},
	}

	_ = m.ExecuteCommand("/save")
	_ = m.ExecuteCommand("/save")

	msgs, err := store.GetMessages(m.ctx, m.sess.ID, 0, 0)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 saved message after double save, got %d", len(msgs))
	}
}

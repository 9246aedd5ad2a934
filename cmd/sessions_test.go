package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/samsaffron/term-chat/internal/session"
)

func TestResolveSession(t *testing.T) {
	t.Setenv("TERM_CHAT_DATA_DIR", t.TempDir())
	store, err := session.NewSQLiteStore(session.Config{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	sess := &session.Session{Name: "debugging", Model: "openai:gpt-5-mini"}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := resolveSession(ctx, store, ""); err == nil {
		t.Fatal("expected error with no current session")
	}

	got, err := resolveSession(ctx, store, sess.ID)
	if err != nil || got.ID != sess.ID {
		t.Fatalf("expected session by id, got %v err %v", got, err)
	}

	if err := store.SetCurrent(ctx, sess.ID); err != nil {
		t.Fatalf("set current: %v", err)
	}
	got, err = resolveSession(ctx, store, "")
	if err != nil || got.ID != sess.ID {
		t.Fatalf("expected current session, got %v err %v", got, err)
	}

	if _, err := resolveSession(ctx, store, "20200101-000000-ffffff"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-49 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}

	old := time.Date(2023, 3, 14, 12, 0, 0, 0, time.UTC)
	if got := formatRelativeTime(old); got != "Mar 14" {
		t.Errorf("formatRelativeTime(old) = %q, want %q", got, "Mar 14")
	}
}

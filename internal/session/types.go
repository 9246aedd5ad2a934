package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Session is a saved conversation.
type Session struct {
	ID        string
	Name      string
	Model     string // full "client:model" selection the session ran with
	Role      string // active role name, if any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is one turn of a session.
type Message struct {
	ID         int64
	SessionID  string
	Role       Role
	Content    string
	DurationMs int64
	CreatedAt  time.Time
	Sequence   int
}

// SessionSummary is a lightweight row for listings.
type SessionSummary struct {
	ID           string
	Name         string
	Model        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
}

// SearchResult is a full-text match inside a session's messages.
type SearchResult struct {
	SessionID   string
	MessageID   int64
	SessionName string
	Model       string
	Snippet     string
	CreatedAt   time.Time
}

// ListOptions filters List results.
type ListOptions struct {
	Model  string
	Limit  int
	Offset int
}

// Config controls retention cleanup when the store opens.
type Config struct {
	MaxAgeDays int
	MaxCount   int
}

// Store persists sessions and their messages.
type Store interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]SessionSummary, error)
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	AddMessage(ctx context.Context, sessionID string, msg *Message) error
	GetMessages(ctx context.Context, sessionID string, limit, offset int) ([]Message, error)
	SetCurrent(ctx context.Context, sessionID string) error
	GetCurrent(ctx context.Context) (*Session, error)
	ClearCurrent(ctx context.Context) error
	Close() error
}

// GetDBPath returns the sessions database location, honoring
// TERM_CHAT_DATA_DIR for tests and sandboxed installs.
func GetDBPath() (string, error) {
	if dir := os.Getenv("TERM_CHAT_DATA_DIR"); dir != "" {
		return filepath.Join(dir, "sessions.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "term-chat", "sessions.db"), nil
}

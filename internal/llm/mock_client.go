package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samsaffron/term-chat/internal/config"
)

// MockTurn represents a single scripted reply from the mock backend.
type MockTurn struct {
	Text  string        // Text to emit (chunked for realistic streaming)
	Delay time.Duration // Optional delay before responding (for cancellation tests)
	Error error         // Return this error instead of responding
}

// MockClient is a configurable backend for testing. It returns scripted
// turns and records every prompt for verification.
type MockClient struct {
	turns     []MockTurn
	turnIndex int
	Prompts   []Prompt // Recorded prompts for verification
	mu        sync.Mutex
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

// Client wraps the mock in the shared policy layer, as InitClient would a
// real backend.
func (m *MockClient) Client(cfg *config.Shared, model ModelInfo) *Client {
	return &Client{cfg: cfg, model: model, backend: m}
}

// AddTurn adds a scripted turn and returns the mock for chaining.
func (m *MockClient) AddTurn(t MockTurn) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, t)
	return m
}

// AddTextResponse is a convenience method to add a simple text reply.
func (m *MockClient) AddTextResponse(text string) *MockClient {
	return m.AddTurn(MockTurn{Text: text})
}

// AddError adds a turn that fails.
func (m *MockClient) AddError(err error) *MockClient {
	return m.AddTurn(MockTurn{Error: err})
}

// Reset clears recorded prompts and rewinds the turn index.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnIndex = 0
	m.Prompts = nil
}

func (m *MockClient) nextTurn(p Prompt) (MockTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, p)
	if m.turnIndex >= len(m.turns) {
		return MockTurn{}, fmt.Errorf("mock client: no more turns configured (expected turn %d, have %d)", m.turnIndex, len(m.turns))
	}
	turn := m.turns[m.turnIndex]
	m.turnIndex++
	return turn, nil
}

func (m *MockClient) exchangeOnce(ctx context.Context, p Prompt) (string, error) {
	turn, err := m.nextTurn(p)
	if err != nil {
		return "", err
	}
	if turn.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(turn.Delay):
		}
	}
	if turn.Error != nil {
		return "", turn.Error
	}
	return turn.Text, nil
}

func (m *MockClient) exchangeStreaming(ctx context.Context, p Prompt, handler *ReplyStreamHandler) error {
	turn, err := m.nextTurn(p)
	if err != nil {
		return err
	}
	if turn.Delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(turn.Delay):
		}
	}
	if turn.Error != nil {
		return turn.Error
	}
	for _, chunk := range chunkText(turn.Text, 10) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		handler.Text(chunk)
	}
	return nil
}

// chunkText splits text into chunks of approximately the given size,
// breaking at word boundaries when possible.
func chunkText(text string, chunkSize int) []string {
	if len(text) == 0 {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= chunkSize {
			chunks = append(chunks, text)
			break
		}

		breakPoint := chunkSize
		for i := chunkSize; i > chunkSize/2; i-- {
			if text[i] == ' ' {
				breakPoint = i + 1 // include the space in current chunk
				break
			}
		}

		chunks = append(chunks, text[:breakPoint])
		text = text[breakPoint:]
	}
	return chunks
}

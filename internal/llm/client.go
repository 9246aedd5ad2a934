package llm

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"
	"unicode"

	"github.com/samsaffron/term-chat/internal/config"
)

// abortPollInterval bounds how long a running call keeps going after the
// abort signal fires.
const abortPollInterval = 100 * time.Millisecond

// dryRunChunkDelay paces dry-run streaming so it reads like a live reply.
const dryRunChunkDelay = 25 * time.Millisecond

// exchanger is the contract each backend implements: one blocking
// request/response cycle and one incrementally-delivered cycle. Both take
// the call's context; a cancelled context must end the exchange promptly.
type exchanger interface {
	exchangeOnce(ctx context.Context, p Prompt) (string, error)
	exchangeStreaming(ctx context.Context, p Prompt, handler *ReplyStreamHandler) error
}

// Client couples a concrete backend with the policy every backend gets for
// free: dry-run interception, fetch-context error wrapping, and a
// cancellable streaming bridge. Build one with InitClient.
type Client struct {
	cfg     *config.Shared
	model   ModelInfo
	backend exchanger
}

// Config returns the shared configuration handle the client reads from.
func (c *Client) Config() *config.Shared {
	return c.cfg
}

// Model returns the model this client sends requests to.
func (c *Client) Model() ModelInfo {
	return c.model
}

// SendMessage performs one blocking exchange and returns the full reply.
// In dry-run mode the reply is the deterministic echo of the input and no
// network access happens.
func (c *Client) SendMessage(content string) (string, error) {
	snap := c.cfg.Snapshot()
	if snap.DryRun {
		return snap.EchoMessages(content), nil
	}

	body, system := snap.ShapeInput(content)
	reply, err := c.backend.exchangeOnce(context.Background(), Prompt{Content: body, System: system})
	if err != nil {
		return "", fmt.Errorf("failed to fetch: %w", err)
	}
	return reply, nil
}

// SendMessageStreaming performs one streaming exchange, pushing chunks to
// the handler as they arrive. The call races three activities: the backend
// exchange (or its dry-run simulation), a poll of the handler's abort
// signal, and the process interrupt. Whichever finishes first wins, the
// losers are cancelled, and the handler's Done fires exactly once.
// Cancellation is a normal termination, not an error.
func (c *Client) SendMessageStreaming(content string, handler *ReplyStreamHandler) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	result := make(chan error, 1)
	go func() {
		snap := c.cfg.Snapshot()
		if snap.DryRun {
			result <- c.streamDryRun(ctx, snap.EchoMessages(content), handler)
			return
		}
		body, system := snap.ShapeInput(content)
		result <- c.backend.exchangeStreaming(ctx, Prompt{Content: body, System: system}, handler)
	}()

	abort := handler.AbortSignal()
	ticker := time.NewTicker(abortPollInterval)
	defer ticker.Stop()

	for {
		if abort.Aborted() {
			cancel()
			handler.Done()
			return nil
		}
		select {
		case err := <-result:
			handler.Done()
			if err != nil {
				return fmt.Errorf("failed to fetch stream: %w", err)
			}
			return nil
		case <-ticker.C:
			// next loop iteration re-checks the abort signal
		case <-interrupt:
			abort.Interrupt()
			cancel()
			handler.Done()
			return nil
		}
	}
}

// streamDryRun delivers the echoed input word by word with a fixed pacing
// delay: one chunk per whitespace-delimited token, whitespace preserved so
// the chunks concatenate back to the full reply.
func (c *Client) streamDryRun(ctx context.Context, reply string, handler *ReplyStreamHandler) error {
	for _, word := range splitWords(reply) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dryRunChunkDelay):
		}
		handler.Text(word)
	}
	return nil
}

// splitWords cuts text after each whitespace run, so each chunk is one word
// carrying its trailing (and the first word its leading) whitespace.
// Whitespace-only input yields nothing.
func splitWords(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var words []string
	start := 0
	seenWord := false
	inSpace := false
	for i, r := range text {
		switch {
		case unicode.IsSpace(r):
			inSpace = true
		case inSpace && seenWord:
			words = append(words, text[start:i])
			start = i
			inSpace = false
		default:
			inSpace = false
			seenWord = true
		}
	}
	return append(words, text[start:])
}

package llm

import (
	"strings"
	"sync"
	"sync/atomic"
)

// AbortSignal is a shared cancellation flag with two independent triggers:
// an explicit abort request and an OS interrupt. Either one makes Aborted
// observable; Interrupted tells the two apart so the caller can pick the
// right exit path. The signal outlives a single call — a REPL reuses it
// across turns via Reset.
type AbortSignal struct {
	aborted     atomic.Bool
	interrupted atomic.Bool
}

func NewAbortSignal() *AbortSignal {
	return &AbortSignal{}
}

// Abort requests cancellation of the in-flight call.
func (a *AbortSignal) Abort() {
	a.aborted.Store(true)
}

// Interrupt records that an OS interrupt caused the cancellation.
func (a *AbortSignal) Interrupt() {
	a.interrupted.Store(true)
}

// Aborted reports whether either trigger has fired.
func (a *AbortSignal) Aborted() bool {
	return a.aborted.Load() || a.interrupted.Load()
}

// Interrupted reports whether the interrupt trigger specifically fired.
func (a *AbortSignal) Interrupted() bool {
	return a.interrupted.Load()
}

// Reset clears both triggers so the signal can serve the next call.
func (a *AbortSignal) Reset() {
	a.aborted.Store(false)
	a.interrupted.Store(false)
}

// ReplyStreamHandler collects the incremental chunks of one streaming
// reply, forwarding each to an optional sink as it arrives. It owns the
// abort signal for the call and is not reused across calls. Once Done
// fires, late chunks from a losing backend goroutine are dropped, so the
// sink never observes text after completion.
type ReplyStreamHandler struct {
	abort *AbortSignal

	mu     sync.Mutex
	sink   func(chunk string)
	buf    strings.Builder
	done   bool
	doneCh chan struct{}
}

// NewReplyStreamHandler builds a handler delivering chunks to sink. A nil
// sink only accumulates. A nil abort signal gets a fresh one.
func NewReplyStreamHandler(sink func(chunk string), abort *AbortSignal) *ReplyStreamHandler {
	if abort == nil {
		abort = NewAbortSignal()
	}
	return &ReplyStreamHandler{
		abort:  abort,
		sink:   sink,
		doneCh: make(chan struct{}),
	}
}

// Text delivers one chunk. Chunks arriving after Done are discarded.
func (h *ReplyStreamHandler) Text(chunk string) {
	if chunk == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return
	}
	h.buf.WriteString(chunk)
	if h.sink != nil {
		h.sink(chunk)
	}
}

// Done marks the reply finished. Only the first call has effect; every
// terminal path of a streaming call ends here exactly once.
func (h *ReplyStreamHandler) Done() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return
	}
	h.done = true
	close(h.doneCh)
}

// WaitDone returns a channel closed once the reply is finished.
func (h *ReplyStreamHandler) WaitDone() <-chan struct{} {
	return h.doneCh
}

// Content returns the reply text accumulated so far.
func (h *ReplyStreamHandler) Content() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buf.String()
}

// AbortSignal returns the signal owned by this handler.
func (h *ReplyStreamHandler) AbortSignal() *AbortSignal {
	return h.abort
}

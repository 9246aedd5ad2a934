package llm

import "testing"

func TestAbortSignalTriggers(t *testing.T) {
	abort := NewAbortSignal()
	if abort.Aborted() {
		t.Fatal("fresh signal should not be aborted")
	}

	abort.Abort()
	if !abort.Aborted() {
		t.Fatal("Abort() not observable")
	}
	if abort.Interrupted() {
		t.Fatal("explicit abort must not report interrupted")
	}

	abort.Reset()
	if abort.Aborted() {
		t.Fatal("Reset() did not clear abort")
	}

	abort.Interrupt()
	if !abort.Aborted() {
		t.Fatal("interrupt must make Aborted observable")
	}
	if !abort.Interrupted() {
		t.Fatal("Interrupt() not observable via Interrupted()")
	}

	abort.Reset()
	if abort.Aborted() || abort.Interrupted() {
		t.Fatal("Reset() did not clear both triggers")
	}
}

func TestHandlerAccumulatesAndForwards(t *testing.T) {
	var chunks []string
	handler := NewReplyStreamHandler(func(chunk string) {
		chunks = append(chunks, chunk)
	}, nil)

	handler.Text("hello ")
	handler.Text("world")
	handler.Done()

	if got := handler.Content(); got != "hello world" {
		t.Fatalf("content=%q, want %q", got, "hello world")
	}
	if len(chunks) != 2 || chunks[0] != "hello " || chunks[1] != "world" {
		t.Fatalf("chunks=%q, want [hello , world]", chunks)
	}
}

func TestHandlerDropsTextAfterDone(t *testing.T) {
	var chunks []string
	handler := NewReplyStreamHandler(func(chunk string) {
		chunks = append(chunks, chunk)
	}, nil)

	handler.Text("kept")
	handler.Done()
	handler.Text("dropped")

	if got := handler.Content(); got != "kept" {
		t.Fatalf("content=%q, want %q", got, "kept")
	}
	if len(chunks) != 1 {
		t.Fatalf("sink saw %d chunks after done, want 1", len(chunks))
	}
}

func TestHandlerDoneIdempotent(t *testing.T) {
	handler := NewReplyStreamHandler(nil, nil)
	handler.Done()
	handler.Done() // second call must not panic on the closed channel

	select {
	case <-handler.WaitDone():
	default:
		t.Fatal("WaitDone channel not closed after Done")
	}
}

func TestHandlerOwnsAbortSignal(t *testing.T) {
	abort := NewAbortSignal()
	handler := NewReplyStreamHandler(nil, abort)
	if handler.AbortSignal() != abort {
		t.Fatal("handler did not keep the signal it was built with")
	}

	fresh := NewReplyStreamHandler(nil, nil)
	if fresh.AbortSignal() == nil {
		t.Fatal("handler with nil signal should create one")
	}
}

package ui

import (
	"testing"
	"time"

	"github.com/samsaffron/term-chat/internal/testutil"
)

func TestStreamingIndicatorRender(t *testing.T) {
	styles := DefaultStyles()

	out := StreamingIndicator{
		Spinner:    "⠋",
		Phase:      "Thinking",
		Elapsed:    1500 * time.Millisecond,
		ShowCancel: true,
	}.Render(styles)

	testutil.AssertContains(t, out, "Thinking...")
	testutil.AssertContains(t, out, "1.5s")
	testutil.AssertContains(t, out, "esc to cancel")
}

func TestStreamingIndicatorCharsShownOnlyWhenPositive(t *testing.T) {
	styles := DefaultStyles()

	without := StreamingIndicator{Spinner: "⠋", Phase: "Responding", Elapsed: time.Second}.Render(styles)
	testutil.AssertNotContains(t, without, "chars")

	with := StreamingIndicator{Spinner: "⠋", Phase: "Responding", Elapsed: time.Second, Chars: 240}.Render(styles)
	testutil.AssertContains(t, with, "240 chars")
}

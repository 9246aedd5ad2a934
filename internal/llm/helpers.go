package llm

// Debug enables request diagnostics on stderr for every backend.
// Set once at startup from the --debug flag.
var Debug bool

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

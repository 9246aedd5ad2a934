package ui

import "strings"

// FindSafeBoundary finds the last byte position where markdown context
// is complete, so streamed text can be split into a stable prefix
// (safe to render) and a still-growing tail. Returns -1 if no safe
// boundary exists.
//
// Safe positions come after complete paragraphs (\n\n) that are not
// inside an open code fence and leave inline markers balanced.
func FindSafeBoundary(text string) int {
	if len(text) < 20 {
		return -1 // too short to bother splitting
	}

	// Walk paragraph boundaries from the end; we want the latest safe one.
	pos := len(text)
	for {
		paraEnd := strings.LastIndex(text[:pos], "\n\n")
		if paraEnd == -1 {
			return -1
		}

		safePos := paraEnd + 2

		if isInCodeBlock(text, safePos) {
			pos = paraEnd
			continue
		}

		if areInlineMarkersBalanced(text[:safePos]) {
			return safePos
		}

		pos = paraEnd
	}
}

// isInCodeBlock returns true if position pos is inside an unclosed
// code block. Fences are ``` at the start of a line.
func isInCodeBlock(text string, pos int) bool {
	if pos > len(text) {
		pos = len(text)
	}
	// Odd fence count means open block.
	return countCodeFences(text[:pos])%2 == 1
}

// countCodeFences counts ``` markers that open a line.
func countCodeFences(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "```") {
			count++
		}
	}
	return count
}

// areInlineMarkersBalanced checks that **, *, _, ~~ and backtick code
// spans are all closed.
func areInlineMarkersBalanced(text string) bool {
	inBold := false
	inItalicAsterisk := false
	inItalicUnderscore := false
	inStrikethrough := false

	i := 0
	for i < len(text) {
		// Code spans escape the other markers.
		if text[i] == '`' {
			start := i
			for i < len(text) && text[i] == '`' {
				i++
			}
			closing := strings.Repeat("`", i-start)
			closeIdx := strings.Index(text[i:], closing)
			if closeIdx == -1 {
				return false // unclosed code span
			}
			i += closeIdx + len(closing)
			continue
		}

		if text[i] == '*' {
			if i+1 < len(text) && text[i+1] == '*' {
				inBold = !inBold
				i += 2
				continue
			}
			inItalicAsterisk = !inItalicAsterisk
			i++
			continue
		}

		if text[i] == '_' {
			inItalicUnderscore = !inItalicUnderscore
			i++
			continue
		}

		if text[i] == '~' && i+1 < len(text) && text[i+1] == '~' {
			inStrikethrough = !inStrikethrough
			i += 2
			continue
		}

		i++
	}

	return !inBold && !inItalicAsterisk && !inItalicUnderscore && !inStrikethrough
}

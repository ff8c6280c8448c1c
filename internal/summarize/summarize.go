// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize turns raw document text into a structured Markdown
// note via a Generative AI API.
package summarize

import (
	"context"
)

// DefaultMaxInputChars caps the document text sent to the API when no
// limit is configured.
const DefaultMaxInputChars = 20000

// Backend abstracts the Generative AI API so tests can supply a mock.
// An implementation takes raw document text and returns the model's
// Markdown note: YAML frontmatter followed by a summary body.
type Backend interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Truncate limits text to maxChars runes, the budget sent to the API.
// Non-positive maxChars falls back to DefaultMaxInputChars.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxInputChars
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}

// Package extract turns raw captures (free text, receipt images) into
// structured expense candidates via a language model.
//
// Failure behavior differs by capture mode and is part of the contract:
// text extraction degrades in place to a deterministic regex fallback,
// image extraction collapses every failure into an empty result. Neither
// path surfaces upstream model errors to the caller.
package extract

import (
	"context"
	"strings"
)

// Generator is the model call the extractors depend on. An empty mimeType
// means a text-only prompt. Satisfied by gemini.Client; tests substitute
// fakes.
type Generator interface {
	Generate(ctx context.Context, model, prompt, mimeType string, data []byte) (string, error)
}

// cleanModelJSON strips Markdown code fences and surrounding junk the model
// may emit despite instructions, keeping only the outermost open..close
// span.
func cleanModelJSON(raw string, open, close byte) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.IndexByte(s, open); start != -1 {
		if end := strings.LastIndexByte(s, close); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

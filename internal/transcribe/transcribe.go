// Package transcribe converts captured audio clips to plain text.
//
// This is the one capture mode with no degraded path: there is no
// deterministic substitute for speech recognition, so failures surface as
// errors and the caller owns the user-facing messaging.
package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Generator is the speech-capable model call the service depends on.
// Satisfied by gemini.Client.
type Generator interface {
	Generate(ctx context.Context, model, prompt, mimeType string, data []byte) (string, error)
}

// Service transcribes a single complete audio clip. Clips are captured in
// full client-side before submission; there is no streaming.
type Service struct {
	gen      Generator
	model    string
	language string
}

func NewService(gen Generator, model, language string) *Service {
	return &Service{gen: gen, model: model, language: language}
}

func (s *Service) prompt() string {
	return fmt.Sprintf(
		"Transcribe the attached audio clip. The spoken language is %q. "+
			"Return ONLY the plain-text transcript, with no commentary, "+
			"labels, or formatting.", s.language)
}

// Transcribe returns the transcript trimmed of surrounding whitespace, or
// an explicit error. No retry, no fallback.
func (s *Service) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	raw, err := s.gen.Generate(ctx, s.model, s.prompt(), mimeType, audio)
	if err != nil {
		slog.ErrorContext(ctx, "Transcription failed",
			"error", err, "model", s.model, "audio_bytes", len(audio))
		return "", fmt.Errorf("transcribe audio: %w", err)
	}

	text := strings.TrimSpace(raw)
	slog.InfoContext(ctx, "Transcription finished",
		"chars", len(text), "language", s.language)
	return text, nil
}

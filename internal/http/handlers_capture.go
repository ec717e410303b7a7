package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"notaspese/internal/core"
)

// Model-backed handlers get a generous timeout; extraction can involve a
// remote inference round trip.
const modelCallTimeout = 30 * time.Second

func (s *Server) handleParseText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	var req struct {
		Input *string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "input must be a string")
		return
	}
	if req.Input == nil {
		writeError(w, http.StatusBadRequest, "missing input")
		return
	}

	input := sanitizeInput(*req.Input)
	ctx, cancel := context.WithTimeout(r.Context(), modelCallTimeout)
	defer cancel()

	candidate, err := s.textParser.Parse(ctx, input)
	if err != nil {
		// The parser itself falls back on model failures; an error here
		// means the input was unusable.
		writeError(w, http.StatusBadRequest, "input is empty")
		return
	}

	writeJSON(w, http.StatusOK, candidate)
}

func (s *Server) handleParseReceipt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	image, mimeType, ok := s.readUpload(w, r, "image")
	if !ok {
		return
	}
	if !strings.HasPrefix(mimeType, "image/") {
		writeError(w, http.StatusBadRequest, "file must be an image")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), modelCallTimeout)
	defer cancel()

	candidates := s.receiptParser.Parse(ctx, image, mimeType)
	if candidates == nil {
		candidates = []core.Candidate{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"expenses": candidates})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	audio, mimeType, ok := s.readUpload(w, r, "audio")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), modelCallTimeout)
	defer cancel()

	text, err := s.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transcription failed", "error", err, "mime_type", mimeType)
		writeError(w, http.StatusInternalServerError, "transcription failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"notaspese/internal/core"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("period"))
	if raw == "" {
		raw = string(core.PeriodToday)
	}
	period, err := core.ParsePeriod(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "period must be today, week or month")
		return
	}

	if cached, ok := s.summaryCache.Get(string(period)); ok {
		slog.DebugContext(r.Context(), "Summary cache hit", "period", string(period))
		writeJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeCallTimeout)
	defer cancel()

	summary, err := s.summarizer.For(ctx, period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary error", "error", err, "period", string(period))
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	s.summaryCache.Set(string(period), summary)
	writeJSON(w, http.StatusOK, summary)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"notaspese/internal/core"
)

const storeCallTimeout = 7 * time.Second

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListExpenses(w, r)
	case http.MethodPost:
		s.handleConfirmExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleConfirmExpense(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	var candidate core.Candidate
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	candidate.Description = sanitizeInput(candidate.Description)
	candidate.Merchant = sanitizeInput(candidate.Merchant)

	ctx, cancel := context.WithTimeout(r.Context(), storeCallTimeout)
	defer cancel()

	exp, err := s.expenses.Confirm(ctx, candidate)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusUnprocessableEntity, "amount must be positive")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to save expense",
			"error", err,
			"amount_cents", candidate.Amount.Cents,
			"merchant", candidate.Merchant)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, exp)
}

func (s *Server) handleConfirmBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	var req struct {
		Expenses []core.Candidate `json:"expenses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Expenses) == 0 {
		writeError(w, http.StatusBadRequest, "no expenses to confirm")
		return
	}
	for i := range req.Expenses {
		req.Expenses[i].Description = sanitizeInput(req.Expenses[i].Description)
		req.Expenses[i].Merchant = sanitizeInput(req.Expenses[i].Merchant)
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeCallTimeout)
	defer cancel()

	results := s.expenses.ConfirmBatch(ctx, req.Expenses)
	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeCallTimeout)
	defer cancel()

	items, err := s.expenses.List(ctx)
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}
	if items == nil {
		items = []core.Expense{}
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeCallTimeout)
	defer cancel()

	if err := s.expenses.Delete(ctx, id); err != nil {
		slog.ErrorContext(r.Context(), "Delete expense error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}

	// Deleting an absent record is not an error.
	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}

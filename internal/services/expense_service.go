// Package services orchestrates the confirmation boundary: validated
// candidates become stored records, and stored records are announced to the
// optional export pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"notaspese/internal/core"
)

// RecordStore is the store surface the confirmation boundary needs.
type RecordStore interface {
	Add(ctx context.Context, c core.Candidate) (core.Expense, error)
	GetAll(ctx context.Context) ([]core.Expense, error)
	Delete(ctx context.Context, id string) error
}

// EventPublisher announces stored records. A nil publisher disables the
// export pipeline entirely.
type EventPublisher interface {
	PublishExpenseRecorded(ctx context.Context, id string, version int64) error
}

// ExpenseService guards the amount>0 invariant and resolves candidate
// defaults before anything reaches the store. The store itself stays
// validation-free on purpose.
type ExpenseService struct {
	store     RecordStore
	publisher EventPublisher
}

func NewExpenseService(store RecordStore, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher}
}

// Confirm persists one candidate. Candidates with non-positive amounts are
// rejected, never silently stored; storage failures always propagate.
func (s *ExpenseService) Confirm(ctx context.Context, c core.Candidate) (core.Expense, error) {
	c = c.WithDefaults(c.Description)
	if err := c.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("confirm candidate: %w", err)
	}

	e, err := s.store.Add(ctx, c)
	if err != nil {
		return core.Expense{}, fmt.Errorf("store expense: %w", err)
	}

	// Publishing is best effort: the record is already durable locally.
	if s.publisher != nil {
		if err := s.publisher.PublishExpenseRecorded(ctx, e.ID, 1); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense recorded event",
				"id", e.ID, "error", err)
		}
	}

	return e, nil
}

// BatchResult reports the outcome of one entry of a batch confirmation.
type BatchResult struct {
	Expense *core.Expense `json:"expense,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// ConfirmBatch persists a confirmed multi-line receipt sequentially. A
// failing entry does not roll back earlier ones: partial persistence is
// accepted behavior for receipt confirmation.
func (s *ExpenseService) ConfirmBatch(ctx context.Context, cands []core.Candidate) []BatchResult {
	results := make([]BatchResult, 0, len(cands))
	for _, c := range cands {
		e, err := s.Confirm(ctx, c)
		if err != nil {
			results = append(results, BatchResult{Error: err.Error()})
			continue
		}
		results = append(results, BatchResult{Expense: &e})
	}
	return results
}

// List returns every stored record.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	return s.store.GetAll(ctx)
}

// Delete removes a record; absent ids are a no-op.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

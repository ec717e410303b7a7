// Package worker moves recorded expenses into the local export archive.
//
// The worker reacts to expense-recorded messages and additionally runs a
// periodic catch-up scan over records still marked pending, so events lost
// while the worker was down are picked up eventually.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"notaspese/internal/amqp"
	"notaspese/internal/core"
	"notaspese/internal/log"
)

// Store is the slice of the record store the worker needs.
type Store interface {
	Get(ctx context.Context, id string) (core.Expense, error)
	GetPendingExport(ctx context.Context, limit int) ([]core.Expense, error)
	MarkExported(ctx context.Context, id string) error
	MarkExportError(ctx context.Context, id string) error
}

// Appender is the export destination.
type Appender interface {
	Append(ctx context.Context, e core.Expense) error
}

type ExportWorker struct {
	store     Store
	sink      Appender
	batchSize int
}

func NewExportWorker(store Store, sink Appender, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		sink:      sink,
		batchSize: batchSize,
	}
}

// HandleRecordedMessage processes a single expense-recorded event.
func (w *ExportWorker) HandleRecordedMessage(ctx context.Context, msg *amqp.ExpenseRecordedMessage) error {
	slog.InfoContext(ctx, "Processing recorded message",
		log.FieldComponent, log.ComponentWorker,
		log.FieldExpenseID, msg.ID,
		"version", msg.Version)

	expense, err := w.store.Get(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	return w.exportOne(ctx, expense)
}

// ProcessPending exports up to one batch of records still marked pending.
// Called on a ticker and once at startup to catch missed messages.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.GetPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending export: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	var failed int
	for _, e := range pending {
		if err := w.exportOne(ctx, e); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending expense",
				"id", e.ID, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("export pending: %d of %d failed", failed, len(pending))
	}
	return nil
}

func (w *ExportWorker) exportOne(ctx context.Context, e core.Expense) error {
	if err := w.sink.Append(ctx, e); err != nil {
		if markErr := w.store.MarkExportError(ctx, e.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error",
				"id", e.ID, "error", markErr)
		}
		return fmt.Errorf("append to export sink: %w", err)
	}

	if err := w.store.MarkExported(ctx, e.ID); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}

	slog.InfoContext(ctx, "Expense exported",
		log.FieldComponent, log.ComponentExport,
		log.FieldExpenseID, e.ID,
		log.FieldAmountCents, e.Amount.Cents)
	return nil
}

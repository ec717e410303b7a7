package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"notaspese/internal/core"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"), opts...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}
	return s
}

func TestInitIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Add(ctx, core.Candidate{
		Amount: core.Money{Cents: 100}, Merchant: "A", Category: "food", Description: "x",
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A second Init must not recreate the schema or lose data.
	if err := s.Init(ctx); err != nil {
		t.Fatalf("second init: %v", err)
	}
	s.inited = false
	if err := s.Init(ctx); err != nil {
		t.Fatalf("re-run migrations: %v", err)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record after re-init, got %d", len(all))
	}
}

func TestAddRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, WithClock(func() time.Time { return now }))

	cand := core.Candidate{
		Amount:      core.Money{Cents: 525},
		Merchant:    "Starbucks",
		Category:    "food",
		Description: "Coffee at Starbucks",
	}
	added, err := s.Add(ctx, cand)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if !added.Date.Equal(now) || !added.CreatedAt.Equal(now) {
		t.Fatalf("expected timestamps pinned to clock, got date=%v created=%v", added.Date, added.CreatedAt)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record, got %d", len(all))
	}
	got := all[0]
	if got.ID != added.ID || got.Amount.Cents != 525 || got.Merchant != "Starbucks" ||
		got.Category != "food" || got.Description != "Coffee at Starbucks" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	// Timestamps must come back as real temporal values, not encodings.
	if !got.Date.Equal(now) || !got.CreatedAt.Equal(now) {
		t.Fatalf("timestamps lost fidelity: date=%v created=%v", got.Date, got.CreatedAt)
	}
}

func TestRapidAddsGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	// Frozen clock: both inserts land on the same millisecond.
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, WithClock(func() time.Time { return now }))

	c := core.Candidate{Amount: core.Money{Cents: 100}, Merchant: "A", Category: "food", Description: "line"}
	a, err := s.Add(ctx, c)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	b, err := s.Add(ctx, c)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("id collision under same clock tick: %s", a.ID)
	}
	all, _ := s.GetAll(ctx)
	if len(all) != 2 {
		t.Fatalf("expected both records persisted, got %d", len(all))
	}
}

func TestGetByDateRangeInclusiveBounds(t *testing.T) {
	ctx := context.Background()
	times := []time.Time{
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	i := 0
	s := newTestStore(t, WithClock(func() time.Time {
		tm := times[i]
		i++
		return tm
	}))
	for range times {
		if _, err := s.Add(ctx, core.Candidate{
			Amount: core.Money{Cents: 100}, Merchant: "A", Category: "food", Description: "x",
		}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	got, err := s.GetByDateRange(ctx, start, end)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	// Records dated exactly at start and exactly at end are both included.
	if len(got) != 3 {
		t.Fatalf("expected 3 records in range, got %d", len(got))
	}
}

func TestDeleteAbsentIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	added, err := s.Add(ctx, core.Candidate{
		Amount: core.Money{Cents: 100}, Merchant: "A", Category: "food", Description: "x",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.Delete(ctx, "no-such-id"); err != nil {
		t.Fatalf("delete of absent id should be a no-op, got %v", err)
	}
	if err := s.Delete(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ := s.GetAll(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %d records", len(all))
	}
}

func TestExportStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, _ := s.Add(ctx, core.Candidate{Amount: core.Money{Cents: 100}, Merchant: "A", Category: "food", Description: "x"})
	b, _ := s.Add(ctx, core.Candidate{Amount: core.Money{Cents: 200}, Merchant: "B", Category: "other", Description: "y"})

	pending, err := s.GetPendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}

	if err := s.MarkExported(ctx, a.ID); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	if err := s.MarkExportError(ctx, b.ID); err != nil {
		t.Fatalf("mark export error: %v", err)
	}

	// Exported records drop out; errored ones stay eligible for retry.
	pending, _ = s.GetPendingExport(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending after marking, got %d", len(pending))
	}
	if pending[0].ID != b.ID {
		t.Fatalf("expected errored record %s to remain, got %s", b.ID, pending[0].ID)
	}
}

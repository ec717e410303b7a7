package services

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"notaspese/internal/core"
)

type fakeStore struct {
	records []core.Expense
	failAt  int // 1-based add call index to fail on, 0 = never
	calls   int
}

func (f *fakeStore) Add(_ context.Context, c core.Candidate) (core.Expense, error) {
	f.calls++
	if f.failAt != 0 && f.calls == f.failAt {
		return core.Expense{}, errors.New("write aborted")
	}
	e := core.Expense{
		ID:          "id-" + strconv.Itoa(f.calls),
		Amount:      c.Amount,
		Merchant:    c.Merchant,
		Category:    c.Category,
		Description: c.Description,
	}
	f.records = append(f.records, e)
	return e, nil
}

func (f *fakeStore) GetAll(_ context.Context) ([]core.Expense, error) { return f.records, nil }
func (f *fakeStore) Delete(_ context.Context, id string) error        { return nil }

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishExpenseRecorded(_ context.Context, id string, _ int64) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id)
	return nil
}

func TestConfirmRejectsNonPositiveAmount(t *testing.T) {
	store := &fakeStore{}
	svc := NewExpenseService(store, nil)

	for _, cents := range []int64{0, -525} {
		_, err := svc.Confirm(context.Background(), core.Candidate{
			Amount: core.Money{Cents: cents}, Description: "x",
		})
		if !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("cents=%d: expected ErrInvalidAmount, got %v", cents, err)
		}
	}
	if len(store.records) != 0 {
		t.Fatalf("non-positive candidates must never be stored, got %d", len(store.records))
	}
}

func TestConfirmResolvesDefaultsAndPublishes(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	e, err := svc.Confirm(context.Background(), core.Candidate{
		Amount: core.Money{Cents: 525}, Description: "Coffee",
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if e.Merchant != core.DefaultMerchant || e.Category != core.DefaultCategory {
		t.Fatalf("defaults not resolved at confirmation: %+v", e)
	}
	if len(pub.published) != 1 || pub.published[0] != e.ID {
		t.Fatalf("expected recorded event published, got %v", pub.published)
	}
}

func TestConfirmSurvivesPublishFailure(t *testing.T) {
	store := &fakeStore{}
	svc := NewExpenseService(store, &fakePublisher{err: errors.New("broker down")})

	if _, err := svc.Confirm(context.Background(), core.Candidate{
		Amount: core.Money{Cents: 100}, Description: "x",
	}); err != nil {
		t.Fatalf("publish failure must not fail confirmation: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("record must be stored despite publish failure")
	}
}

func TestConfirmBatchPartialPersistence(t *testing.T) {
	store := &fakeStore{failAt: 2}
	svc := NewExpenseService(store, nil)

	cands := []core.Candidate{
		{Amount: core.Money{Cents: 100}, Description: "a"},
		{Amount: core.Money{Cents: 200}, Description: "b"}, // storage fails here
		{Amount: core.Money{}, Description: "c"},           // invalid, skipped
		{Amount: core.Money{Cents: 300}, Description: "d"},
	}
	results := svc.ConfirmBatch(context.Background(), cands)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[0].Expense == nil || results[3].Expense == nil {
		t.Fatalf("entries before and after a failure must still commit: %+v", results)
	}
	if results[1].Error == "" || results[2].Error == "" {
		t.Fatalf("failed entries must report errors: %+v", results)
	}
	// Prior commits stand; no all-or-nothing rollback.
	if len(store.records) != 2 {
		t.Fatalf("expected 2 persisted records, got %d", len(store.records))
	}
}

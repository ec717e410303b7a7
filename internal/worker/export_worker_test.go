package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"notaspese/internal/amqp"
	"notaspese/internal/core"
)

type fakeStore struct {
	records  map[string]core.Expense
	pending  []core.Expense
	exported []string
	errored  []string
}

func (f *fakeStore) Get(_ context.Context, id string) (core.Expense, error) {
	e, ok := f.records[id]
	if !ok {
		return core.Expense{}, errors.New("not found")
	}
	return e, nil
}

func (f *fakeStore) GetPendingExport(_ context.Context, limit int) ([]core.Expense, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeStore) MarkExported(_ context.Context, id string) error {
	f.exported = append(f.exported, id)
	return nil
}

func (f *fakeStore) MarkExportError(_ context.Context, id string) error {
	f.errored = append(f.errored, id)
	return nil
}

type fakeSink struct {
	appended []core.Expense
	err      error
}

func (f *fakeSink) Append(_ context.Context, e core.Expense) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, e)
	return nil
}

func record(id string, cents int64) core.Expense {
	return core.Expense{
		ID:     id,
		Amount: core.Money{Cents: cents},
		Date:   time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC),
	}
}

func TestHandleRecordedMessage(t *testing.T) {
	store := &fakeStore{records: map[string]core.Expense{"a1": record("a1", 525)}}
	sink := &fakeSink{}
	w := NewExportWorker(store, sink, 10)

	msg := &amqp.ExpenseRecordedMessage{ID: "a1", Version: 1}
	if err := w.HandleRecordedMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sink.appended) != 1 || sink.appended[0].ID != "a1" {
		t.Fatalf("expected record appended, got %+v", sink.appended)
	}
	if len(store.exported) != 1 || store.exported[0] != "a1" {
		t.Fatalf("expected record marked exported, got %v", store.exported)
	}
}

func TestHandleRecordedMessageUnknownID(t *testing.T) {
	w := NewExportWorker(&fakeStore{records: map[string]core.Expense{}}, &fakeSink{}, 10)

	msg := &amqp.ExpenseRecordedMessage{ID: "missing", Version: 1}
	if err := w.HandleRecordedMessage(context.Background(), msg); err == nil {
		t.Fatalf("expected error for unknown record")
	}
}

func TestProcessPendingMarksFailures(t *testing.T) {
	store := &fakeStore{pending: []core.Expense{record("a1", 100), record("a2", 200)}}
	sink := &fakeSink{err: errors.New("disk full")}
	w := NewExportWorker(store, sink, 10)

	if err := w.ProcessPending(context.Background()); err == nil {
		t.Fatalf("expected aggregate failure")
	}
	if len(store.errored) != 2 {
		t.Fatalf("expected both records marked errored, got %v", store.errored)
	}
	if len(store.exported) != 0 {
		t.Fatalf("nothing should be marked exported, got %v", store.exported)
	}
}

func TestProcessPendingRespectsBatchSize(t *testing.T) {
	store := &fakeStore{pending: []core.Expense{record("a1", 100), record("a2", 200), record("a3", 300)}}
	sink := &fakeSink{}
	w := NewExportWorker(store, sink, 2)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(sink.appended) != 2 {
		t.Fatalf("expected batch of 2, got %d", len(sink.appended))
	}
}

func TestProcessPendingEmpty(t *testing.T) {
	w := NewExportWorker(&fakeStore{}, &fakeSink{}, 10)
	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("empty pending must not error: %v", err)
	}
}

// Package summary computes period totals over the record store.
//
// Every summary is a pure function of a point-in-time range query; nothing
// here holds an independent copy of the records or caches across queries.
package summary

import (
	"context"
	"fmt"
	"time"

	"notaspese/internal/core"
)

// RangeReader is the single store operation the aggregator consumes.
type RangeReader interface {
	GetByDateRange(ctx context.Context, start, end time.Time) ([]core.Expense, error)
}

// Service derives count/total summaries for today, this week, and this
// month. The reference time is injected so window logic stays
// deterministically testable.
type Service struct {
	store RangeReader
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the reference-time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store RangeReader, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// For returns the summary for the period window containing "now". An empty
// window yields zero total and zero count, never an error; storage failures
// always propagate.
func (s *Service) For(ctx context.Context, p core.Period) (core.Summary, error) {
	start, end := core.PeriodWindow(p, s.now())

	records, err := s.store.GetByDateRange(ctx, start, end)
	if err != nil {
		return core.Summary{}, fmt.Errorf("summary %s: %w", p, err)
	}

	sum := core.Summary{Period: p, Count: len(records)}
	for _, e := range records {
		sum.Total.Cents += e.Amount.Cents
	}
	return sum, nil
}

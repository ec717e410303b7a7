package extract

import (
	"context"
	"errors"
	"testing"

	"notaspese/internal/core"
)

type fakeGen struct {
	resp string
	err  error

	gotModel string
	gotMime  string
	gotData  []byte
}

func (f *fakeGen) Generate(_ context.Context, model, prompt, mimeType string, data []byte) (string, error) {
	f.gotModel = model
	f.gotMime = mimeType
	f.gotData = data
	return f.resp, f.err
}

func TestFallback(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"Spent $5.25 at Starbucks", 525},
		{"$7 parking", 700},
		{"paid 3.50 for the bus", 350},
		{"lunch 12", 1200},
		{"coffee with friends", 0},
		{"", 0},
	}
	for _, tc := range cases {
		c := Fallback(tc.in)
		if c.Amount.Cents != tc.cents {
			t.Fatalf("Fallback(%q) amount = %d, want %d", tc.in, c.Amount.Cents, tc.cents)
		}
		if c.Merchant != core.DefaultMerchant || c.Category != core.DefaultCategory {
			t.Fatalf("Fallback(%q) defaults not applied: %+v", tc.in, c)
		}
		if c.Description != tc.in {
			t.Fatalf("Fallback(%q) description = %q, want input verbatim", tc.in, c.Description)
		}
	}
}

func TestParseModelSuccess(t *testing.T) {
	gen := &fakeGen{resp: `{"amount": 5.25, "merchant": "Starbucks", "category": "food", "description": "Coffee at Starbucks"}`}
	x := NewTextExtractor(gen, "test-model")

	c, err := x.Parse(context.Background(), "Spent $5.25 at Starbucks")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Amount.Cents != 525 || c.Merchant != "Starbucks" || c.Category != "food" {
		t.Fatalf("unexpected candidate: %+v", c)
	}
	if gen.gotModel != "test-model" || gen.gotMime != "" {
		t.Fatalf("unexpected model call: model=%q mime=%q", gen.gotModel, gen.gotMime)
	}
}

func TestParseAppliesDefaultsForOmittedFields(t *testing.T) {
	gen := &fakeGen{resp: `{"amount": 9.99}`}
	x := NewTextExtractor(gen, "m")

	c, err := x.Parse(context.Background(), "nine ninety nine")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Merchant != core.DefaultMerchant {
		t.Fatalf("merchant = %q, want default", c.Merchant)
	}
	if c.Category != core.DefaultCategory {
		t.Fatalf("category = %q, want default", c.Category)
	}
	if c.Description != "nine ninety nine" {
		t.Fatalf("description = %q, want original input", c.Description)
	}
}

func TestParseStripsCodeFences(t *testing.T) {
	gen := &fakeGen{resp: "```json\n{\"amount\": 1.50, \"merchant\": \"M\", \"category\": \"food\", \"description\": \"d\"}\n```"}
	x := NewTextExtractor(gen, "m")

	c, err := x.Parse(context.Background(), "snack 1.50")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Amount.Cents != 150 {
		t.Fatalf("amount = %d, want 150", c.Amount.Cents)
	}
}

func TestParseFallsBackOnModelFailure(t *testing.T) {
	cases := []struct {
		name string
		gen  *fakeGen
	}{
		{"transport error", &fakeGen{err: errors.New("timeout")}},
		{"malformed json", &fakeGen{resp: "not json at all"}},
		{"missing amount", &fakeGen{resp: `{"merchant": "Starbucks"}`}},
		{"amount wrong type", &fakeGen{resp: `{"amount": "5.25"}`}},
	}
	for _, tc := range cases {
		x := NewTextExtractor(tc.gen, "m")
		c, err := x.Parse(context.Background(), "Spent $5.25 at Starbucks")
		if err != nil {
			t.Fatalf("%s: fallback must not error: %v", tc.name, err)
		}
		if c.Amount.Cents != 525 {
			t.Fatalf("%s: fallback amount = %d, want 525", tc.name, c.Amount.Cents)
		}
		if c.Merchant != core.DefaultMerchant || c.Category != core.DefaultCategory {
			t.Fatalf("%s: fallback defaults not applied: %+v", tc.name, c)
		}
		if c.Description != "Spent $5.25 at Starbucks" {
			t.Fatalf("%s: description = %q, want input verbatim", tc.name, c.Description)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	x := NewTextExtractor(&fakeGen{}, "m")
	if _, err := x.Parse(context.Background(), "   "); !errors.Is(err, core.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"notaspese/internal/core"
)

// amountPattern is the deterministic fallback: an optional leading $
// followed by digits, optionally followed by a dot and exactly two digits.
// First match wins, left to right.
var amountPattern = regexp.MustCompile(`\$?(\d+(?:\.\d{2})?)`)

// TextExtractor normalizes one free-text expense description into a single
// candidate. It never propagates model failures: any upstream or validation
// error falls through to the regex fallback.
type TextExtractor struct {
	gen   Generator
	model string
}

func NewTextExtractor(gen Generator, model string) *TextExtractor {
	return &TextExtractor{gen: gen, model: model}
}

// modelCandidate is the wire shape demanded from the model. Amount is a
// pointer so a missing or non-numeric amount is distinguishable and fails
// validation.
type modelCandidate struct {
	Amount      *float64 `json:"amount"`
	Merchant    string   `json:"merchant"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
}

// Parse extracts a candidate from the input text. The only error condition
// is structurally empty input; everything downstream degrades to the
// fallback.
func (x *TextExtractor) Parse(ctx context.Context, input string) (core.Candidate, error) {
	if strings.TrimSpace(input) == "" {
		return core.Candidate{}, core.ErrEmptyInput
	}

	raw, err := x.gen.Generate(ctx, x.model, textPrompt(core.Categories, input), "", nil)
	if err != nil {
		slog.WarnContext(ctx, "Text extraction model call failed, using fallback",
			"error", err, "model", x.model)
		return Fallback(input), nil
	}

	var mc modelCandidate
	if err := json.Unmarshal([]byte(cleanModelJSON(raw, '{', '}')), &mc); err != nil {
		slog.WarnContext(ctx, "Text extraction response unparseable, using fallback",
			"error", err, "model", x.model)
		return Fallback(input), nil
	}
	if mc.Amount == nil {
		slog.WarnContext(ctx, "Text extraction response missing amount, using fallback",
			"model", x.model)
		return Fallback(input), nil
	}

	cand := core.Candidate{
		Amount:      core.FromFloat(*mc.Amount),
		Merchant:    mc.Merchant,
		Category:    mc.Category,
		Description: mc.Description,
	}.WithDefaults(input)

	slog.DebugContext(ctx, "Text extraction succeeded",
		"amount_cents", cand.Amount.Cents,
		"merchant", cand.Merchant,
		"category", cand.Category)

	return cand, nil
}

// Fallback is the deterministic non-model recovery path: scan the input for
// the first dollar-like number and otherwise return zeros and defaults with
// the input preserved verbatim as the description.
func Fallback(input string) core.Candidate {
	var amount core.Money
	if m := amountPattern.FindStringSubmatch(input); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			amount = core.FromFloat(f)
		}
	}
	return core.Candidate{
		Amount:      amount,
		Merchant:    core.DefaultMerchant,
		Category:    core.DefaultCategory,
		Description: input,
	}
}

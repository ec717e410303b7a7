package extract

import (
	"context"
	"encoding/json"
	"log/slog"

	"notaspese/internal/core"
)

// ReceiptExtractor turns a receipt image into zero or more candidates, one
// per line item. There is no fallback: free-text heuristics do not
// generalize to receipts, so every failure collapses into an empty result.
// Callers must treat an empty slice as "nothing recognized", not as an
// error.
type ReceiptExtractor struct {
	gen   Generator
	model string
}

func NewReceiptExtractor(gen Generator, model string) *ReceiptExtractor {
	return &ReceiptExtractor{gen: gen, model: model}
}

// Parse submits the image inline to the vision model and keeps only entries
// with a positive numeric amount. Entries missing merchant, category or
// description pass through with those fields unset; the confirmation
// boundary resolves defaults per entry, not the extractor.
func (x *ReceiptExtractor) Parse(ctx context.Context, image []byte, mimeType string) []core.Candidate {
	raw, err := x.gen.Generate(ctx, x.model, receiptPrompt(core.Categories), mimeType, image)
	if err != nil {
		slog.ErrorContext(ctx, "Receipt extraction model call failed",
			"error", err, "model", x.model, "image_bytes", len(image))
		return nil
	}

	var entries []modelCandidate
	if err := json.Unmarshal([]byte(cleanModelJSON(raw, '[', ']')), &entries); err != nil {
		slog.ErrorContext(ctx, "Receipt extraction response is not a JSON array",
			"error", err, "model", x.model)
		return nil
	}

	out := make([]core.Candidate, 0, len(entries))
	for _, e := range entries {
		if e.Amount == nil || *e.Amount <= 0 {
			continue
		}
		out = append(out, core.Candidate{
			Amount:      core.FromFloat(*e.Amount),
			Merchant:    e.Merchant,
			Category:    e.Category,
			Description: e.Description,
		})
	}

	slog.InfoContext(ctx, "Receipt extraction finished",
		"entries", len(entries), "kept", len(out))

	return out
}

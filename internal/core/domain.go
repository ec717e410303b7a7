package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// DefaultMerchant is applied when extraction yields no merchant.
	DefaultMerchant = "Unknown"
	// DefaultCategory is applied when extraction yields no category.
	DefaultCategory = "other"
)

// Categories is the conventional category set offered to the model.
// The set is open: records carrying other labels are stored as-is.
var Categories = []string{
	"food", "transportation", "shopping", "entertainment",
	"utilities", "health", "other",
}

type (
	// Expense is a persisted expense record. ID and CreatedAt are assigned
	// by the store at insert time and never mutated afterwards.
	Expense struct {
		ID          string    `json:"id"`
		Amount      Money     `json:"amount"`
		Merchant    string    `json:"merchant"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// Candidate is an extracted, not-yet-confirmed expense proposal.
	// Merchant and Category stay empty until defaults are resolved at the
	// confirmation boundary.
	Candidate struct {
		Amount      Money  `json:"amount"`
		Merchant    string `json:"merchant,omitempty"`
		Category    string `json:"category,omitempty"`
		Description string `json:"description"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyInput    = errors.New("empty input")
	ErrUnknownPeriod = errors.New("unknown summary period")
)

// Validate checks whether the candidate may be confirmed into a record.
// Non-positive amounts are rejected here, not at the storage layer.
func (c Candidate) Validate() error {
	if c.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(c.Description) == "" {
		return ErrEmptyInput
	}
	return nil
}

// WithDefaults resolves omitted optional fields: merchant falls back to
// "Unknown", category to "other", description to the raw capture input.
func (c Candidate) WithDefaults(raw string) Candidate {
	if strings.TrimSpace(c.Merchant) == "" {
		c.Merchant = DefaultMerchant
	}
	if strings.TrimSpace(c.Category) == "" {
		c.Category = DefaultCategory
	}
	if strings.TrimSpace(c.Description) == "" {
		c.Description = raw
	}
	return c
}

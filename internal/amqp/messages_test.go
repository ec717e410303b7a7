package amqp

import (
	"testing"
	"time"
)

func TestExpenseRecordedMessageJSON(t *testing.T) {
	msg := &ExpenseRecordedMessage{
		ID:        "1750245600000abc",
		Version:   1,
		Timestamp: time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC),
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	parsed, err := ExpenseRecordedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if parsed.ID != msg.ID || parsed.Version != msg.Version || !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("round trip mismatch: %+v", parsed)
	}
}

func TestExpenseRecordedMessageInvalidJSON(t *testing.T) {
	if _, err := ExpenseRecordedMessageFromJSON([]byte(`{"version": "x"}`)); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}

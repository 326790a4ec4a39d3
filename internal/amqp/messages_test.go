package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerEventMessage(t *testing.T) {
	msg := NewLedgerEventMessage("abc-123", EventCreated, "2024-01-02")

	if msg.ID != "abc-123" {
		t.Errorf("ID = %v, want abc-123", msg.ID)
	}
	if msg.Kind != EventCreated {
		t.Errorf("Kind = %v, want %v", msg.Kind, EventCreated)
	}
	if msg.Date != "2024-01-02" {
		t.Errorf("Date = %v, want 2024-01-02", msg.Date)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestLedgerEventMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &LedgerEventMessage{
		ID:        "abc-123",
		Kind:      EventDeleted,
		Date:      "2024-01-02",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := LedgerEventMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("LedgerEventMessageFromJSON() error = %v", err)
	}

	if parsed.ID != msg.ID || parsed.Kind != msg.Kind || parsed.Date != msg.Date {
		t.Errorf("parsed message mismatch: %+v", parsed)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestLedgerEventMessage_InvalidJSON(t *testing.T) {
	if _, err := LedgerEventMessageFromJSON([]byte(`{"id": 42}`)); err == nil {
		t.Error("LedgerEventMessageFromJSON() should fail with invalid JSON")
	}
}

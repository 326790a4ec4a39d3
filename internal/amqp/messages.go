package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the ledger event bus.
const (
	EventCreated = "created"
	EventDeleted = "deleted"
)

// LedgerEventMessage is a lightweight change notification: just the
// transaction id, what happened, and the calendar date whose rollup bucket is
// now stale. The worker re-reads the ledger itself, so lost or reordered
// messages can never corrupt the rollup.
type LedgerEventMessage struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates a change notification for one transaction.
func NewLedgerEventMessage(id, kind, date string) *LedgerEventMessage {
	return &LedgerEventMessage{
		ID:        id,
		Kind:      kind,
		Date:      date,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

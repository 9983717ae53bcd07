package domain

import "time"

// Event types
const (
	EventTypeBatchExecuted     = "credit_account.batch_executed"
	EventTypeAccountCreated    = "credit_account.created"
	EventTypeAccountLiquidated = "credit_account.liquidated"
)

// Aggregate types
const (
	AggregateTypeCreditAccount = "credit_account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// Event is an attribute record emitted by a step.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewEvent builds an event from alternating key/value pairs.
func NewEvent(eventType string, kv ...string) Event {
	attrs := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs[kv[i]] = kv[i+1]
	}
	return Event{Type: eventType, Attributes: attrs}
}

// BatchExecutedEvent payload
type BatchExecutedEvent struct {
	BatchID   string  `json:"batch_id"`
	AccountID string  `json:"account_id"`
	Caller    string  `json:"caller"`
	Steps     int     `json:"steps"`
	Events    []Event `json:"events"`
}

// AccountLiquidatedEvent payload
type AccountLiquidatedEvent struct {
	BatchID    string `json:"batch_id"`
	Liquidator string `json:"liquidator"`
	Liquidatee string `json:"liquidatee"`
	DebtRepaid string `json:"debt_repaid"`
	Seized     string `json:"seized"`
}

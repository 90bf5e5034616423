package domain

import "time"

// Event types
const (
	EventTypeExpenseCreated    = "expense.created"
	EventTypeExpenseDeleted    = "expense.deleted"
	EventTypeSplitsReplaced    = "expense.splits_replaced"
	EventTypeSettlementCreated = "settlement.recorded"
)

// Aggregate types
const (
	AggregateTypeExpense    = "expense"
	AggregateTypeSettlement = "settlement"
)

// OutboxEvent represents a ledger change waiting to be published to the
// collaboration subsystems (notifications, recommendation refresh).
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

// ExpenseCreatedEvent payload
type ExpenseCreatedEvent struct {
	ExpenseID  string `json:"expense_id"`
	TripID     string `json:"trip_id"`
	PaidBy     string `json:"paid_by"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Policy     string `json:"policy"`
	SplitCount int    `json:"split_count"`
}

// ExpenseDeletedEvent payload
type ExpenseDeletedEvent struct {
	ExpenseID string `json:"expense_id"`
	TripID    string `json:"trip_id"`
}

// SettlementRecordedEvent payload
type SettlementRecordedEvent struct {
	SettlementID string `json:"settlement_id"`
	TripID       string `json:"trip_id"`
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
}

package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for ledger mutations.
type AuditLog struct {
	ID           string
	ActorID      string // member who performed the action
	TripID       string
	Action       string // expense.create, settlement.record, etc.
	ResourceType string
	ResourceID   string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionExpenseCreate    AuditAction = "expense.create"
	AuditActionExpenseDelete    AuditAction = "expense.delete"
	AuditActionSplitsReplace    AuditAction = "expense.splits_replace"
	AuditActionSettlementRecord AuditAction = "settlement.record"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

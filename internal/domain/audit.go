package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for a submitted batch
type AuditLog struct {
	ID           string
	Principal    string // Who submitted the batch
	Action       string // What entry point was used
	ResourceType string
	ResourceID   string // Credit account id
	RequestID    string // Request ID for tracing
	Request      JSON   // Submitted actions
	Status       string // success, failure
	ErrorClass   string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionExecute     AuditAction = "credit_account.execute"
	AuditActionExecuteStep AuditAction = "credit_account.execute_step"
	AuditActionCreate      AuditAction = "credit_account.create"
	AuditActionTransfer    AuditAction = "credit_account.transfer"
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

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	Principal  string
	Action     string
	ResourceID string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

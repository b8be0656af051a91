package expense

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsTerminal reports whether the status permits no further decisions.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type DecisionKind string

const (
	DecisionApprove DecisionKind = "APPROVE"
	DecisionReject  DecisionKind = "REJECT"
)

// Decision is one recorded verdict at a step. Multiple decisions by the same
// user may persist for audit; only the most recent per user counts toward the
// step's pass computation.
type Decision struct {
	UserID    string       `json:"user_id"`
	Decision  DecisionKind `json:"decision"`
	Comment   string       `json:"comment,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Step is one stage in the expense's approval chain.
type Step struct {
	Role      string     `json:"role"`
	Decisions []Decision `json:"decisions,omitempty"`
}

// Approvals is the expense's approval chain state. Steps is copied from the
// rule set at creation time and never changes afterwards; StepIndex values in
// [0, len(Steps)) mean awaiting decisions at that step, and StepIndex ==
// len(Steps) means the chain concluded.
type Approvals struct {
	Steps     []Step `json:"steps"`
	StepIndex int    `json:"step_index"`
}

// Concluded reports whether the cursor moved past the last step.
func (a Approvals) Concluded() bool {
	return a.StepIndex >= len(a.Steps)
}

// Current returns the active step, or nil once the chain concluded.
func (a *Approvals) Current() *Step {
	if a.Concluded() {
		return nil
	}
	return &a.Steps[a.StepIndex]
}

// HistoryEntry is one record in the append-only status audit log.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
	By        string    `json:"by,omitempty"`
}

type History []HistoryEntry

// Expense entity. Expenses are never deleted; History keeps every status
// transition for audit.
type Expense struct {
	ID          string
	OwnerID     string
	AmountMinor int64
	Currency    string
	Category    string
	Description string
	ReceiptRef  *string
	Date        time.Time
	Status      Status
	Approvals   Approvals
	History     History
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Value implements driver.Valuer for database storage
func (a Approvals) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Approvals) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan Approvals: invalid type")
	}

	return json.Unmarshal(bytes, a)
}

// Value implements driver.Valuer for database storage
func (h History) Value() (driver.Value, error) {
	if h == nil {
		return json.Marshal([]HistoryEntry{})
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner for database retrieval
func (h *History) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan History: invalid type")
	}

	return json.Unmarshal(bytes, h)
}

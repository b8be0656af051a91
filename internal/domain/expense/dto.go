package expense

import (
	"strings"

	"github.com/expensio/expense-backend-go/internal/pkg/validator"
)

// CreateExpenseRequest represents a request to submit a new expense
type CreateExpenseRequest struct {
	OwnerID     string  `json:"-"`
	AmountMinor int64   `json:"amount_minor"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ReceiptRef  *string `json:"receipt_ref,omitempty"`
	Date        string  `json:"date"`
}

func (r *CreateExpenseRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AmountMinor <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "amount_minor",
			Message: "amount must be positive",
		})
	}

	if validator.IsEmpty(r.Currency) {
		errs = append(errs, validator.ValidationError{
			Field:   "currency",
			Message: "currency is required",
		})
	} else if len(strings.TrimSpace(r.Currency)) != 3 {
		errs = append(errs, validator.ValidationError{
			Field:   "currency",
			Message: "currency must be a 3-letter code",
		})
	}

	if validator.IsEmpty(r.Category) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if !validator.IsValidDate(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SubmitDecisionRequest represents a decision on the expense's current step
type SubmitDecisionRequest struct {
	ExpenseID string `json:"-"`
	UserID    string `json:"-"`
	Decision  string `json:"decision"`
	Comment   string `json:"comment,omitempty"`
}

func (r *SubmitDecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	d := strings.ToUpper(strings.TrimSpace(r.Decision))
	if d != string(DecisionApprove) && d != string(DecisionReject) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be APPROVE or REJECT",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// OverrideRequest forces an expense to a terminal status
type OverrideRequest struct {
	ExpenseID string `json:"-"`
	AdminID   string `json:"-"`
	Status    string `json:"status"`
}

func (r *OverrideRequest) Validate() error {
	var errs validator.ValidationErrors

	s := strings.ToUpper(strings.TrimSpace(r.Status))
	if s != string(StatusApproved) && s != string(StatusRejected) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be APPROVED or REJECTED",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ExpenseResponse represents expense data in API responses
type ExpenseResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	ReceiptRef  *string   `json:"receipt_ref,omitempty"`
	Date        string    `json:"date"`
	Status      Status    `json:"status"`
	Approvals   Approvals `json:"approvals"`
	History     History   `json:"history"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// ToResponse converts an Expense entity into its API representation
func ToResponse(e Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		AmountMinor: e.AmountMinor,
		Currency:    e.Currency,
		Category:    e.Category,
		Description: e.Description,
		ReceiptRef:  e.ReceiptRef,
		Date:        e.Date.Format("2006-01-02"),
		Status:      e.Status,
		Approvals:   e.Approvals,
		History:     e.History,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   e.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

package expense

import "errors"

var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrNotPending          = errors.New("expense is not pending")
	ErrNoActiveStep        = errors.New("expense has no active approval step")
	ErrNotEligibleApprover = errors.New("user is not an eligible approver for the current step")
	ErrInvalidDecision     = errors.New("decision must be APPROVE or REJECT")
	ErrInvalidStatus       = errors.New("target status must be APPROVED or REJECTED")
)

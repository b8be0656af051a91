package rules

import "errors"

var (
	ErrInvalidRuleSet   = errors.New("rule set must contain at least one step")
	ErrInvalidThreshold = errors.New("percentage threshold must be between 1 and 100")
	ErrUnknownStepRole  = errors.New("rule set references an unknown role")
)

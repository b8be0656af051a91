package role

import "errors"

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrDuplicateRole     = errors.New("role already exists")
	ErrRoleNotRemovable  = errors.New("built-in roles cannot be removed")
	ErrInvalidRoleName   = errors.New("role name is empty after normalization")
	ErrCascadeIncomplete = errors.New("role removal cascade incomplete")
)

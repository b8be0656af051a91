package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailExists           = errors.New("email already registered")
	ErrManagerNotFound       = errors.New("manager reference does not exist")
	ErrInvalidRole           = errors.New("user references a role that does not exist")
	ErrAdminAccessRequired   = errors.New("admin privilege required")
	ErrSelfManagerAssignment = errors.New("user cannot be their own manager")
)

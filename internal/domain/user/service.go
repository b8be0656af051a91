package user

import "context"

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]UserResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (User, error)
	// Delete removes the user and clears the manager reference of every
	// user that reported to them.
	Delete(ctx context.Context, id string) error
}

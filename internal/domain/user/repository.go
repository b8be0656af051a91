package user

import "context"

// Repository - interface for the users collection
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	// ListByRole returns every user whose role set contains role.
	ListByRole(ctx context.Context, role string) ([]User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
	// ClearManagerRefs nils out ManagerID on every user that reports to managerID.
	ClearManagerRefs(ctx context.Context, managerID string) error
	// StripRole removes role from every user's role set.
	StripRole(ctx context.Context, role string) error
	// WithinTransaction runs fn with a context under which every repository
	// call joins one transaction; fn returning an error rolls it back.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

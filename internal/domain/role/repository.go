package role

import "context"

// Repository - interface for the custom role list
type Repository interface {
	List(ctx context.Context) ([]CustomRole, error)
	Add(ctx context.Context, r CustomRole) error
	Remove(ctx context.Context, name string) error
}

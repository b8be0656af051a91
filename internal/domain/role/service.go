package role

import "context"

type RegistryService interface {
	// List returns built-in roles followed by custom roles, deduplicated.
	List(ctx context.Context) ([]string, error)
	// Exists reports whether name resolves to a built-in or custom role.
	Exists(ctx context.Context, name string) (bool, error)
	AddCustom(ctx context.Context, name string) (string, error)
	// RemoveCustom deletes a custom role and cascades the removal into
	// every user's role set and the rule set configuration.
	RemoveCustom(ctx context.Context, name string) error
}

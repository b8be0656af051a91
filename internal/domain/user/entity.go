package user

import (
	"strings"
	"time"

	"github.com/expensio/expense-backend-go/internal/domain/role"
)

// User is an account known to the approval engine. Roles is a set of role
// names (order-irrelevant); ManagerID points at another user, or is nil.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	ManagerID    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user holds the given role. Role names are
// stored normalized, so the comparison is case-insensitive by construction.
func (u *User) HasRole(name string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, r := range u.Roles {
		if r == upper {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.HasRole(role.Admin)
}

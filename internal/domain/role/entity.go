package role

import (
	"strings"
	"time"
)

// Built-in roles. These always exist and can never be removed.
const (
	Employee = "EMPLOYEE"
	Manager  = "MANAGER"
	Finance  = "FINANCE"
	Director = "DIRECTOR"
	Admin    = "ADMIN"
	CFO      = "CFO"
)

// BuiltIn returns the fixed built-in role names, in canonical order.
func BuiltIn() []string {
	return []string{Employee, Manager, Finance, Director, Admin, CFO}
}

// IsBuiltIn reports whether name is one of the six built-in roles.
// The comparison is case-insensitive.
func IsBuiltIn(name string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, b := range BuiltIn() {
		if b == upper {
			return true
		}
	}
	return false
}

// Normalize converts an administrator-supplied role name into its canonical
// form: trimmed, uppercased, with everything outside [A-Z0-9_-] stripped.
// Returns "" when nothing usable remains.
func Normalize(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range upper {
		switch {
		case r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CustomRole is an administrator-defined role name.
type CustomRole struct {
	Name      string
	CreatedAt time.Time
}

package middleware

import (
	"net/http"

	"github.com/expensio/expense-backend-go/internal/domain/auth"
	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/domain/user"
	"github.com/expensio/expense-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AdminOnly requires the ADMIN role in the token's role claim.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !hasRoleClaim(claims, role.Admin) {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// hasRoleClaim checks the "roles" claim, which jwx decodes as []interface{}.
func hasRoleClaim(claims map[string]interface{}, want string) bool {
	raw, ok := claims["roles"].([]interface{})
	if !ok {
		return false
	}
	for _, r := range raw {
		if name, ok := r.(string); ok && name == want {
			return true
		}
	}
	return false
}

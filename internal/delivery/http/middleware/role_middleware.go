package middleware

import (
	"net/http"

	"glowcart-backend/internal/domain"
)

// RequireRole ensures the authenticated user holds one of the given roles.
// MUST be used AFTER AuthMiddleware. This is the server-side enforcement of
// the transition role table; hiding console buttons client-side is not a
// security boundary.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
			if !ok || user == nil {
				http.Error(w, "Unauthorized: No user found in context", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "Forbidden: Insufficient role", http.StatusForbidden)
		})
	}
}

// StaffOnly admits any back-office role. Used for read endpoints shared by
// the staff and admin consoles.
func StaffOnly(next http.Handler) http.Handler {
	return RequireRole(
		domain.RoleCustomerSupport,
		domain.RoleWarehouseStaff,
		domain.RoleFinanceAdmin,
		domain.RoleAdmin,
	)(next)
}

package handlers

import (
	"net/http"

	"github.com/Impulsible/eventease-planner/types"
)

// The policy checks below are pure: they answer "is this allowed" and leave
// writing the 403 to the calling handler. Authorization failures are always
// 403, never 401; by the time these run, the caller's identity is settled.

// HasRole reports whether the user's role is one of the allowed roles.
func HasRole(user types.User, allowed ...string) bool {
	for _, role := range allowed {
		if user.Role == role {
			return true
		}
	}
	return false
}

// IsOwner reports whether the user is the owner recorded on a resource.
func IsOwner(user types.User, ownerID string) bool {
	return user.ID != "" && user.ID == ownerID
}

// CanMutate reports whether the user may change a resource: owners may, and
// admins may regardless of ownership.
func CanMutate(user types.User, ownerID string) bool {
	return IsOwner(user, ownerID) || user.Role == types.RoleAdmin
}

// forbid writes the standard 403 response.
func forbid(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden, "You do not have permission to perform this action")
}

// requireRole gates a route on role membership. It assumes RequireAuth ran
// earlier in the chain.
func requireRole(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := identityFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			if !HasRole(user, allowed...) {
				forbid(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

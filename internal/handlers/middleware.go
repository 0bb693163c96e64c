package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Impulsible/eventease-planner/internal/auth"
	"github.com/Impulsible/eventease-planner/internal/services"
	"github.com/Impulsible/eventease-planner/internal/store"
)

// Authenticator resolves bearer tokens into live user records and attaches
// them to the request context. RequireAuth rejects requests it cannot
// authenticate; AttachIfPresent lets them through unauthenticated.
type Authenticator struct {
	users  *services.UserService
	tokens *auth.TokenService
}

func NewAuthenticator(users *services.UserService, tokens *auth.TokenService) *Authenticator {
	return &Authenticator{users: users, tokens: tokens}
}

// RequireAuth enforces authentication. Missing, invalid, or expired tokens
// and tokens whose subject no longer exists all yield 401; a store failure
// yields 500 rather than masquerading as bad credentials.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := extractToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		subject, _, err := a.tokens.Verify(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "Token has expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := a.users.GetByID(r.Context(), subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Deleting an account is the only way to revoke its
				// outstanding tokens, so a missing subject means the
				// token no longer authenticates anyone.
				writeError(w, http.StatusUnauthorized, "User not found")
				return
			}
			log.Printf("auth: resolve subject: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), user)))
	})
}

// AttachIfPresent resolves a token when one is supplied but never blocks the
// request: on any failure the request simply proceeds unauthenticated.
func (a *Authenticator) AttachIfPresent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := extractToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		subject, _, err := a.tokens.Verify(tokenString)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.users.GetByID(r.Context(), subject)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), user)))
	})
}

// extractToken pulls the bearer token from the Authorization header, then
// from the token cookie. Absence of both is not an error by itself.
func extractToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token := strings.TrimSpace(parts[1])
			if token != "" {
				return token, true
			}
		}
		return "", false
	}

	cookie, err := r.Cookie(auth.TokenCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return "", false
	}
	return cookie.Value, true
}

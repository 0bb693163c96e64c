package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Impulsible/eventease-planner/types"
)

var errInvalidPagination = errors.New("invalid pagination parameters")

type contextKey string

const contextIdentityKey contextKey = "identity"

// identityFromContext returns the authenticated user attached by the auth
// middleware, or false when the request is unauthenticated.
func identityFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextIdentityKey).(types.User)
	return user, ok
}

// withIdentity attaches the resolved user to the request context. The
// credential hash is stripped so it can never leak downstream.
func withIdentity(ctx context.Context, user types.User) context.Context {
	user.PasswordHash = ""
	return context.WithValue(ctx, contextIdentityKey, user)
}

// Envelope is the standard response wrapper: success responses carry data,
// failures carry a message.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: false, Message: message})
}

func parsePagination(r *http.Request) (page, limit, offset int, err error) {
	page = 1
	limit = 20

	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, 0, errInvalidPagination
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			return 0, 0, 0, errInvalidPagination
		}
	}
	return page, limit, (page - 1) * limit, nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Impulsible/eventease-planner/internal/services"
	"github.com/Impulsible/eventease-planner/internal/store"
	"github.com/Impulsible/eventease-planner/types"
)

// UserHandler provides profile and role management endpoints.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UserRouter registers user routes on the given router. All routes require
// authentication.
func UserRouter(r chi.Router, h *UserHandler, authn *Authenticator) {
	r.Use(authn.RequireAuth)
	r.Get("/{userID}", h.GetUser)
	r.Put("/{userID}", h.UpdateUser)
	r.With(requireRole(types.RoleAdmin)).Put("/{userID}/role", h.ChangeRole)
}

type UpdateUserRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	AvatarURL *string `json:"avatar_url"`
	Role      *string `json:"role"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("users: get: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateUser applies a partial profile update. Users may update themselves;
// admins may update anyone. The role field is honored only for admins.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	targetID := chi.URLParam(r, "userID")
	if !CanMutate(actor, targetID) {
		forbid(w)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetByID(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("users: load for update: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "Name must not be empty")
			return
		}
		user.Name = name
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid email address")
			return
		}
		user.Email = *req.Email
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("users: hash password: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		user.PasswordHash = string(hashed)
	}
	if req.Role != nil {
		// Role changes are never self-service.
		if actor.Role != types.RoleAdmin {
			forbid(w)
			return
		}
		if !types.ValidRole(*req.Role) {
			writeError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		user.Role = *req.Role
	}

	updated, err := h.users.Update(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			writeError(w, http.StatusBadRequest, "Email is already registered")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			log.Printf("users: update: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ChangeRole sets a user's role. Route-level gating already restricts this
// to admins.
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !types.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("users: load for role change: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	user.Role = req.Role
	updated, err := h.users.Update(r.Context(), user)
	if err != nil {
		log.Printf("users: change role: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

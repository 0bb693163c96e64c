package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Impulsible/eventease-planner/internal/services"
	"github.com/Impulsible/eventease-planner/internal/store"
	"github.com/Impulsible/eventease-planner/types"
)

// InvitationHandler provides HTTP handlers for invitations. Per-event
// routes are registered by EventRouter; InvitationRouter adds the
// guest-facing ones.
type InvitationHandler struct {
	events      *services.EventService
	users       *services.UserService
	invitations *services.InvitationService
}

func NewInvitationHandler(events *services.EventService, users *services.UserService, invitations *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{events: events, users: users, invitations: invitations}
}

// InvitationRouter registers the invitation routes that are not scoped to
// an event. All of them require authentication.
func InvitationRouter(r chi.Router, h *InvitationHandler, authn *Authenticator) {
	r.Use(authn.RequireAuth)
	r.Get("/", h.ListMine)
	r.Post("/{invitationID}/respond", h.Respond)
}

type InviteRequest struct {
	GuestID string `json:"guest_id"`
	Message string `json:"message"`
}

type InvitationResponseRequest struct {
	Accept bool `json:"accept"`
}

// Invite sends an invitation for the event. Only the event's organizer or
// an admin may invite guests.
func (h *InvitationHandler) Invite(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	event, err := h.events.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Printf("invitations: load event: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}
	if !CanMutate(actor, event.OrganizerID) {
		forbid(w)
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GuestID == "" {
		writeError(w, http.StatusBadRequest, "guest_id is required")
		return
	}
	if req.GuestID == actor.ID {
		writeError(w, http.StatusBadRequest, "You cannot invite yourself")
		return
	}

	guest, err := h.users.GetByID(r.Context(), req.GuestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Guest not found")
			return
		}
		log.Printf("invitations: load guest: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch guest")
		return
	}

	inv, err := h.invitations.Invite(r.Context(), event, actor.ID, guest.ID, req.Message)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Guest is already invited to this event")
			return
		}
		log.Printf("invitations: create: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to send invitation")
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// ListByEvent returns an event's invitations to its organizer or an admin.
func (h *InvitationHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	event, err := h.events.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Printf("invitations: load event: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}
	if !CanMutate(actor, event.OrganizerID) {
		forbid(w)
		return
	}

	invitations, err := h.invitations.ListByEvent(r.Context(), event.ID)
	if err != nil {
		log.Printf("invitations: list by event: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list invitations")
		return
	}
	if invitations == nil {
		invitations = []types.Invitation{}
	}
	writeJSON(w, http.StatusOK, invitations)
}

// ListMine returns invitations where the requester is the guest or the
// inviting organizer.
func (h *InvitationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	invitations, err := h.invitations.ListForUser(r.Context(), actor.ID)
	if err != nil {
		log.Printf("invitations: list mine: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list invitations")
		return
	}
	if invitations == nil {
		invitations = []types.Invitation{}
	}
	writeJSON(w, http.StatusOK, invitations)
}

// Respond records the invited guest's answer. Only the guest the invitation
// addresses may respond, admins included.
func (h *InvitationHandler) Respond(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var req InvitationResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inv, err := h.invitations.Respond(r.Context(), chi.URLParam(r, "invitationID"), actor.ID, req.Accept)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Invitation not found")
		case errors.Is(err, services.ErrNotInvited):
			forbid(w)
		default:
			log.Printf("invitations: respond: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to record response")
		}
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

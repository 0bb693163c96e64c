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

// RSVPHandler provides HTTP handlers for RSVPs. Its routes are registered
// by EventRouter under /events/{eventID}.
type RSVPHandler struct {
	events *services.EventService
	rsvps  *services.RSVPService
}

func NewRSVPHandler(events *services.EventService, rsvps *services.RSVPService) *RSVPHandler {
	return &RSVPHandler{events: events, rsvps: rsvps}
}

type RSVPRequest struct {
	Status string `json:"status"`
}

// Respond upserts the requester's own RSVP for the event. A user can only
// ever write their own answer.
func (h *RSVPHandler) Respond(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var req RSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !types.ValidRSVPStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Status must be going, maybe, or declined")
		return
	}

	event, err := h.events.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Printf("rsvps: load event: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}

	rsvp, err := h.rsvps.Respond(r.Context(), event.ID, actor.ID, req.Status)
	if err != nil {
		log.Printf("rsvps: respond: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to record RSVP")
		return
	}
	writeJSON(w, http.StatusOK, rsvp)
}

// ListByEvent returns the event's RSVPs. The organizer and admins see the
// full list; anyone else sees only their own answer.
func (h *RSVPHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
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
		log.Printf("rsvps: load event: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}

	if !CanMutate(actor, event.OrganizerID) {
		rsvp, err := h.rsvps.GetByEventAndUser(r.Context(), event.ID, actor.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusOK, []types.RSVP{})
				return
			}
			log.Printf("rsvps: own rsvp: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to list RSVPs")
			return
		}
		writeJSON(w, http.StatusOK, []types.RSVP{rsvp})
		return
	}

	rsvps, err := h.rsvps.ListByEvent(r.Context(), event.ID)
	if err != nil {
		log.Printf("rsvps: list: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list RSVPs")
		return
	}
	if rsvps == nil {
		rsvps = []types.RSVP{}
	}
	writeJSON(w, http.StatusOK, rsvps)
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Impulsible/eventease-planner/internal/services"
	"github.com/Impulsible/eventease-planner/internal/store"
	"github.com/Impulsible/eventease-planner/types"
)

const (
	maxCoverMemory = 8 << 20
	maxCoverBytes  = 16 << 20
	formFieldCover = "cover"
)

// EventHandler provides HTTP handlers for events.
type EventHandler struct {
	events      *services.EventService
	rsvps       *services.RSVPService
	invitations *services.InvitationService
}

func NewEventHandler(events *services.EventService, rsvps *services.RSVPService, invitations *services.InvitationService) *EventHandler {
	return &EventHandler{events: events, rsvps: rsvps, invitations: invitations}
}

// EventRouter registers event routes, along with the per-event RSVP and
// invitation routes, on the given router. Reads use optional authentication
// so responses can be personalized; mutations require it.
func EventRouter(r chi.Router, h *EventHandler, rsvps *RSVPHandler, invitations *InvitationHandler, authn *Authenticator) {
	r.With(authn.AttachIfPresent).Get("/", h.ListEvents)
	r.With(authn.RequireAuth).Post("/", h.CreateEvent)
	r.Route("/{eventID}", func(r chi.Router) {
		r.With(authn.AttachIfPresent).Get("/", h.GetEvent)
		r.With(authn.RequireAuth).Put("/", h.UpdateEvent)
		r.With(authn.RequireAuth).Delete("/", h.DeleteEvent)
		r.With(authn.AttachIfPresent).Get("/cover", h.GetCover)
		r.With(authn.RequireAuth).Put("/cover", h.UploadCover)
		r.With(authn.RequireAuth).Put("/rsvp", rsvps.Respond)
		r.With(authn.RequireAuth).Get("/rsvps", rsvps.ListByEvent)
		r.With(authn.RequireAuth).Post("/invitations", invitations.Invite)
		r.With(authn.RequireAuth).Get("/invitations", invitations.ListByEvent)
	})
}

type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Public      *bool     `json:"public"`
}

type EventListResponse struct {
	Items []types.Event `json:"items"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
}

// ListEvents returns the page of events the requester may see: public
// events for everyone, plus the viewer's own and invited private events.
// Authenticated viewers see their own RSVP status on each item.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	viewer, authenticated := identityFromContext(r.Context())

	items, total, err := h.events.List(r.Context(), offset, limit, viewer)
	if err != nil {
		log.Printf("events: list: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	if authenticated {
		for i := range items {
			items[i].ViewerRSVP = h.viewerRSVP(r, items[i].ID, viewer.ID)
		}
	}

	writeJSON(w, http.StatusOK, EventListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Printf("events: get: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}

	// Private events are indistinguishable from missing ones to anyone
	// who may not view them.
	if !h.canView(r, event) {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}

	if viewer, ok := identityFromContext(r.Context()); ok {
		event.ViewerRSVP = h.viewerRSVP(r, event.ID, viewer.ID)
	}
	writeJSON(w, http.StatusOK, event)
}

// CreateEvent creates an event owned by the requester. Any authenticated
// user may organize events.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	req, err := decodeEventRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	public := true
	if req.Public != nil {
		public = *req.Public
	}
	event, err := h.events.Create(r.Context(), types.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		OrganizerID: actor.ID,
		Public:      public,
	})
	if err != nil {
		log.Printf("events: create: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// UpdateEvent replaces the event's details. Only the organizer or an admin
// may mutate it.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.loadForMutation(w, r)
	if !ok {
		return
	}

	req, err := decodeEventRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location
	event.StartsAt = req.StartsAt
	event.EndsAt = req.EndsAt
	if req.Public != nil {
		event.Public = *req.Public
	}

	updated, err := h.events.Update(r.Context(), event)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Printf("events: update: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update event")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.loadForMutation(w, r)
	if !ok {
		return
	}

	if err := h.events.Delete(r.Context(), event.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Printf("events: delete: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
}

// UploadCover stores a cover image for the event via the configured object
// storage backend.
func (h *EventHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	if !h.events.MediaEnabled() {
		writeError(w, http.StatusNotImplemented, "Media uploads are not configured")
		return
	}

	event, _, ok := h.loadForMutation(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxCoverMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile(formFieldCover)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Cover file is required")
		return
	}
	defer file.Close()

	if header.Size > maxCoverBytes {
		writeError(w, http.StatusBadRequest, "Cover image too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "Cover must be an image")
		return
	}

	updated, err := h.events.UploadCover(r.Context(), event, file, header.Size, contentType)
	if err != nil {
		log.Printf("events: upload cover: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store cover image")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// GetCover streams the event's cover image from object storage.
func (h *EventHandler) GetCover(w http.ResponseWriter, r *http.Request) {
	if !h.events.MediaEnabled() {
		writeError(w, http.StatusNotImplemented, "Media uploads are not configured")
		return
	}

	event, err := h.events.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Printf("events: load for cover: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}
	if !h.canView(r, event) {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	if event.CoverImageKey == "" {
		writeError(w, http.StatusNotFound, "Event has no cover image")
		return
	}

	reader, err := h.events.OpenCover(r.Context(), event)
	if err != nil {
		log.Printf("events: open cover: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch cover image")
		return
	}
	defer reader.Close()

	if _, err := io.Copy(w, reader); err != nil {
		log.Printf("events: stream cover: %v", err)
	}
}

// loadForMutation fetches the event and runs the ownership check shared by
// all mutating routes.
func (h *EventHandler) loadForMutation(w http.ResponseWriter, r *http.Request) (types.Event, types.User, bool) {
	actor, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return types.Event{}, types.User{}, false
	}

	event, err := h.events.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return types.Event{}, types.User{}, false
		}
		log.Printf("events: load for mutation: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch event")
		return types.Event{}, types.User{}, false
	}

	if !CanMutate(actor, event.OrganizerID) {
		forbid(w)
		return types.Event{}, types.User{}, false
	}
	return event, actor, true
}

// canView reports whether the request's identity may see the event. Public
// events are visible to everyone; private events only to their organizer, an
// admin, or an invited guest.
func (h *EventHandler) canView(r *http.Request, event types.Event) bool {
	if event.Public {
		return true
	}
	viewer, ok := identityFromContext(r.Context())
	if !ok {
		return false
	}
	if CanMutate(viewer, event.OrganizerID) {
		return true
	}
	invited, err := h.invitations.IsInvited(r.Context(), event.ID, viewer.ID)
	if err != nil {
		log.Printf("events: check invitation: %v", err)
		return false
	}
	return invited
}

func (h *EventHandler) viewerRSVP(r *http.Request, eventID, userID string) string {
	rsvp, err := h.rsvps.GetByEventAndUser(r.Context(), eventID, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("events: viewer rsvp: %v", err)
		}
		return ""
	}
	return rsvp.Status
}

func decodeEventRequest(r *http.Request) (EventRequest, error) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return EventRequest{}, errors.New("request body is required")
		}
		return EventRequest{}, errors.New("invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return EventRequest{}, errors.New("title is required")
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return EventRequest{}, errors.New("starts_at and ends_at are required")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return EventRequest{}, errors.New("event must end after it starts")
	}
	return req, nil
}

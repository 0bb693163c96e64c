package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Impulsible/eventease-planner/internal/storage"
	"github.com/Impulsible/eventease-planner/types"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	List(ctx context.Context, offset, limit int, viewerID string, viewerIsAdmin bool) ([]types.Event, int, error)
	Get(ctx context.Context, id string) (types.Event, error)
	Create(ctx context.Context, event types.Event) (types.Event, error)
	Update(ctx context.Context, event types.Event) (types.Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService encapsulates event use-cases.
type EventService struct {
	repo  EventRepository
	media *storage.Storage
}

func NewEventService(repo EventRepository, media *storage.Storage) *EventService {
	return &EventService{repo: repo, media: media}
}

// List returns the page of events the viewer may see. viewer is the zero
// User for anonymous requests, which restricts the page to public events.
func (s *EventService) List(ctx context.Context, offset, limit int, viewer types.User) ([]types.Event, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, offset, limit, viewer.ID, viewer.Role == types.RoleAdmin)
}

func (s *EventService) Get(ctx context.Context, id string) (types.Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *EventService) Create(ctx context.Context, event types.Event) (types.Event, error) {
	if !event.EndsAt.After(event.StartsAt) {
		return types.Event{}, errors.New("event must end after it starts")
	}
	return s.repo.Create(ctx, event)
}

func (s *EventService) Update(ctx context.Context, event types.Event) (types.Event, error) {
	if !event.EndsAt.After(event.StartsAt) {
		return types.Event{}, errors.New("event must end after it starts")
	}
	return s.repo.Update(ctx, event)
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// MediaEnabled reports whether cover image uploads are configured.
func (s *EventService) MediaEnabled() bool {
	return s.media != nil
}

// OpenCover opens a reader for the event's stored cover image.
func (s *EventService) OpenCover(ctx context.Context, event types.Event) (io.ReadCloser, error) {
	if s.media == nil {
		return nil, errors.New("media storage is not configured")
	}
	return s.media.Get(ctx, event.CoverImageKey)
}

// UploadCover stores a cover image for the event and records its key.
func (s *EventService) UploadCover(ctx context.Context, event types.Event, r io.Reader, size int64, contentType string) (types.Event, error) {
	if s.media == nil {
		return types.Event{}, errors.New("media storage is not configured")
	}

	key := fmt.Sprintf("events/%s/cover-%d", event.ID, time.Now().Unix())
	if err := s.media.Put(ctx, key, r, size, contentType); err != nil {
		return types.Event{}, err
	}

	previous := event.CoverImageKey
	event.CoverImageKey = key
	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		_ = s.media.Delete(ctx, key)
		return types.Event{}, err
	}
	if previous != "" {
		_ = s.media.Delete(ctx, previous)
	}
	return updated, nil
}

package services

import (
	"context"
	"errors"

	"github.com/Impulsible/eventease-planner/types"
)

// RSVPRepository defines persistence operations for RSVPs.
type RSVPRepository interface {
	GetByEventAndUser(ctx context.Context, eventID, userID string) (types.RSVP, error)
	ListByEvent(ctx context.Context, eventID string) ([]types.RSVP, error)
	Upsert(ctx context.Context, rsvp types.RSVP) (types.RSVP, error)
	Delete(ctx context.Context, id string) error
}

// RSVPService encapsulates RSVP use-cases.
type RSVPService struct {
	repo     RSVPRepository
	notifier *Notifier
}

func NewRSVPService(repo RSVPRepository, notifier *Notifier) *RSVPService {
	return &RSVPService{repo: repo, notifier: notifier}
}

func (s *RSVPService) GetByEventAndUser(ctx context.Context, eventID, userID string) (types.RSVP, error) {
	return s.repo.GetByEventAndUser(ctx, eventID, userID)
}

func (s *RSVPService) ListByEvent(ctx context.Context, eventID string) ([]types.RSVP, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

// Respond records or replaces the user's attendance answer for the event.
func (s *RSVPService) Respond(ctx context.Context, eventID, userID, status string) (types.RSVP, error) {
	if !types.ValidRSVPStatus(status) {
		return types.RSVP{}, errors.New("invalid rsvp status")
	}

	rsvp, err := s.repo.Upsert(ctx, types.RSVP{
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	})
	if err != nil {
		return types.RSVP{}, err
	}

	s.notifier.RSVPChanged(ctx, rsvp)
	return rsvp, nil
}

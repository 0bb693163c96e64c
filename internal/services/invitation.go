package services

import (
	"context"
	"errors"

	"github.com/Impulsible/eventease-planner/internal/store"
	"github.com/Impulsible/eventease-planner/types"
)

// ErrNotInvited is returned when a user tries to answer an invitation
// addressed to somebody else.
var ErrNotInvited = errors.New("not the invited guest")

// InvitationRepository defines persistence operations for invitations.
type InvitationRepository interface {
	Get(ctx context.Context, id string) (types.Invitation, error)
	GetByEventAndGuest(ctx context.Context, eventID, guestID string) (types.Invitation, error)
	ListForUser(ctx context.Context, userID string) ([]types.Invitation, error)
	ListByEvent(ctx context.Context, eventID string) ([]types.Invitation, error)
	Create(ctx context.Context, inv types.Invitation) (types.Invitation, error)
	UpdateStatus(ctx context.Context, id, status string) (types.Invitation, error)
}

// InvitationService encapsulates invitation use-cases.
type InvitationService struct {
	repo     InvitationRepository
	rsvps    *RSVPService
	notifier *Notifier
}

func NewInvitationService(repo InvitationRepository, rsvps *RSVPService, notifier *Notifier) *InvitationService {
	return &InvitationService{repo: repo, rsvps: rsvps, notifier: notifier}
}

func (s *InvitationService) Get(ctx context.Context, id string) (types.Invitation, error) {
	return s.repo.Get(ctx, id)
}

func (s *InvitationService) ListForUser(ctx context.Context, userID string) ([]types.Invitation, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *InvitationService) ListByEvent(ctx context.Context, eventID string) ([]types.Invitation, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

// IsInvited reports whether the guest holds an invitation for the event,
// regardless of its status.
func (s *InvitationService) IsInvited(ctx context.Context, eventID, guestID string) (bool, error) {
	_, err := s.repo.GetByEventAndGuest(ctx, eventID, guestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Invite sends a pending invitation from the event's organizer to a guest.
func (s *InvitationService) Invite(ctx context.Context, event types.Event, organizerID, guestID, message string) (types.Invitation, error) {
	inv, err := s.repo.Create(ctx, types.Invitation{
		EventID:     event.ID,
		OrganizerID: organizerID,
		GuestID:     guestID,
		Message:     message,
		Status:      types.InvitationPending,
	})
	if err != nil {
		return types.Invitation{}, err
	}

	s.notifier.InvitationCreated(ctx, inv)
	return inv, nil
}

// Respond records the guest's answer. Accepting also upserts a "going"
// RSVP so attendance lists stay consistent.
func (s *InvitationService) Respond(ctx context.Context, id, guestID string, accept bool) (types.Invitation, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Invitation{}, err
	}
	if inv.GuestID != guestID {
		return types.Invitation{}, ErrNotInvited
	}

	status := types.InvitationDeclined
	if accept {
		status = types.InvitationAccepted
	}
	inv, err = s.repo.UpdateStatus(ctx, inv.ID, status)
	if err != nil {
		return types.Invitation{}, err
	}

	if accept && s.rsvps != nil {
		if _, err := s.rsvps.Respond(ctx, inv.EventID, guestID, types.RSVPGoing); err != nil {
			return types.Invitation{}, err
		}
	}

	s.notifier.InvitationAnswered(ctx, inv)
	return inv, nil
}

package types

import "time"

// Invitation statuses form a closed set.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

// Invitation is an organizer's request for a guest to attend an event.
// At most one invitation exists per (event, guest) pair.
type Invitation struct {
	// ID is the unique identifier of the invitation.
	ID string `json:"id" db:"id"`

	// EventID identifies the event the guest is invited to.
	EventID string `json:"event_id" db:"event_id"`

	// OrganizerID identifies the user who sent the invitation.
	OrganizerID string `json:"organizer_id" db:"organizer_id"`

	// GuestID identifies the invited user. Only the guest may respond.
	GuestID string `json:"guest_id" db:"guest_id"`

	// Message is an optional note from the organizer.
	Message string `json:"message,omitempty" db:"message"`

	// Status is the guest's answer, pending until they respond.
	Status string `json:"status" db:"status"`

	// CreatedAt is the timestamp when the invitation was sent.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent status change.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

package types

import "time"

// RSVP statuses form a closed set.
const (
	RSVPGoing    = "going"
	RSVPMaybe    = "maybe"
	RSVPDeclined = "declined"
)

// ValidRSVPStatus reports whether status belongs to the closed RSVP set.
func ValidRSVPStatus(status string) bool {
	switch status {
	case RSVPGoing, RSVPMaybe, RSVPDeclined:
		return true
	default:
		return false
	}
}

// RSVP records a user's attendance answer for an event.
// At most one RSVP exists per (event, user) pair.
type RSVP struct {
	// ID is the unique identifier of the RSVP.
	ID string `json:"id" db:"id"`

	// EventID identifies the event this RSVP answers.
	EventID string `json:"event_id" db:"event_id"`

	// UserID identifies the user who owns this RSVP. Only that user may
	// change it.
	UserID string `json:"user_id" db:"user_id"`

	// Status is the attendance answer.
	Status string `json:"status" db:"status"`

	// CreatedAt is the timestamp when the RSVP was first recorded.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent status change.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

package types

import "time"

// Event represents a planned event owned by its organizer.
type Event struct {
	// ID is the unique identifier of the event.
	ID string `json:"id" db:"id"`

	// Title is the event's headline.
	Title string `json:"title" db:"title"`

	// Description is free-form detail about the event.
	Description string `json:"description" db:"description"`

	// Location is where the event takes place.
	Location string `json:"location" db:"location"`

	// StartsAt and EndsAt bound the event in time.
	StartsAt time.Time `json:"starts_at" db:"starts_at"`
	EndsAt   time.Time `json:"ends_at" db:"ends_at"`

	// OrganizerID identifies the user who created and owns the event.
	// Only the organizer or an admin may mutate the event.
	OrganizerID string `json:"organizer_id" db:"organizer_id"`

	// Public marks the event as visible to unauthenticated viewers.
	Public bool `json:"public" db:"public"`

	// CoverImageKey is the object-storage key of the uploaded cover
	// image, empty when none has been uploaded.
	CoverImageKey string `json:"cover_image_key,omitempty" db:"cover_image_key"`

	// ViewerRSVP carries the requesting user's own RSVP status when the
	// listing was made by an authenticated viewer. Not persisted.
	ViewerRSVP string `json:"viewer_rsvp,omitempty" db:"-"`

	// CreatedAt is the timestamp when the event was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the event.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

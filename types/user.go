package types

import "time"

// Roles form a closed set. Every account has exactly one role; new accounts
// default to RoleGuest regardless of how they were created.
const (
	RoleGuest     = "guest"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleGuest, RoleOrganizer, RoleAdmin:
		return true
	default:
		return false
	}
}

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user, assigned at creation.
	ID string `json:"id" db:"id"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address, stored lowercased and unique.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password. Accounts
	// created through OAuth hold a random placeholder that never matches a
	// typed password. This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// GoogleID is the Google account subject this user is linked to,
	// empty when the account has no OAuth link. Unique when set.
	GoogleID string `json:"-" db:"google_id"`

	// Role indicates the user's authorization level within the system.
	Role string `json:"role" db:"role"`

	// Verified reports whether the user's email has been confirmed, either
	// directly or by a verified OAuth profile.
	Verified bool `json:"verified" db:"verified"`

	// AvatarURL points at the user's profile picture, if any.
	AvatarURL string `json:"avatar_url,omitempty" db:"avatar_url"`

	// LastLoginAt is the timestamp of the most recent successful
	// authentication, password or OAuth.
	LastLoginAt time.Time `json:"last_login_at" db:"last_login_at"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile gender values. An empty string means "not set".
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// ValidGender reports whether g is an accepted gender value.
func ValidGender(g string) bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Profile holds the optional attributes attached one-to-one to a user.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UpdatedAt time.Time `json:"updated_at"`

	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Gender      string     `json:"gender"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	City        string     `json:"city"`
	Country     string     `json:"country"`
}

// ProfileView is the response shape for GET /api/profile: the user's
// identity fields joined with the profile attributes.
type ProfileView struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD, empty when unset
	City        string `json:"city"`
	Country     string `json:"country"`
}

// ProfilePatch carries a partial profile update. Nil fields are left
// untouched; a pointer to an empty string clears the field.
type ProfilePatch struct {
	Email       *string `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Gender      *string `json:"gender"`
	DateOfBirth *string `json:"date_of_birth"` // YYYY-MM-DD, empty clears
	City        *string `json:"city"`
	Country     *string `json:"country"`
}

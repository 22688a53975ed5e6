package db

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmailTaken is returned when inserting a user whose email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// User represents a user account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"passwordSet" db:"password_set"`
	GoogleID     *string   `json:"-" db:"google_id"`
	Picture      string    `json:"profileImageUrl,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasGoogleAccount reports whether a Google identity is linked to the user.
func (u *User) HasGoogleAccount() bool {
	return u.GoogleID != nil && *u.GoogleID != ""
}

package practitioner

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is the appointment length in minutes used when none is
// given.
const DefaultDuration = 30

// Practitioner is the professional profile attached to a user account. The
// user is referenced by id only and may no longer exist.
type Practitioner struct {
	ID              uuid.UUID `json:"_id"`
	UserID          uuid.UUID `json:"user_id"`
	Specialty       string    `json:"specialty"`
	Title           string    `json:"title"`
	DefaultDuration int       `json:"default_duration"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Update holds the fields of a partial update; nil fields are left unchanged.
type Update struct {
	UserID          *uuid.UUID
	Specialty       *string
	Title           *string
	DefaultDuration *int
	Description     *string
}

// Filter narrows FindAll by equality on the set fields.
type Filter struct {
	Specialty string
}

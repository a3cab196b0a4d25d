package availability

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a window during which a practitioner accepts appointments. Exception
// slots mark time the practitioner is away and are never offered as free.
type Slot struct {
	ID             uuid.UUID `json:"_id"`
	PractitionerID uuid.UUID `json:"practitioner_id"`
	StartDatetime  time.Time `json:"start_datetime"`
	EndDatetime    time.Time `json:"end_datetime"`
	RecurrenceRule *string   `json:"recurrence_rule"`
	IsException    bool      `json:"is_exception"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Update holds the fields of a partial update. A non-nil empty
// RecurrenceRule clears the rule.
type Update struct {
	PractitionerID *uuid.UUID
	StartDatetime  *time.Time
	EndDatetime    *time.Time
	RecurrenceRule *string
	IsException    *bool
}

type Filter struct {
	PractitionerID *uuid.UUID
	IsException    *bool
}

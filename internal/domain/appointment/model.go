// Package appointment stores bookings between a patient and a practitioner.
// Bookings are not checked against availability slots or against each
// other: overlapping appointments are accepted.
package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

var statuses = []Status{StatusBooked, StatusConfirmed, StatusCancelled, StatusNoShow}

func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

// StatusValues lists the legal statuses in display order.
func StatusValues() []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

type Appointment struct {
	ID             uuid.UUID `json:"_id"`
	PatientID      uuid.UUID `json:"patient_id"`
	PractitionerID uuid.UUID `json:"practitioner_id"`
	StartDatetime  time.Time `json:"start_datetime"`
	EndDatetime    time.Time `json:"end_datetime"`
	Status         Status    `json:"status"`
	CreatedBy      uuid.UUID `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Update holds the fields of a partial update; nil fields are left unchanged.
type Update struct {
	PatientID      *uuid.UUID
	PractitionerID *uuid.UUID
	StartDatetime  *time.Time
	EndDatetime    *time.Time
	Status         *Status
	CreatedBy      *uuid.UUID
}

// Filter narrows list queries by equality on the set fields.
type Filter struct {
	Status         *Status
	PatientID      *uuid.UUID
	PractitionerID *uuid.UUID
}

package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type is the event a notification tells the patient about.
type Type string

const (
	TypeConfirmation Type = "confirmation"
	TypeReminder     Type = "reminder"
	TypeCancellation Type = "cancellation"
)

var types = []Type{TypeConfirmation, TypeReminder, TypeCancellation}

func (t Type) Valid() bool {
	for _, v := range types {
		if t == v {
			return true
		}
	}
	return false
}

func TypeValues() []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// Status is the delivery state. Failed notifications are never retried.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

var statuses = []Status{StatusPending, StatusSent, StatusFailed}

func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

func StatusValues() []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

type Notification struct {
	ID            uuid.UUID  `json:"_id"`
	AppointmentID uuid.UUID  `json:"appointment_id"`
	Type          Type       `json:"type"`
	Status        Status     `json:"status"`
	SentAt        *time.Time `json:"sent_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Update holds the fields of a partial update; nil fields are left unchanged.
type Update struct {
	AppointmentID *uuid.UUID
	Type          *Type
	Status        *Status
	SentAt        *time.Time
}

type Filter struct {
	Type   *Type
	Status *Status
}

// Package auditlog records who did what. Entries are append-only: there is no
// update operation.
package auditlog

import (
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	ID        uuid.UUID `json:"_id"`
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

type Filter struct {
	UserID *uuid.UUID
	Action string
}

package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) ([]*Notification, error)
	FindByStatus(ctx context.Context, status Status) ([]*Notification, error)
	FindPending(ctx context.Context) ([]*Notification, error)
	FindAll(ctx context.Context, f Filter) ([]*Notification, error)
	Update(ctx context.Context, id uuid.UUID, upd Update) (bool, error)
	// UpdateStatus sets status, and sent_at when sentAt is non-nil.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, sentAt *time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

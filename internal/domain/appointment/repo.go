package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	FindByPractitionerID(ctx context.Context, practitionerID uuid.UUID) ([]*Appointment, error)
	// FindByDateRange returns the appointments lying entirely inside
	// [from, to] that also match f.
	FindByDateRange(ctx context.Context, from, to time.Time, f Filter) ([]*Appointment, error)
	FindAll(ctx context.Context, f Filter) ([]*Appointment, error)
	Update(ctx context.Context, id uuid.UUID, upd Update) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

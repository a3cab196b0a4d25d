package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Slot) error
	FindByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	FindByPractitionerID(ctx context.Context, practitionerID uuid.UUID) ([]*Slot, error)
	// FindAvailable returns the non-exception slots lying entirely inside
	// [from, to].
	FindAvailable(ctx context.Context, practitionerID uuid.UUID, from, to time.Time) ([]*Slot, error)
	FindAll(ctx context.Context, f Filter) ([]*Slot, error)
	Update(ctx context.Context, id uuid.UUID, upd Update) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

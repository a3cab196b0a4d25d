package practitioner

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Practitioner) error
	FindByID(ctx context.Context, id uuid.UUID) (*Practitioner, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Practitioner, error)
	FindBySpecialty(ctx context.Context, specialty string) ([]*Practitioner, error)
	FindAll(ctx context.Context, f Filter) ([]*Practitioner, error)
	Update(ctx context.Context, id uuid.UUID, upd Update) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

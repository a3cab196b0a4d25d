package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists users. Lookups of a missing user return db.ErrNotFound
// and an email collision returns db.ErrDuplicate.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, f Filter) ([]*User, error)
	Update(ctx context.Context, id uuid.UUID, upd Update) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

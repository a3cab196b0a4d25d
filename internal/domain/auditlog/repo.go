package auditlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository lists entries newest first.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Entry, error)
	FindByAction(ctx context.Context, action string) ([]*Entry, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*Entry, error)
	FindAll(ctx context.Context, f Filter) ([]*Entry, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

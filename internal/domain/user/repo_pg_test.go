package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/medbook/booking/internal/platform/db"
	"github.com/medbook/booking/internal/platform/db/dbtest"
)

func TestRepoPG_CRUD(t *testing.T) {
	repo := NewRepoPG(dbtest.Pool(t))
	ctx := context.Background()

	u := &User{FirstName: "John", LastName: "Doe", Email: "john@x.com", HashedPassword: "hash", Role: RolePatient}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected created_at to be returned")
	}

	dup := &User{FirstName: "J", LastName: "D", Email: "john@x.com", HashedPassword: "h", Role: RolePatient}
	if err := repo.Create(ctx, dup); !errors.Is(err, db.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	got, err := repo.FindByEmail(ctx, "john@x.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("FindByEmail() = %v, %v", got, err)
	}

	phone := "555-0100"
	ok, err := repo.Update(ctx, u.ID, Update{Phone: &phone})
	if err != nil || !ok {
		t.Fatalf("Update() = %v, %v", ok, err)
	}
	got, _ = repo.FindByID(ctx, u.ID)
	if got.Phone != phone || got.UpdatedAt.Before(u.UpdatedAt) {
		t.Errorf("unexpected user after update: %+v", got)
	}

	bad := Role("wizard")
	if _, err := repo.Update(ctx, u.ID, Update{Role: &bad}); !errors.Is(err, db.ErrConstraint) {
		t.Errorf("expected ErrConstraint for invalid role, got %v", err)
	}

	list, err := repo.FindAll(ctx, Filter{Role: RolePatient})
	if err != nil || len(list) != 1 {
		t.Fatalf("FindAll() = %d users, %v", len(list), err)
	}

	ok, err = repo.Delete(ctx, u.ID)
	if err != nil || !ok {
		t.Fatalf("Delete() = %v, %v", ok, err)
	}
	if _, err := repo.FindByID(ctx, u.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if ok, _ := repo.Delete(ctx, uuid.New()); ok {
		t.Error("expected delete of unknown id to report false")
	}
}

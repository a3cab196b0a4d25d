package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/booking/internal/platform/db"
	"github.com/medbook/booking/internal/platform/db/dbtest"
)

func TestRepoPG_FindAvailable(t *testing.T) {
	repo := NewRepoPG(dbtest.Pool(t))
	ctx := context.Background()
	pid := uuid.New()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	open := &Slot{PractitionerID: pid, StartDatetime: day, EndDatetime: day.Add(3 * time.Hour)}
	away := &Slot{PractitionerID: pid, StartDatetime: day.Add(24 * time.Hour), EndDatetime: day.Add(27 * time.Hour), IsException: true}
	for _, s := range []*Slot{open, away} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	items, err := repo.FindAvailable(ctx, pid, day.Add(-time.Hour), day.Add(48*time.Hour))
	if err != nil || len(items) != 1 || items[0].ID != open.ID {
		t.Fatalf("FindAvailable() = %+v, %v", items, err)
	}

	late := day.Add(5 * time.Hour)
	if _, err := repo.Update(ctx, open.ID, Update{StartDatetime: &late}); !errors.Is(err, db.ErrConstraint) {
		t.Errorf("expected ErrConstraint for inverted slot, got %v", err)
	}

	rule := "FREQ=WEEKLY"
	if ok, err := repo.Update(ctx, open.ID, Update{RecurrenceRule: &rule}); err != nil || !ok {
		t.Fatalf("Update() = %v, %v", ok, err)
	}
	exc := true
	list, err := repo.FindAll(ctx, Filter{PractitionerID: &pid, IsException: &exc})
	if err != nil || len(list) != 1 || list[0].ID != away.ID {
		t.Errorf("FindAll() = %+v, %v", list, err)
	}

	if ok, _ := repo.Delete(ctx, away.ID); !ok {
		t.Error("expected delete to report true")
	}
	if _, err := repo.FindByID(ctx, away.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

package auditlog

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/booking/internal/platform/apierror"
	"github.com/medbook/booking/internal/platform/db"
	"github.com/medbook/booking/pkg/params"
)

// -- Mock Repository --

type mockAuditLogRepo struct {
	items map[uuid.UUID]*Entry
	clock time.Time
}

func newMockAuditLogRepo() *mockAuditLogRepo {
	return &mockAuditLogRepo{
		items: make(map[uuid.UUID]*Entry),
		clock: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

// Create stamps entries one minute apart so ordering is deterministic.
func (m *mockAuditLogRepo) Create(_ context.Context, e *Entry) error {
	e.ID = uuid.New()
	m.clock = m.clock.Add(time.Minute)
	e.Timestamp = m.clock
	cp := *e
	m.items[e.ID] = &cp
	return nil
}

func (m *mockAuditLogRepo) FindByID(_ context.Context, id uuid.UUID) (*Entry, error) {
	e, ok := m.items[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockAuditLogRepo) collect(match func(*Entry) bool) []*Entry {
	result := []*Entry{}
	for _, e := range m.items {
		if match(e) {
			cp := *e
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.After(result[j].Timestamp) })
	return result
}

func (m *mockAuditLogRepo) FindByUserID(_ context.Context, id uuid.UUID) ([]*Entry, error) {
	return m.collect(func(e *Entry) bool { return e.UserID == id }), nil
}

func (m *mockAuditLogRepo) FindByAction(_ context.Context, action string) ([]*Entry, error) {
	return m.collect(func(e *Entry) bool { return e.Action == action }), nil
}

func (m *mockAuditLogRepo) FindByDateRange(_ context.Context, from, to time.Time) ([]*Entry, error) {
	return m.collect(func(e *Entry) bool { return !e.Timestamp.Before(from) && !e.Timestamp.After(to) }), nil
}

func (m *mockAuditLogRepo) FindAll(_ context.Context, f Filter) ([]*Entry, error) {
	return m.collect(func(e *Entry) bool {
		if f.UserID != nil && e.UserID != *f.UserID {
			return false
		}
		return f.Action == "" || e.Action == f.Action
	}), nil
}

func (m *mockAuditLogRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func newTestService() *Service {
	return NewService(newMockAuditLogRepo())
}

// -- Tests --

func TestService_Create(t *testing.T) {
	svc := newTestService()
	e, err := svc.Create(context.Background(), CreateInput{UserID: uuid.New().String(), Action: "login"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if e.Details != "" || e.Timestamp.IsZero() {
		t.Errorf("unexpected entry: %+v", e)
	}

	_, err = svc.Create(context.Background(), CreateInput{Action: "login"})
	if _, msg := apierror.Resolve(err, false); msg != apierror.MsgMissingFields {
		t.Errorf("expected %q, got %q", apierror.MsgMissingFields, msg)
	}
	_, err = svc.Create(context.Background(), CreateInput{UserID: "u1", Action: "login"})
	if _, msg := apierror.Resolve(err, false); msg != "Invalid user_id" {
		t.Errorf("expected Invalid user_id, got %q", msg)
	}
}

func TestService_ListsNewestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	first, _ := svc.Create(ctx, CreateInput{UserID: userID.String(), Action: "login"})
	second, _ := svc.Create(ctx, CreateInput{UserID: userID.String(), Action: "book", Details: "appointment"})

	items, err := svc.ListByUser(ctx, userID.String())
	if err != nil || len(items) != 2 {
		t.Fatalf("ListByUser() = %d, %v", len(items), err)
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Error("expected entries ordered newest first")
	}

	rng := params.Range{From: first.Timestamp, To: first.Timestamp}
	items, err = svc.ListByDateRange(ctx, rng)
	if err != nil || len(items) != 1 || items[0].ID != first.ID {
		t.Errorf("ListByDateRange() = %+v, %v", items, err)
	}
}

func TestService_ScopedNotFound(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	svc.Create(ctx, CreateInput{UserID: uuid.New().String(), Action: "login"})

	tests := []struct {
		name string
		call func() error
		msg  string
	}{
		{"unknown user", func() error { _, err := svc.ListByUser(ctx, uuid.New().String()); return err }, msgNoneForUser},
		{"malformed user", func() error { _, err := svc.ListByUser(ctx, "bob"); return err }, msgNoneForUser},
		{"unknown action", func() error { _, err := svc.ListByAction(ctx, "logout"); return err }, "No audit logs found for action: logout"},
		{"empty range", func() error {
			from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
			_, err := svc.ListByDateRange(ctx, params.Range{From: from, To: from.Add(time.Hour)})
			return err
		}, msgNoneInRange},
	}
	for _, tt := range tests {
		status, msg := apierror.Resolve(tt.call(), false)
		if status != 404 || msg != tt.msg {
			t.Errorf("%s: expected 404 %q, got %d %q", tt.name, tt.msg, status, msg)
		}
	}

	items, err := svc.List(ctx, "", "logout")
	if err != nil || len(items) != 0 {
		t.Errorf("List(action=logout) = %d, %v", len(items), err)
	}
}

func TestService_Delete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	e, _ := svc.Create(ctx, CreateInput{UserID: uuid.New().String(), Action: "login"})

	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := svc.Get(ctx, e.ID); !apierror.IsKind(err, apierror.KindNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

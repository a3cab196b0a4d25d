package notification

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/booking/internal/platform/apierror"
	"github.com/medbook/booking/internal/platform/db"
)

// -- Mock Repository --

type mockNotificationRepo struct {
	items map[uuid.UUID]*Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{items: make(map[uuid.UUID]*Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *Notification) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	cp := *n
	m.items[n.ID] = &cp
	return nil
}

func (m *mockNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*Notification, error) {
	n, ok := m.items[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *mockNotificationRepo) collect(match func(*Notification) bool) []*Notification {
	result := []*Notification{}
	for _, n := range m.items {
		if match(n) {
			cp := *n
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}

func (m *mockNotificationRepo) FindByAppointmentID(_ context.Context, id uuid.UUID) ([]*Notification, error) {
	return m.collect(func(n *Notification) bool { return n.AppointmentID == id }), nil
}

func (m *mockNotificationRepo) FindByStatus(_ context.Context, status Status) ([]*Notification, error) {
	return m.collect(func(n *Notification) bool { return n.Status == status }), nil
}

func (m *mockNotificationRepo) FindPending(ctx context.Context) ([]*Notification, error) {
	return m.FindByStatus(ctx, StatusPending)
}

func (m *mockNotificationRepo) FindAll(_ context.Context, f Filter) ([]*Notification, error) {
	return m.collect(func(n *Notification) bool {
		if f.Type != nil && n.Type != *f.Type {
			return false
		}
		return f.Status == nil || n.Status == *f.Status
	}), nil
}

func (m *mockNotificationRepo) Update(_ context.Context, id uuid.UUID, upd Update) (bool, error) {
	n, ok := m.items[id]
	if !ok {
		return false, nil
	}
	if upd.AppointmentID != nil {
		n.AppointmentID = *upd.AppointmentID
	}
	if upd.Type != nil {
		n.Type = *upd.Type
	}
	if upd.Status != nil {
		n.Status = *upd.Status
	}
	if upd.SentAt != nil {
		at := *upd.SentAt
		n.SentAt = &at
	}
	n.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockNotificationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, sentAt *time.Time) (bool, error) {
	return m.Update(ctx, id, Update{Status: &status, SentAt: sentAt})
}

func (m *mockNotificationRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

var fixedNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockNotificationRepo) {
	repo := newMockNotificationRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func strPtr(s string) *string { return &s }

// -- Tests --

func TestService_Create(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	n, err := svc.Create(ctx, CreateInput{AppointmentID: uuid.New().String(), Type: "reminder"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if n.Status != StatusPending || n.SentAt != nil {
		t.Errorf("expected pending without sent_at, got %s %v", n.Status, n.SentAt)
	}

	sent, err := svc.Create(ctx, CreateInput{AppointmentID: uuid.New().String(), Type: "confirmation", Status: "sent"})
	if err != nil {
		t.Fatalf("Create(sent) error: %v", err)
	}
	if sent.SentAt == nil || !sent.SentAt.Equal(fixedNow) {
		t.Errorf("expected sent_at to be stamped, got %v", sent.SentAt)
	}
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   CreateInput
		msg  string
	}{
		{"missing type", CreateInput{AppointmentID: uuid.New().String()}, apierror.MsgMissingFields},
		{"bad appointment", CreateInput{AppointmentID: "x", Type: "reminder"}, "Invalid appointment_id"},
		{"bad type", CreateInput{AppointmentID: uuid.New().String(), Type: "sms"}, "Invalid type. Must be one of: confirmation, reminder, cancellation"},
		{"bad status", CreateInput{AppointmentID: uuid.New().String(), Type: "reminder", Status: "queued"}, "Invalid status. Must be one of: pending, sent, failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			_, err := svc.Create(context.Background(), tt.in)
			status, msg := apierror.Resolve(err, false)
			if status != 400 || msg != tt.msg {
				t.Errorf("expected 400 %q, got %d %q", tt.msg, status, msg)
			}
		})
	}
}

func TestService_UpdateStatus_SentAt(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	n, _ := svc.Create(ctx, CreateInput{AppointmentID: uuid.New().String(), Type: "reminder"})

	_, err := svc.UpdateStatus(ctx, n.ID, StatusInput{Status: "failed", SentAt: "2025-03-01T10:00:00Z"})
	if _, msg := apierror.Resolve(err, false); !apierror.IsKind(err, apierror.KindValidation) || msg != msgSentAtNotSent {
		t.Errorf("expected %q, got %v", msgSentAtNotSent, err)
	}

	failed, err := svc.UpdateStatus(ctx, n.ID, StatusInput{Status: "failed"})
	if err != nil {
		t.Fatalf("UpdateStatus(failed) error: %v", err)
	}
	if failed.SentAt != nil {
		t.Errorf("expected sent_at untouched for failed, got %v", failed.SentAt)
	}

	sent, err := svc.UpdateStatus(ctx, n.ID, StatusInput{Status: "sent"})
	if err != nil {
		t.Fatalf("UpdateStatus(sent) error: %v", err)
	}
	if sent.SentAt == nil || !sent.SentAt.Equal(fixedNow) {
		t.Errorf("expected sent_at = now, got %v", sent.SentAt)
	}

	explicit, err := svc.UpdateStatus(ctx, n.ID, StatusInput{Status: "sent", SentAt: "2025-03-09T18:30:00Z"})
	if err != nil {
		t.Fatalf("UpdateStatus(sent, sentAt) error: %v", err)
	}
	want := time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)
	if explicit.SentAt == nil || !explicit.SentAt.Equal(want) {
		t.Errorf("expected sent_at %v, got %v", want, explicit.SentAt)
	}

	if _, err := svc.UpdateStatus(ctx, n.ID, StatusInput{Status: "delivered"}); !apierror.IsKind(err, apierror.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, n.ID, StatusInput{Status: "sent", SentAt: "noon"}); !apierror.IsKind(err, apierror.KindValidation) {
		t.Errorf("expected validation error for sentAt, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, uuid.New(), StatusInput{Status: "sent"}); !apierror.IsKind(err, apierror.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestService_Update(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	n, _ := svc.Create(ctx, CreateInput{AppointmentID: uuid.New().String(), Type: "reminder"})

	got, err := svc.Update(ctx, n.ID, UpdateInput{Type: strPtr("cancellation"), Status: strPtr("sent")})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if got.Type != TypeCancellation || got.SentAt == nil {
		t.Errorf("unexpected notification after update: %+v", got)
	}
	if _, err := svc.Update(ctx, n.ID, UpdateInput{Type: strPtr("fax")}); !apierror.IsKind(err, apierror.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestService_Update_SentAtRequiresSent(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	n, _ := svc.Create(ctx, CreateInput{AppointmentID: uuid.New().String(), Type: "reminder"})

	tests := []struct {
		name string
		in   UpdateInput
	}{
		{"pending", UpdateInput{Status: strPtr("pending"), SentAt: strPtr("2025-01-01T00:00:00Z")}},
		{"failed", UpdateInput{Status: strPtr("failed"), SentAt: strPtr("2025-01-01T00:00:00Z")}},
		{"stored status pending", UpdateInput{SentAt: strPtr("2025-01-01T00:00:00Z")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, n.ID, tt.in)
			assertValidation(t, err, msgSentAtNotSent)
			if stored := repo.items[n.ID]; stored.SentAt != nil || stored.Status != StatusPending {
				t.Errorf("expected notification untouched, got %+v", stored)
			}
		})
	}

	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sent, err := svc.Update(ctx, n.ID, UpdateInput{Status: strPtr("sent"), SentAt: strPtr("2025-01-01T00:00:00Z")})
	if err != nil {
		t.Fatalf("Update(sent, sent_at) error: %v", err)
	}
	if sent.SentAt == nil || !sent.SentAt.Equal(want) {
		t.Errorf("expected sent_at %v, got %v", want, sent.SentAt)
	}

	// Once sent, the delivery time alone may be corrected.
	corrected := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	got, err := svc.Update(ctx, n.ID, UpdateInput{SentAt: strPtr("2025-01-02T09:00:00Z")})
	if err != nil {
		t.Fatalf("Update(sent_at) error: %v", err)
	}
	if got.SentAt == nil || !got.SentAt.Equal(corrected) {
		t.Errorf("expected sent_at %v, got %v", corrected, got.SentAt)
	}

	if _, err := svc.Update(ctx, uuid.New(), UpdateInput{SentAt: strPtr("2025-01-01T00:00:00Z")}); !apierror.IsKind(err, apierror.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func assertValidation(t *testing.T, err error, want string) {
	t.Helper()
	if !apierror.IsKind(err, apierror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, msg := apierror.Resolve(err, false); msg != want {
		t.Errorf("expected %q, got %q", want, msg)
	}
}

func TestService_ScopedLists(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	appt := uuid.New()
	svc.Create(ctx, CreateInput{AppointmentID: appt.String(), Type: "confirmation"})

	if items, err := svc.ListPending(ctx); err != nil || len(items) != 1 {
		t.Fatalf("ListPending() = %d, %v", len(items), err)
	}
	if items, err := svc.ListByAppointment(ctx, appt.String()); err != nil || len(items) != 1 {
		t.Fatalf("ListByAppointment() = %d, %v", len(items), err)
	}

	tests := []struct {
		name string
		call func() error
		msg  string
	}{
		{"by status", func() error { _, err := svc.ListByStatus(ctx, "failed"); return err }, "No notifications found with status: failed"},
		{"by appointment", func() error { _, err := svc.ListByAppointment(ctx, uuid.New().String()); return err }, msgNoneForAppt},
		{"bad status", func() error { _, err := svc.ListByStatus(ctx, "lost"); return err }, "Invalid status. Must be one of: pending, sent, failed"},
	}
	for _, tt := range tests {
		_, msg := apierror.Resolve(tt.call(), false)
		if msg != tt.msg {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.msg, msg)
		}
	}

	items, err := svc.List(ctx, "reminder", "")
	if err != nil || len(items) != 0 {
		t.Errorf("List(type=reminder) = %d, %v", len(items), err)
	}
}

func TestService_Delete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	n, _ := svc.Create(ctx, CreateInput{AppointmentID: uuid.New().String(), Type: "reminder"})

	if err := svc.Delete(ctx, n.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := svc.Delete(ctx, n.ID); !apierror.IsKind(err, apierror.KindNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

package availability

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

type mockSlotRepo struct {
	items map[uuid.UUID]*Slot
}

func newMockSlotRepo() *mockSlotRepo {
	return &mockSlotRepo{items: make(map[uuid.UUID]*Slot)}
}

func (m *mockSlotRepo) Create(_ context.Context, s *Slot) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

func (m *mockSlotRepo) FindByID(_ context.Context, id uuid.UUID) (*Slot, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSlotRepo) collect(match func(*Slot) bool) []*Slot {
	result := []*Slot{}
	for _, s := range m.items {
		if match(s) {
			cp := *s
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDatetime.Before(result[j].StartDatetime) })
	return result
}

func (m *mockSlotRepo) FindByPractitionerID(_ context.Context, practitionerID uuid.UUID) ([]*Slot, error) {
	return m.collect(func(s *Slot) bool { return s.PractitionerID == practitionerID }), nil
}

func (m *mockSlotRepo) FindAvailable(_ context.Context, practitionerID uuid.UUID, from, to time.Time) ([]*Slot, error) {
	rng := params.Range{From: from, To: to}
	return m.collect(func(s *Slot) bool {
		return s.PractitionerID == practitionerID && !s.IsException && rng.Contains(s.StartDatetime, s.EndDatetime)
	}), nil
}

func (m *mockSlotRepo) FindAll(_ context.Context, f Filter) ([]*Slot, error) {
	return m.collect(func(s *Slot) bool {
		if f.PractitionerID != nil && s.PractitionerID != *f.PractitionerID {
			return false
		}
		return f.IsException == nil || s.IsException == *f.IsException
	}), nil
}

func (m *mockSlotRepo) Update(_ context.Context, id uuid.UUID, upd Update) (bool, error) {
	s, ok := m.items[id]
	if !ok {
		return false, nil
	}
	next := *s
	if upd.PractitionerID != nil {
		next.PractitionerID = *upd.PractitionerID
	}
	if upd.StartDatetime != nil {
		next.StartDatetime = *upd.StartDatetime
	}
	if upd.EndDatetime != nil {
		next.EndDatetime = *upd.EndDatetime
	}
	if upd.RecurrenceRule != nil {
		next.RecurrenceRule = upd.RecurrenceRule
		if *upd.RecurrenceRule == "" {
			next.RecurrenceRule = nil
		}
	}
	if upd.IsException != nil {
		next.IsException = *upd.IsException
	}
	if !next.StartDatetime.Before(next.EndDatetime) {
		return false, &db.ConstraintError{Constraint: "availability_slots_time_order"}
	}
	next.UpdatedAt = time.Now()
	m.items[id] = &next
	return true, nil
}

func (m *mockSlotRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func newTestService() *Service {
	return NewService(newMockSlotRepo())
}

func strPtr(s string) *string { return &s }

func createSlot(t *testing.T, svc *Service, practitionerID uuid.UUID, start, end string, exception bool) *Slot {
	t.Helper()
	s, err := svc.Create(context.Background(), CreateInput{
		PractitionerID: practitionerID.String(), StartDatetime: start, EndDatetime: end, IsException: exception,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return s
}

// -- Tests --

func TestService_Create(t *testing.T) {
	svc := newTestService()
	pid := uuid.New()
	s := createSlot(t, svc, pid, "2025-03-10T09:00:00Z", "2025-03-10T12:00:00Z", false)

	if s.RecurrenceRule != nil {
		t.Errorf("expected nil recurrence rule, got %v", *s.RecurrenceRule)
	}
	if s.IsException {
		t.Error("expected is_exception to default to false")
	}
	got, err := svc.Get(context.Background(), s.ID)
	if err != nil || !got.StartDatetime.Equal(s.StartDatetime) {
		t.Fatalf("Get() = %+v, %v", got, err)
	}
}

func TestService_Create_Validation(t *testing.T) {
	pid := uuid.New().String()
	tests := []struct {
		name string
		in   CreateInput
		msg  string
	}{
		{"missing end", CreateInput{PractitionerID: pid, StartDatetime: "2025-03-10T09:00:00Z"}, apierror.MsgMissingFields},
		{"bad practitioner", CreateInput{PractitionerID: "abc", StartDatetime: "2025-03-10", EndDatetime: "2025-03-11"}, "Invalid practitioner_id"},
		{"bad start", CreateInput{PractitionerID: pid, StartDatetime: "tomorrow", EndDatetime: "2025-03-11"}, "Invalid start_datetime"},
		{"end before start", CreateInput{PractitionerID: pid, StartDatetime: "2025-03-10T12:00:00Z", EndDatetime: "2025-03-10T09:00:00Z"}, apierror.MsgTimeOrder},
		{"equal bounds", CreateInput{PractitionerID: pid, StartDatetime: "2025-03-10T09:00:00Z", EndDatetime: "2025-03-10T09:00:00Z"}, apierror.MsgTimeOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService().Create(context.Background(), tt.in)
			status, msg := apierror.Resolve(err, false)
			if status != 400 || msg != tt.msg {
				t.Errorf("expected 400 %q, got %d %q", tt.msg, status, msg)
			}
		})
	}
}

func TestService_ListAvailable(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	pid := uuid.New()
	inside := createSlot(t, svc, pid, "2025-03-10T09:00:00Z", "2025-03-10T12:00:00Z", false)
	createSlot(t, svc, pid, "2025-03-11T09:00:00Z", "2025-03-11T12:00:00Z", true)
	createSlot(t, svc, pid, "2025-03-20T09:00:00Z", "2025-03-20T12:00:00Z", false)
	createSlot(t, svc, uuid.New(), "2025-03-10T09:00:00Z", "2025-03-10T12:00:00Z", false)

	from, _ := params.ParseTime("2025-03-10")
	to, _ := params.ParseTime("2025-03-15")
	items, err := svc.ListAvailable(ctx, pid.String(), params.Range{From: from, To: to})
	if err != nil {
		t.Fatalf("ListAvailable() error: %v", err)
	}
	if len(items) != 1 || items[0].ID != inside.ID {
		t.Errorf("expected only the non-exception slot inside the range, got %+v", items)
	}

	_, err = svc.ListAvailable(ctx, uuid.New().String(), params.Range{From: from, To: to})
	if !apierror.IsKind(err, apierror.KindNotFound) {
		t.Errorf("expected not found for practitioner without slots, got %v", err)
	}
}

func TestService_ListByPractitioner(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	pid := uuid.New()
	createSlot(t, svc, pid, "2025-03-10T09:00:00Z", "2025-03-10T12:00:00Z", false)
	createSlot(t, svc, pid, "2025-03-11T09:00:00Z", "2025-03-11T12:00:00Z", true)

	items, err := svc.ListByPractitioner(ctx, pid.String())
	if err != nil || len(items) != 2 {
		t.Fatalf("ListByPractitioner() = %d, %v", len(items), err)
	}
	for _, raw := range []string{uuid.New().String(), "nope"} {
		_, err := svc.ListByPractitioner(ctx, raw)
		if _, msg := apierror.Resolve(err, false); msg != msgNoneForPract {
			t.Errorf("ListByPractitioner(%q): expected %q, got %q", raw, msgNoneForPract, msg)
		}
	}

	items, err = svc.List(ctx, pid.String(), "true")
	if err != nil || len(items) != 1 || !items[0].IsException {
		t.Errorf("List(is_exception=true) = %+v, %v", items, err)
	}
	if _, err := svc.List(ctx, "", "maybe"); !apierror.IsKind(err, apierror.KindValidation) {
		t.Errorf("expected validation error for is_exception=maybe, got %v", err)
	}
}

func TestService_Update_TimeOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	s := createSlot(t, svc, uuid.New(), "2025-03-10T09:00:00Z", "2025-03-10T12:00:00Z", false)

	// Both bounds inverted in the body.
	_, err := svc.Update(ctx, s.ID, UpdateInput{
		StartDatetime: strPtr("2025-03-10T15:00:00Z"), EndDatetime: strPtr("2025-03-10T14:00:00Z"),
	})
	if _, msg := apierror.Resolve(err, false); msg != apierror.MsgTimeOrder {
		t.Errorf("expected %q, got %q", apierror.MsgTimeOrder, msg)
	}

	// A single bound past the stored end trips the storage constraint.
	_, err = svc.Update(ctx, s.ID, UpdateInput{StartDatetime: strPtr("2025-03-10T13:00:00Z")})
	status, msg := apierror.Resolve(err, false)
	if status != 400 || msg != apierror.MsgTimeOrder {
		t.Errorf("expected 400 %q, got %d %q", apierror.MsgTimeOrder, status, msg)
	}

	updated, err := svc.Update(ctx, s.ID, UpdateInput{RecurrenceRule: strPtr("FREQ=WEEKLY;BYDAY=MO")})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.RecurrenceRule == nil || *updated.RecurrenceRule != "FREQ=WEEKLY;BYDAY=MO" {
		t.Errorf("expected recurrence rule to be set, got %v", updated.RecurrenceRule)
	}
}

func TestService_Delete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	s := createSlot(t, svc, uuid.New(), "2025-03-10T09:00:00Z", "2025-03-10T12:00:00Z", false)

	if err := svc.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := svc.Get(ctx, s.ID); !apierror.IsKind(err, apierror.KindNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(ctx, s.ID); !apierror.IsKind(err, apierror.KindNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

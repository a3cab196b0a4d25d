package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/booking/internal/platform/apierror"
	"github.com/medbook/booking/pkg/params"
)

const (
	msgNotFound          = "Notification not found"
	msgNoneForAppt       = "No notifications found for this appointment"
	msgNonePending       = "No pending notifications"
	msgNoneWithStatusFmt = "No notifications found with status: %s"
	msgSentAtNotSent     = "sent_at can only be set when status is sent"
)

// CreateInput is the body of POST /api/notifications. Status defaults to
// pending.
type CreateInput struct {
	AppointmentID string `json:"appointment_id"`
	Type          string `json:"type"`
	Status        string `json:"status"`
}

type UpdateInput struct {
	AppointmentID *string `json:"appointment_id"`
	Type          *string `json:"type"`
	Status        *string `json:"status"`
	SentAt        *string `json:"sent_at"`
}

// StatusInput is the body of PATCH /api/notifications/:id/status.
type StatusInput struct {
	Status string `json:"status"`
	SentAt string `json:"sentAt"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func parseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", apierror.InvalidEnum("type", TypeValues())
	}
	return t, nil
}

func parseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", apierror.InvalidEnum("status", StatusValues())
	}
	return st, nil
}

// sentAt resolves the delivery time recorded with status: the given time, or
// now, when status is sent; nil otherwise.
func (s *Service) sentAt(status Status, given *time.Time) *time.Time {
	if status != StatusSent {
		return nil
	}
	if given != nil {
		return given
	}
	now := s.now()
	return &now
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Notification, error) {
	if in.AppointmentID == "" || in.Type == "" {
		return nil, apierror.Validation(apierror.MsgMissingFields)
	}
	appointmentID, ok := params.UUID(in.AppointmentID)
	if !ok {
		return nil, apierror.InvalidField("appointment_id")
	}
	typ, err := parseType(in.Type)
	if err != nil {
		return nil, err
	}
	status := StatusPending
	if in.Status != "" {
		if status, err = parseStatus(in.Status); err != nil {
			return nil, err
		}
	}

	n := &Notification{
		AppointmentID: appointmentID,
		Type:          typ,
		Status:        status,
		SentAt:        s.sentAt(status, nil),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return n, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return n, nil
}

// List returns the notifications matching the optional type and status
// query filters.
func (s *Service) List(ctx context.Context, rawType, rawStatus string) ([]*Notification, error) {
	var f Filter
	if rawType != "" {
		t, err := parseType(rawType)
		if err != nil {
			return nil, err
		}
		f.Type = &t
	}
	if rawStatus != "" {
		st, err := parseStatus(rawStatus)
		if err != nil {
			return nil, err
		}
		f.Status = &st
	}
	items, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (s *Service) ListByAppointment(ctx context.Context, rawAppointmentID string) ([]*Notification, error) {
	appointmentID, ok := params.UUID(rawAppointmentID)
	if !ok {
		return nil, apierror.NotFound(msgNoneForAppt)
	}
	items, err := s.repo.FindByAppointmentID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("list notifications by appointment: %w", err)
	}
	if len(items) == 0 {
		return nil, apierror.NotFound(msgNoneForAppt)
	}
	return items, nil
}

func (s *Service) ListByStatus(ctx context.Context, rawStatus string) ([]*Notification, error) {
	status, err := parseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list notifications by status: %w", err)
	}
	if len(items) == 0 {
		return nil, apierror.NotFound(fmt.Sprintf(msgNoneWithStatusFmt, status))
	}
	return items, nil
}

func (s *Service) ListPending(ctx context.Context) ([]*Notification, error) {
	items, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending notifications: %w", err)
	}
	if len(items) == 0 {
		return nil, apierror.NotFound(msgNonePending)
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Notification, error) {
	var upd Update
	if in.AppointmentID != nil {
		if strings.TrimSpace(*in.AppointmentID) == "" {
			return nil, apierror.Validation(apierror.MsgMissingFields)
		}
		aid, ok := params.UUID(*in.AppointmentID)
		if !ok {
			return nil, apierror.InvalidField("appointment_id")
		}
		upd.AppointmentID = &aid
	}
	if in.Type != nil {
		t, err := parseType(*in.Type)
		if err != nil {
			return nil, err
		}
		upd.Type = &t
	}
	var given *time.Time
	if in.SentAt != nil {
		t, err := params.ParseTime(*in.SentAt)
		if err != nil {
			return nil, apierror.InvalidField("sent_at")
		}
		given = &t
	}
	if in.Status != nil {
		st, err := parseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		upd.Status = &st
	}

	if given != nil {
		status := upd.Status
		if status == nil {
			cur, err := s.repo.FindByID(ctx, id)
			if err != nil {
				return nil, apierror.FromStorage(err, msgNotFound)
			}
			status = &cur.Status
		}
		if *status != StatusSent {
			return nil, apierror.Validation(msgSentAtNotSent)
		}
		upd.SentAt = given
	} else if upd.Status != nil {
		upd.SentAt = s.sentAt(*upd.Status, nil)
	}

	ok, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	if !ok {
		return nil, apierror.NotFound(msgNotFound)
	}
	return s.Get(ctx, id)
}

// UpdateStatus records a delivery outcome. sent_at is written only when the
// new status is sent, using in.SentAt when given; a sentAt with any other
// status is rejected.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, in StatusInput) (*Notification, error) {
	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	var given *time.Time
	if in.SentAt != "" {
		t, err := params.ParseTime(in.SentAt)
		if err != nil {
			return nil, apierror.InvalidField("sentAt")
		}
		if status != StatusSent {
			return nil, apierror.Validation(msgSentAtNotSent)
		}
		given = &t
	}

	ok, err := s.repo.UpdateStatus(ctx, id, status, s.sentAt(status, given))
	if err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	if !ok {
		return nil, apierror.NotFound(msgNotFound)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	return nil
}

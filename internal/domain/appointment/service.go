package appointment

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
	msgNotFound       = "Appointment not found"
	msgNoneForPatient = "No appointments found for this patient"
	msgNoneForPract   = "No appointments found for this practitioner"
	msgNoneInRange    = "No appointments found in the specified date range"
)

// CreateInput is the body of POST /api/appointments. The status of a new
// appointment is always booked.
type CreateInput struct {
	PatientID      string `json:"patient_id"`
	PractitionerID string `json:"practitioner_id"`
	StartDatetime  string `json:"start_datetime"`
	EndDatetime    string `json:"end_datetime"`
	CreatedBy      string `json:"created_by"`
}

type UpdateInput struct {
	PatientID      *string `json:"patient_id"`
	PractitionerID *string `json:"practitioner_id"`
	StartDatetime  *string `json:"start_datetime"`
	EndDatetime    *string `json:"end_datetime"`
	Status         *string `json:"status"`
	CreatedBy      *string `json:"created_by"`
}

// FilterInput carries the raw status, patient_id and practitioner_id query
// parameters.
type FilterInput struct {
	Status         string
	PatientID      string
	PractitionerID string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func parseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", apierror.InvalidEnum("status", StatusValues())
	}
	return st, nil
}

func parseID(field, raw string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, apierror.Validation(apierror.MsgMissingFields)
	}
	id, ok := params.UUID(raw)
	if !ok {
		return uuid.Nil, apierror.InvalidField(field)
	}
	return id, nil
}

func parseDatetime(field, raw string) (time.Time, error) {
	t, err := params.ParseTime(raw)
	if err != nil {
		return time.Time{}, apierror.InvalidField(field)
	}
	return t, nil
}

func (in FilterInput) parse() (Filter, error) {
	var f Filter
	if in.Status != "" {
		st, err := parseStatus(in.Status)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}
	if in.PatientID != "" {
		id, err := parseID("patient_id", in.PatientID)
		if err != nil {
			return f, err
		}
		f.PatientID = &id
	}
	if in.PractitionerID != "" {
		id, err := parseID("practitioner_id", in.PractitionerID)
		if err != nil {
			return f, err
		}
		f.PractitionerID = &id
	}
	return f, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	if in.PatientID == "" || in.PractitionerID == "" || in.StartDatetime == "" ||
		in.EndDatetime == "" || in.CreatedBy == "" {
		return nil, apierror.Validation(apierror.MsgMissingFields)
	}

	a := &Appointment{Status: StatusBooked}
	var err error
	if a.PatientID, err = parseID("patient_id", in.PatientID); err != nil {
		return nil, err
	}
	if a.PractitionerID, err = parseID("practitioner_id", in.PractitionerID); err != nil {
		return nil, err
	}
	if a.CreatedBy, err = parseID("created_by", in.CreatedBy); err != nil {
		return nil, err
	}
	if a.StartDatetime, err = parseDatetime("start_datetime", in.StartDatetime); err != nil {
		return nil, err
	}
	if a.EndDatetime, err = parseDatetime("end_datetime", in.EndDatetime); err != nil {
		return nil, err
	}
	if !a.StartDatetime.Before(a.EndDatetime) {
		return nil, apierror.Validation(apierror.MsgTimeOrder)
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, in FilterInput) ([]*Appointment, error) {
	f, err := in.parse()
	if err != nil {
		return nil, err
	}
	items, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return items, nil
}

// scoped runs a lookup keyed by a path id and reports an empty result, or a
// malformed id, as NotFound with msg.
func (s *Service) scoped(ctx context.Context, raw, msg string,
	find func(context.Context, uuid.UUID) ([]*Appointment, error)) ([]*Appointment, error) {
	id, ok := params.UUID(raw)
	if !ok {
		return nil, apierror.NotFound(msg)
	}
	items, err := find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if len(items) == 0 {
		return nil, apierror.NotFound(msg)
	}
	return items, nil
}

func (s *Service) ListByPatient(ctx context.Context, rawPatientID string) ([]*Appointment, error) {
	return s.scoped(ctx, rawPatientID, msgNoneForPatient, s.repo.FindByPatientID)
}

func (s *Service) ListByPractitioner(ctx context.Context, rawPractitionerID string) ([]*Appointment, error) {
	return s.scoped(ctx, rawPractitionerID, msgNoneForPract, s.repo.FindByPractitionerID)
}

// ListByDateRange returns the appointments lying entirely inside rng,
// optionally narrowed by the same filters as the root collection.
func (s *Service) ListByDateRange(ctx context.Context, rng params.Range, in FilterInput) ([]*Appointment, error) {
	f, err := in.parse()
	if err != nil {
		return nil, err
	}
	items, err := s.repo.FindByDateRange(ctx, rng.From, rng.To, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments by date range: %w", err)
	}
	if len(items) == 0 {
		return nil, apierror.NotFound(msgNoneInRange)
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	var upd Update
	ids := []struct {
		field string
		raw   *string
		dst   **uuid.UUID
	}{
		{"patient_id", in.PatientID, &upd.PatientID},
		{"practitioner_id", in.PractitionerID, &upd.PractitionerID},
		{"created_by", in.CreatedBy, &upd.CreatedBy},
	}
	for _, f := range ids {
		if f.raw == nil {
			continue
		}
		id, err := parseID(f.field, *f.raw)
		if err != nil {
			return nil, err
		}
		*f.dst = &id
	}
	if in.StartDatetime != nil {
		t, err := parseDatetime("start_datetime", *in.StartDatetime)
		if err != nil {
			return nil, err
		}
		upd.StartDatetime = &t
	}
	if in.EndDatetime != nil {
		t, err := parseDatetime("end_datetime", *in.EndDatetime)
		if err != nil {
			return nil, err
		}
		upd.EndDatetime = &t
	}
	if upd.StartDatetime != nil && upd.EndDatetime != nil && !upd.StartDatetime.Before(*upd.EndDatetime) {
		return nil, apierror.Validation(apierror.MsgTimeOrder)
	}
	if in.Status != nil {
		st, err := parseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		upd.Status = &st
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

// UpdateStatus moves an appointment to status. Any legal status may follow
// any other.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	st, err := parseStatus(status)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.UpdateStatus(ctx, id, st)
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

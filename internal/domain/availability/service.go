package availability

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/booking/internal/platform/apierror"
	"github.com/medbook/booking/pkg/params"
)

const (
	msgNotFound      = "Availability slot not found"
	msgNoneForPract  = "No availability slots found for this practitioner"
	msgNoneAvailable = "No available slots found for this practitioner in the specified date range"
)

// CreateInput is the body of POST /api/availability-slots. Datetimes are
// RFC 3339 strings or plain dates.
type CreateInput struct {
	PractitionerID string  `json:"practitioner_id"`
	StartDatetime  string  `json:"start_datetime"`
	EndDatetime    string  `json:"end_datetime"`
	RecurrenceRule *string `json:"recurrence_rule"`
	IsException    bool    `json:"is_exception"`
}

type UpdateInput struct {
	PractitionerID *string `json:"practitioner_id"`
	StartDatetime  *string `json:"start_datetime"`
	EndDatetime    *string `json:"end_datetime"`
	RecurrenceRule *string `json:"recurrence_rule"`
	IsException    *bool   `json:"is_exception"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func parseDatetime(field, raw string) (time.Time, error) {
	t, err := params.ParseTime(raw)
	if err != nil {
		return time.Time{}, apierror.InvalidField(field)
	}
	return t, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Slot, error) {
	if in.PractitionerID == "" || in.StartDatetime == "" || in.EndDatetime == "" {
		return nil, apierror.Validation(apierror.MsgMissingFields)
	}
	practitionerID, ok := params.UUID(in.PractitionerID)
	if !ok {
		return nil, apierror.InvalidField("practitioner_id")
	}
	start, err := parseDatetime("start_datetime", in.StartDatetime)
	if err != nil {
		return nil, err
	}
	end, err := parseDatetime("end_datetime", in.EndDatetime)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, apierror.Validation(apierror.MsgTimeOrder)
	}

	slot := &Slot{
		PractitionerID: practitionerID,
		StartDatetime:  start,
		EndDatetime:    end,
		RecurrenceRule: in.RecurrenceRule,
		IsException:    in.IsException,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return slot, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Slot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return slot, nil
}

// ListByPractitioner fails with NotFound when the practitioner has no slots
// or the id is malformed.
func (s *Service) ListByPractitioner(ctx context.Context, rawPractitionerID string) ([]*Slot, error) {
	practitionerID, ok := params.UUID(rawPractitionerID)
	if !ok {
		return nil, apierror.NotFound(msgNoneForPract)
	}
	items, err := s.repo.FindByPractitionerID(ctx, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("list slots by practitioner: %w", err)
	}
	if len(items) == 0 {
		return nil, apierror.NotFound(msgNoneForPract)
	}
	return items, nil
}

// ListAvailable returns the bookable slots of a practitioner that lie
// entirely inside rng.
func (s *Service) ListAvailable(ctx context.Context, rawPractitionerID string, rng params.Range) ([]*Slot, error) {
	practitionerID, ok := params.UUID(rawPractitionerID)
	if !ok {
		return nil, apierror.NotFound(msgNoneAvailable)
	}
	items, err := s.repo.FindAvailable(ctx, practitionerID, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	if len(items) == 0 {
		return nil, apierror.NotFound(msgNoneAvailable)
	}
	return items, nil
}

// List returns the slots matching the optional practitioner_id and
// is_exception query filters.
func (s *Service) List(ctx context.Context, rawPractitionerID, rawIsException string) ([]*Slot, error) {
	var f Filter
	if rawPractitionerID != "" {
		id, ok := params.UUID(rawPractitionerID)
		if !ok {
			return nil, apierror.InvalidField("practitioner_id")
		}
		f.PractitionerID = &id
	}
	if rawIsException != "" {
		b, err := strconv.ParseBool(rawIsException)
		if err != nil {
			return nil, apierror.InvalidField("is_exception")
		}
		f.IsException = &b
	}
	items, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list availability slots: %w", err)
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Slot, error) {
	var upd Update
	if in.PractitionerID != nil {
		if strings.TrimSpace(*in.PractitionerID) == "" {
			return nil, apierror.Validation(apierror.MsgMissingFields)
		}
		pid, ok := params.UUID(*in.PractitionerID)
		if !ok {
			return nil, apierror.InvalidField("practitioner_id")
		}
		upd.PractitionerID = &pid
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
	// A single bound is checked by the table constraint against the stored
	// value of the other.
	if upd.StartDatetime != nil && upd.EndDatetime != nil && !upd.StartDatetime.Before(*upd.EndDatetime) {
		return nil, apierror.Validation(apierror.MsgTimeOrder)
	}
	upd.RecurrenceRule = in.RecurrenceRule
	upd.IsException = in.IsException

	ok, err := s.repo.Update(ctx, id, upd)
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

package practitioner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medbook/booking/internal/platform/apierror"
	"github.com/medbook/booking/internal/platform/db"
	"github.com/medbook/booking/pkg/params"
)

const (
	msgNotFound         = "Practitioner not found"
	msgNotFoundForUser  = "Practitioner not found for this user"
	msgNoneForSpecialty = "No practitioners found for this specialty"
	msgDuplicateUser    = "Practitioner profile already exists for this user"
	msgInvalidDuration  = "default_duration must be greater than 0"
)

// CreateInput is the body of POST /api/practitioners.
type CreateInput struct {
	UserID          string `json:"user_id"`
	Specialty       string `json:"specialty"`
	Title           string `json:"title"`
	DefaultDuration *int   `json:"default_duration"`
	Description     string `json:"description"`
}

// UpdateInput is the body of PUT /api/practitioners/:id.
type UpdateInput struct {
	UserID          *string `json:"user_id"`
	Specialty       *string `json:"specialty"`
	Title           *string `json:"title"`
	DefaultDuration *int    `json:"default_duration"`
	Description     *string `json:"description"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Practitioner, error) {
	if in.UserID == "" || in.Specialty == "" || in.Title == "" {
		return nil, apierror.Validation(apierror.MsgMissingFields)
	}
	userID, ok := params.UUID(in.UserID)
	if !ok {
		return nil, apierror.InvalidField("user_id")
	}

	duration := DefaultDuration
	if in.DefaultDuration != nil && *in.DefaultDuration != 0 {
		duration = *in.DefaultDuration
	}
	if duration < 0 {
		return nil, apierror.Validation(msgInvalidDuration)
	}

	p := &Practitioner{
		UserID:          userID,
		Specialty:       in.Specialty,
		Title:           in.Title,
		DefaultDuration: duration,
		Description:     in.Description,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, s.storageError(err)
	}
	return p, nil
}

func (s *Service) storageError(err error) error {
	if errors.Is(err, db.ErrDuplicate) {
		return apierror.Conflict(msgDuplicateUser, err)
	}
	return apierror.FromStorage(err, msgNotFound)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return p, nil
}

// GetByUserID resolves the profile of a user account. A malformed user id
// is reported the same way as an unknown one.
func (s *Service) GetByUserID(ctx context.Context, rawUserID string) (*Practitioner, error) {
	userID, ok := params.UUID(rawUserID)
	if !ok {
		return nil, apierror.NotFound(msgNotFoundForUser)
	}
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apierror.FromStorage(err, msgNotFoundForUser)
	}
	return p, nil
}

// ListBySpecialty fails with NotFound when nobody practises the specialty.
func (s *Service) ListBySpecialty(ctx context.Context, specialty string) ([]*Practitioner, error) {
	items, err := s.repo.FindBySpecialty(ctx, specialty)
	if err != nil {
		return nil, fmt.Errorf("list practitioners by specialty: %w", err)
	}
	if len(items) == 0 {
		return nil, apierror.NotFound(msgNoneForSpecialty)
	}
	return items, nil
}

// List returns every practitioner, or those of one specialty. An empty
// result is not an error.
func (s *Service) List(ctx context.Context, specialty string) ([]*Practitioner, error) {
	items, err := s.repo.FindAll(ctx, Filter{Specialty: specialty})
	if err != nil {
		return nil, fmt.Errorf("list practitioners: %w", err)
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Practitioner, error) {
	for _, v := range []*string{in.UserID, in.Specialty, in.Title} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return nil, apierror.Validation(apierror.MsgMissingFields)
		}
	}

	upd := Update{Specialty: in.Specialty, Title: in.Title, Description: in.Description}
	if in.UserID != nil {
		userID, ok := params.UUID(*in.UserID)
		if !ok {
			return nil, apierror.InvalidField("user_id")
		}
		upd.UserID = &userID
	}
	if in.DefaultDuration != nil {
		if *in.DefaultDuration <= 0 {
			return nil, apierror.Validation(msgInvalidDuration)
		}
		upd.DefaultDuration = in.DefaultDuration
	}

	ok, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, s.storageError(err)
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

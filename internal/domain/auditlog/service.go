package auditlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medbook/booking/internal/platform/apierror"
	"github.com/medbook/booking/pkg/params"
)

const (
	msgNotFound      = "Audit log not found"
	msgNoneForUser   = "No audit logs found for this user"
	msgNoneInRange   = "No audit logs found in the specified date range"
	msgNoneForActFmt = "No audit logs found for action: %s"
)

// CreateInput is the body of POST /api/audit-logs.
type CreateInput struct {
	UserID  string `json:"user_id"`
	Action  string `json:"action"`
	Details string `json:"details"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Entry, error) {
	if in.UserID == "" || in.Action == "" {
		return nil, apierror.Validation(apierror.MsgMissingFields)
	}
	userID, ok := params.UUID(in.UserID)
	if !ok {
		return nil, apierror.InvalidField("user_id")
	}
	e := &Entry{UserID: userID, Action: in.Action, Details: in.Details}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, rawUserID, action string) ([]*Entry, error) {
	f := Filter{Action: action}
	if rawUserID != "" {
		id, ok := params.UUID(rawUserID)
		if !ok {
			return nil, apierror.InvalidField("user_id")
		}
		f.UserID = &id
	}
	items, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return items, nil
}

func nonEmpty(items []*Entry, err error, msg string) ([]*Entry, error) {
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	if len(items) == 0 {
		return nil, apierror.NotFound(msg)
	}
	return items, nil
}

func (s *Service) ListByUser(ctx context.Context, rawUserID string) ([]*Entry, error) {
	userID, ok := params.UUID(rawUserID)
	if !ok {
		return nil, apierror.NotFound(msgNoneForUser)
	}
	items, err := s.repo.FindByUserID(ctx, userID)
	return nonEmpty(items, err, msgNoneForUser)
}

func (s *Service) ListByAction(ctx context.Context, action string) ([]*Entry, error) {
	items, err := s.repo.FindByAction(ctx, action)
	return nonEmpty(items, err, fmt.Sprintf(msgNoneForActFmt, action))
}

func (s *Service) ListByDateRange(ctx context.Context, rng params.Range) ([]*Entry, error) {
	items, err := s.repo.FindByDateRange(ctx, rng.From, rng.To)
	return nonEmpty(items, err, msgNoneInRange)
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

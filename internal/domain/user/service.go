package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medbook/booking/internal/platform/apierror"
	"github.com/medbook/booking/internal/platform/auth"
	"github.com/medbook/booking/internal/platform/db"
)

const (
	msgNotFound        = "User not found"
	msgDuplicate       = "User with this email already exists"
	msgPasswordTooLong = "Password must be at most 72 bytes"
)

// CreateInput is the body of POST /api/users.
type CreateInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// UpdateInput is the body of PUT /api/users/:id. Password fields are not
// part of it and are ignored when sent.
type UpdateInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
}

type Service struct {
	repo   Repository
	hasher auth.PasswordHasher
}

func NewService(repo Repository, hasher auth.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func parseRole(s string) (Role, error) {
	if s == "" {
		return RolePatient, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", apierror.InvalidEnum("role", RoleValues())
	}
	return r, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, apierror.Validation(apierror.MsgMissingFields)
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, apierror.Conflict(msgDuplicate, nil)
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apierror.Validation(msgPasswordTooLong)
	}
	if err != nil {
		return nil, err
	}

	u := &User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		HashedPassword: hash,
		Role:           role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, apierror.Conflict(msgDuplicate, err)
		}
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apierror.FromStorage(err, msgNotFound)
	}
	return u, nil
}

// List returns all users, optionally narrowed by role and email.
func (s *Service) List(ctx context.Context, role, email string) ([]*User, error) {
	f := Filter{Email: email}
	if role != "" {
		r := Role(role)
		if !r.Valid() {
			return nil, apierror.InvalidEnum("role", RoleValues())
		}
		f.Role = r
	}
	users, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	for _, v := range []*string{in.FirstName, in.LastName, in.Email} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return nil, apierror.Validation(apierror.MsgMissingFields)
		}
	}

	upd := Update{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Phone: in.Phone}
	if in.Role != nil {
		r := Role(*in.Role)
		if !r.Valid() {
			return nil, apierror.InvalidEnum("role", RoleValues())
		}
		upd.Role = &r
	}

	ok, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, apierror.Conflict(msgDuplicate, err)
		}
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

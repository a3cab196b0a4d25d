package user

import (
	"context"
	"errors"

	"github.com/medbook/booking/internal/platform/apierror"
	"github.com/medbook/booking/internal/platform/auth"
	"github.com/medbook/booking/internal/platform/db"
)

const (
	msgRegisterMissing = "All fields are required"
	msgEmailInUse      = "Email is already in use"
	msgRegisterFailed  = "Server error during registration"
	msgLoginMissing    = "Email and password are required"
	msgBadCredentials  = "Invalid email or password"
	msgLoginFailed     = "Internal server error"
	msgAccountCreated  = "Account created successfully"
	msgLoginSuccessful = "Login successful"
)

// TokenSigner issues bearer tokens for authenticated users.
type TokenSigner interface {
	Issue(userID, role string) (string, error)
}

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identity is the user summary returned by login.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName"`
}

// LoginResult is a successful login.
type LoginResult struct {
	Token string
	User  Identity
}

// AuthService registers accounts and exchanges credentials for tokens. It
// stores users through the same Repository as the users resource.
type AuthService struct {
	users  Repository
	hasher auth.PasswordHasher
	tokens TokenSigner
}

func NewAuthService(users Repository, hasher auth.PasswordHasher, tokens TokenSigner) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, apierror.Validation(msgRegisterMissing)
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apierror.Validation(msgEmailInUse)
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, apierror.Internal(msgRegisterFailed, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apierror.Validation(msgPasswordTooLong)
	}
	if err != nil {
		return nil, apierror.Internal(msgRegisterFailed, err)
	}

	u := &User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		HashedPassword: hash,
		Role:           role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, apierror.Validation(msgEmailInUse)
		}
		return nil, apierror.Internal(msgRegisterFailed, err)
	}
	return u, nil
}

// Login verifies credentials. Unknown emails and wrong passwords produce the
// same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, apierror.Validation(msgLoginMissing)
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apierror.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, apierror.Internal(msgLoginFailed, err)
	}

	if err := s.hasher.Compare(u.HashedPassword, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apierror.Unauthorized(msgBadCredentials)
		}
		return nil, apierror.Internal(msgLoginFailed, err)
	}

	token, err := s.tokens.Issue(u.ID.String(), string(u.Role))
	if err != nil {
		return nil, apierror.Internal(msgLoginFailed, err)
	}

	return &LoginResult{
		Token: token,
		User: Identity{
			ID:        u.ID.String(),
			Email:     u.Email,
			Role:      u.Role,
			FirstName: u.FirstName,
		},
	}, nil
}

package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassify(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", pgx.ErrNoRows), ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, ErrDuplicate},
		{"check", &pgconn.PgError{Code: "23514", ConstraintName: "appointments_time_order"}, ErrConstraint},
		{"not null", &pgconn.PgError{Code: "23502"}, ErrConstraint},
		{"other pg error", &pgconn.PgError{Code: "57014"}, nil},
		{"plain", plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			if tt.want == nil {
				if tt.in == nil && got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				if tt.in != nil && got != tt.in {
					t.Fatalf("expected error to pass through, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestConstraintError_Name(t *testing.T) {
	err := Classify(&pgconn.PgError{Code: "23514", ConstraintName: "slots_time_order", Message: "violates check"})
	var ce *ConstraintError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConstraintError, got %T", err)
	}
	if ce.Constraint != "slots_time_order" {
		t.Errorf("expected constraint slots_time_order, got %q", ce.Constraint)
	}
}

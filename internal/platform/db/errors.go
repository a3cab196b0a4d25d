package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by repositories. Callers match them with errors.Is.
var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate key")
	ErrConstraint = errors.New("constraint violation")
)

// Postgres SQLSTATE codes the repositories care about.
const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeNotNull         = "23502"
	codeInvalidText     = "22P02"
)

// Classify maps driver errors onto the package sentinels so that callers do
// not depend on pgx. Errors it does not recognise are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case codeCheckViolation, codeNotNull, codeInvalidText:
			return &ConstraintError{Constraint: pgErr.ConstraintName, Detail: pgErr.Message}
		}
	}
	return err
}

// ConstraintError reports a CHECK / NOT NULL violation raised by the database.
type ConstraintError struct {
	Constraint string
	Detail     string
}

func (e *ConstraintError) Error() string {
	if e.Constraint == "" {
		return "constraint violation: " + e.Detail
	}
	return fmt.Sprintf("constraint violation on %s: %s", e.Constraint, e.Detail)
}

func (e *ConstraintError) Unwrap() error { return ErrConstraint }

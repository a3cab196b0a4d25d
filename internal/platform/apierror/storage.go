package apierror

import (
	"errors"
	"strings"

	"github.com/medbook/booking/internal/platform/db"
)

// Messages shared by every resource.
const (
	MsgMissingFields = "Missing required fields"
	MsgTimeOrder     = "Start datetime must be before end datetime"
	MsgInvalidBody   = "Invalid request body"
)

var constraintMessages = map[string]string{
	"practitioners_default_duration_positive": "default_duration must be greater than 0",
}

// FromStorage converts a repository error into an API error. notFound is the
// message used when the record does not exist. Duplicate-key errors are left
// to the caller, which knows which field collided. Other failures pass
// through and become 500s.
func FromStorage(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, db.ErrNotFound) {
		return NotFound(notFound)
	}

	var ce *db.ConstraintError
	if errors.As(err, &ce) {
		if strings.HasSuffix(ce.Constraint, "_time_order") {
			return &Error{Kind: KindValidation, Message: MsgTimeOrder, Err: err}
		}
		if msg, ok := constraintMessages[ce.Constraint]; ok {
			return &Error{Kind: KindValidation, Message: msg, Err: err}
		}
		return &Error{Kind: KindValidation, Message: "Invalid field value", Err: err}
	}
	return err
}

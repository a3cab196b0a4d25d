package apierror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/medbook/booking/internal/platform/db"
)

func TestFromStorage(t *testing.T) {
	plain := errors.New("connection refused")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", fmt.Errorf("find: %w", db.ErrNotFound), 404, "Slot not found"},
		{"time order", &db.ConstraintError{Constraint: "appointments_time_order"}, 400, MsgTimeOrder},
		{"known constraint", &db.ConstraintError{Constraint: "practitioners_default_duration_positive"}, 400, "default_duration must be greater than 0"},
		{"unknown constraint", &db.ConstraintError{Constraint: "x_check"}, 400, "Invalid field value"},
		{"storage", plain, 500, "connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := Resolve(FromStorage(tt.err, "Slot not found"), false)
			if status != tt.wantStatus || msg != tt.wantMsg {
				t.Errorf("expected %d %q, got %d %q", tt.wantStatus, tt.wantMsg, status, msg)
			}
		})
	}

	if FromStorage(nil, "x") != nil {
		t.Error("expected nil for nil error")
	}
}

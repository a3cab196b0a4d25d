package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/booking/internal/platform/db"
)

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &appointmentRepoPG{pool: pool} }

func (r *appointmentRepoPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, patient_id, practitioner_id, start_datetime, end_datetime, status, created_by, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.PractitionerID, &a.StartDatetime, &a.EndDatetime,
		&a.Status, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &a, nil
}

func (r *appointmentRepoPG) list(ctx context.Context, query string, args ...interface{}) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	items := []*Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// where renders f as SQL conditions, numbering placeholders after the
// arguments already in args.
func (f Filter) where(args []interface{}) ([]string, []interface{}) {
	var conds []string
	add := func(col string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.Status != nil {
		add("status", string(*f.Status))
	}
	if f.PatientID != nil {
		add("patient_id", *f.PatientID)
	}
	if f.PractitionerID != nil {
		add("practitioner_id", *f.PractitionerID)
	}
	return conds, args
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, practitioner_id, start_datetime, end_datetime, status, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.PractitionerID, a.StartDatetime, a.EndDatetime, string(a.Status), a.CreatedBy,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", db.Classify(err))
	}
	return nil
}

func (r *appointmentRepoPG) FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *appointmentRepoPG) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return r.list(ctx, `SELECT `+apptCols+` FROM appointments WHERE patient_id = $1 ORDER BY start_datetime`, patientID)
}

func (r *appointmentRepoPG) FindByPractitionerID(ctx context.Context, practitionerID uuid.UUID) ([]*Appointment, error) {
	return r.list(ctx, `SELECT `+apptCols+` FROM appointments WHERE practitioner_id = $1 ORDER BY start_datetime`, practitionerID)
}

func (r *appointmentRepoPG) FindByDateRange(ctx context.Context, from, to time.Time, f Filter) ([]*Appointment, error) {
	conds, args := f.where([]interface{}{from, to})
	conds = append([]string{"start_datetime >= $1", "end_datetime <= $2"}, conds...)
	return r.list(ctx, `SELECT `+apptCols+` FROM appointments WHERE `+strings.Join(conds, " AND ")+
		` ORDER BY start_datetime`, args...)
}

func (r *appointmentRepoPG) FindAll(ctx context.Context, f Filter) ([]*Appointment, error) {
	conds, args := f.where(nil)
	query := `SELECT ` + apptCols + ` FROM appointments`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	return r.list(ctx, query+` ORDER BY start_datetime`, args...)
}

func (r *appointmentRepoPG) Update(ctx context.Context, id uuid.UUID, upd Update) (bool, error) {
	var sets []string
	args := []interface{}{id}
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.PatientID != nil {
		set("patient_id", *upd.PatientID)
	}
	if upd.PractitionerID != nil {
		set("practitioner_id", *upd.PractitionerID)
	}
	if upd.StartDatetime != nil {
		set("start_datetime", *upd.StartDatetime)
	}
	if upd.EndDatetime != nil {
		set("end_datetime", *upd.EndDatetime)
	}
	if upd.Status != nil {
		set("status", string(*upd.Status))
	}
	if upd.CreatedBy != nil {
		set("created_by", *upd.CreatedBy)
	}
	sets = append(sets, "updated_at = NOW()")

	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return false, fmt.Errorf("update appointment: %w", db.Classify(err))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (bool, error) {
	return r.Update(ctx, id, Update{Status: &status})
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete appointment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

package availability

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

type slotRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &slotRepoPG{pool: pool} }

func (r *slotRepoPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const slotCols = `id, practitioner_id, start_datetime, end_datetime, recurrence_rule, is_exception, created_at, updated_at`

func scanSlot(row pgx.Row) (*Slot, error) {
	var s Slot
	err := row.Scan(&s.ID, &s.PractitionerID, &s.StartDatetime, &s.EndDatetime,
		&s.RecurrenceRule, &s.IsException, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &s, nil
}

func (r *slotRepoPG) list(ctx context.Context, query string, args ...interface{}) ([]*Slot, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query availability slots: %w", err)
	}
	defer rows.Close()

	items := []*Slot{}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// nullIfEmpty stores an empty recurrence rule as NULL.
func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (r *slotRepoPG) Create(ctx context.Context, s *Slot) error {
	s.ID = uuid.New()
	s.RecurrenceRule = nullIfEmpty(s.RecurrenceRule)
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO availability_slots (id, practitioner_id, start_datetime, end_datetime, recurrence_rule, is_exception)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		s.ID, s.PractitionerID, s.StartDatetime, s.EndDatetime, s.RecurrenceRule, s.IsException,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert availability slot: %w", db.Classify(err))
	}
	return nil
}

func (r *slotRepoPG) FindByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	return scanSlot(r.conn(ctx).QueryRow(ctx, `SELECT `+slotCols+` FROM availability_slots WHERE id = $1`, id))
}

func (r *slotRepoPG) FindByPractitionerID(ctx context.Context, practitionerID uuid.UUID) ([]*Slot, error) {
	return r.list(ctx, `SELECT `+slotCols+` FROM availability_slots
		WHERE practitioner_id = $1 ORDER BY start_datetime`, practitionerID)
}

func (r *slotRepoPG) FindAvailable(ctx context.Context, practitionerID uuid.UUID, from, to time.Time) ([]*Slot, error) {
	return r.list(ctx, `SELECT `+slotCols+` FROM availability_slots
		WHERE practitioner_id = $1 AND start_datetime >= $2 AND end_datetime <= $3 AND NOT is_exception
		ORDER BY start_datetime`, practitionerID, from, to)
}

func (r *slotRepoPG) FindAll(ctx context.Context, f Filter) ([]*Slot, error) {
	var where []string
	var args []interface{}
	if f.PractitionerID != nil {
		args = append(args, *f.PractitionerID)
		where = append(where, fmt.Sprintf("practitioner_id = $%d", len(args)))
	}
	if f.IsException != nil {
		args = append(args, *f.IsException)
		where = append(where, fmt.Sprintf("is_exception = $%d", len(args)))
	}

	query := `SELECT ` + slotCols + ` FROM availability_slots`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return r.list(ctx, query+` ORDER BY start_datetime`, args...)
}

func (r *slotRepoPG) Update(ctx context.Context, id uuid.UUID, upd Update) (bool, error) {
	var sets []string
	args := []interface{}{id}
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
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
	if upd.RecurrenceRule != nil {
		set("recurrence_rule", nullIfEmpty(upd.RecurrenceRule))
	}
	if upd.IsException != nil {
		set("is_exception", *upd.IsException)
	}
	sets = append(sets, "updated_at = NOW()")

	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE availability_slots SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return false, fmt.Errorf("update availability slot: %w", db.Classify(err))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *slotRepoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM availability_slots WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete availability slot: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

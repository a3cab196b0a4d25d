package auditlog

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

type auditLogRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &auditLogRepoPG{pool: pool} }

func (r *auditLogRepoPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const entryCols = `id, user_id, action, details, timestamp`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	if err := row.Scan(&e.ID, &e.UserID, &e.Action, &e.Details, &e.Timestamp); err != nil {
		return nil, db.Classify(err)
	}
	return &e, nil
}

func (r *auditLogRepoPG) list(ctx context.Context, where string, args ...interface{}) ([]*Entry, error) {
	query := `SELECT ` + entryCols + ` FROM audit_logs`
	if where != "" {
		query += ` WHERE ` + where
	}
	rows, err := r.conn(ctx).Query(ctx, query+` ORDER BY timestamp DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	items := []*Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *auditLogRepoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO audit_logs (id, user_id, action, details)
		VALUES ($1,$2,$3,$4)
		RETURNING timestamp`,
		e.ID, e.UserID, e.Action, e.Details,
	).Scan(&e.Timestamp)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", db.Classify(err))
	}
	return nil
}

func (r *auditLogRepoPG) FindByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return scanEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+entryCols+` FROM audit_logs WHERE id = $1`, id))
}

func (r *auditLogRepoPG) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Entry, error) {
	return r.list(ctx, "user_id = $1", userID)
}

func (r *auditLogRepoPG) FindByAction(ctx context.Context, action string) ([]*Entry, error) {
	return r.list(ctx, "action = $1", action)
}

func (r *auditLogRepoPG) FindByDateRange(ctx context.Context, from, to time.Time) ([]*Entry, error) {
	return r.list(ctx, "timestamp >= $1 AND timestamp <= $2", from, to)
}

func (r *auditLogRepoPG) FindAll(ctx context.Context, f Filter) ([]*Entry, error) {
	var where []string
	var args []interface{}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Action != "" {
		args = append(args, f.Action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	return r.list(ctx, strings.Join(where, " AND "), args...)
}

func (r *auditLogRepoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM audit_logs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete audit log: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

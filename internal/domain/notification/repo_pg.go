package notification

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

type notificationRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &notificationRepoPG{pool: pool} }

func (r *notificationRepoPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const notifCols = `id, appointment_id, type, status, sent_at, created_at, updated_at`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.AppointmentID, &n.Type, &n.Status, &n.SentAt, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &n, nil
}

func (r *notificationRepoPG) list(ctx context.Context, query string, args ...interface{}) ([]*Notification, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	items := []*Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *notificationRepoPG) Create(ctx context.Context, n *Notification) error {
	n.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO notifications (id, appointment_id, type, status, sent_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		n.ID, n.AppointmentID, string(n.Type), string(n.Status), n.SentAt,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", db.Classify(err))
	}
	return nil
}

func (r *notificationRepoPG) FindByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return scanNotification(r.conn(ctx).QueryRow(ctx, `SELECT `+notifCols+` FROM notifications WHERE id = $1`, id))
}

func (r *notificationRepoPG) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) ([]*Notification, error) {
	return r.list(ctx, `SELECT `+notifCols+` FROM notifications WHERE appointment_id = $1 ORDER BY created_at`, appointmentID)
}

func (r *notificationRepoPG) FindByStatus(ctx context.Context, status Status) ([]*Notification, error) {
	return r.list(ctx, `SELECT `+notifCols+` FROM notifications WHERE status = $1 ORDER BY created_at`, string(status))
}

func (r *notificationRepoPG) FindPending(ctx context.Context) ([]*Notification, error) {
	return r.FindByStatus(ctx, StatusPending)
}

func (r *notificationRepoPG) FindAll(ctx context.Context, f Filter) ([]*Notification, error) {
	var where []string
	var args []interface{}
	if f.Type != nil {
		args = append(args, string(*f.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	query := `SELECT ` + notifCols + ` FROM notifications`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return r.list(ctx, query+` ORDER BY created_at`, args...)
}

func (r *notificationRepoPG) Update(ctx context.Context, id uuid.UUID, upd Update) (bool, error) {
	var sets []string
	args := []interface{}{id}
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.AppointmentID != nil {
		set("appointment_id", *upd.AppointmentID)
	}
	if upd.Type != nil {
		set("type", string(*upd.Type))
	}
	if upd.Status != nil {
		set("status", string(*upd.Status))
	}
	if upd.SentAt != nil {
		set("sent_at", *upd.SentAt)
	}
	sets = append(sets, "updated_at = NOW()")

	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE notifications SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return false, fmt.Errorf("update notification: %w", db.Classify(err))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *notificationRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, sentAt *time.Time) (bool, error) {
	return r.Update(ctx, id, Update{Status: &status, SentAt: sentAt})
}

func (r *notificationRepoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete notification: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

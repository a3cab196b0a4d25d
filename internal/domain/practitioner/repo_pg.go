package practitioner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/booking/internal/platform/db"
)

type practitionerRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &practitionerRepoPG{pool: pool} }

func (r *practitionerRepoPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const practCols = `id, user_id, specialty, title, default_duration, description, created_at, updated_at`

func scanPractitioner(row pgx.Row) (*Practitioner, error) {
	var p Practitioner
	err := row.Scan(&p.ID, &p.UserID, &p.Specialty, &p.Title, &p.DefaultDuration,
		&p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &p, nil
}

func (r *practitionerRepoPG) list(ctx context.Context, query string, args ...interface{}) ([]*Practitioner, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query practitioners: %w", err)
	}
	defer rows.Close()

	items := []*Practitioner{}
	for rows.Next() {
		p, err := scanPractitioner(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *practitionerRepoPG) Create(ctx context.Context, p *Practitioner) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO practitioners (id, user_id, specialty, title, default_duration, description)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		p.ID, p.UserID, p.Specialty, p.Title, p.DefaultDuration, p.Description,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert practitioner: %w", db.Classify(err))
	}
	return nil
}

func (r *practitionerRepoPG) FindByID(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	return scanPractitioner(r.conn(ctx).QueryRow(ctx, `SELECT `+practCols+` FROM practitioners WHERE id = $1`, id))
}

func (r *practitionerRepoPG) FindByUserID(ctx context.Context, userID uuid.UUID) (*Practitioner, error) {
	return scanPractitioner(r.conn(ctx).QueryRow(ctx, `SELECT `+practCols+` FROM practitioners WHERE user_id = $1`, userID))
}

func (r *practitionerRepoPG) FindBySpecialty(ctx context.Context, specialty string) ([]*Practitioner, error) {
	return r.list(ctx, `SELECT `+practCols+` FROM practitioners WHERE specialty = $1 ORDER BY created_at`, specialty)
}

func (r *practitionerRepoPG) FindAll(ctx context.Context, f Filter) ([]*Practitioner, error) {
	if f.Specialty != "" {
		return r.FindBySpecialty(ctx, f.Specialty)
	}
	return r.list(ctx, `SELECT `+practCols+` FROM practitioners ORDER BY created_at`)
}

func (r *practitionerRepoPG) Update(ctx context.Context, id uuid.UUID, upd Update) (bool, error) {
	var sets []string
	args := []interface{}{id}
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.UserID != nil {
		set("user_id", *upd.UserID)
	}
	if upd.Specialty != nil {
		set("specialty", *upd.Specialty)
	}
	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.DefaultDuration != nil {
		set("default_duration", *upd.DefaultDuration)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	sets = append(sets, "updated_at = NOW()")

	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE practitioners SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return false, fmt.Errorf("update practitioner: %w", db.Classify(err))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *practitionerRepoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM practitioners WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete practitioner: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

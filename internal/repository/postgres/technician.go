package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

const technicianColumns = `id, user_id, name, specialty, lat, lng, availability, created_at, updated_at`

func scanTechnician(row pgx.Row) (*models.Technician, error) {
	var (
		t         models.Technician
		specialty string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &specialty, &t.Location.Lat, &t.Location.Lng, &t.Availability, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Specialty = models.Specialty(specialty)
	t.CreatedAt, t.UpdatedAt = t.CreatedAt.UTC(), t.UpdatedAt.UTC()
	return &t, nil
}

func (r *Repo) ListTechnicians(ctx context.Context, q repository.TechnicianQuery) ([]models.Technician, error) {
	var (
		conds []string
		args  []any
	)
	if q.AvailableOnly {
		conds = append(conds, "availability")
	}
	if q.Specialty != "" {
		args = append(args, string(q.Specialty))
		conds = append(conds, fmt.Sprintf("specialty = $%d", len(args)))
	}

	rows, err := r.pool.Query(ctx, `SELECT `+technicianColumns+` FROM technicians`+where(conds)+` ORDER BY created_at DESC, seq DESC`, args...)
	if err != nil {
		return nil, r.unavailable("list technicians", err)
	}
	defer rows.Close()

	out := []models.Technician{}
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, r.unavailable("scan technician", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable("list technicians", err)
	}
	return out, nil
}

func (r *Repo) GetTechnician(ctx context.Context, id string) (*models.Technician, error) {
	t, err := scanTechnician(r.pool.QueryRow(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE id = $1`, id))
	if err != nil {
		return nil, r.classify("get technician", "technician", id, err)
	}
	return t, nil
}

func (r *Repo) InsertTechnician(ctx context.Context, t *models.Technician) error {
	if err := t.Validate(); err != nil {
		return err
	}

	ts := now()
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, `INSERT INTO technicians (`+technicianColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, t.UserID, t.Name, string(t.Specialty), t.Location.Lat, t.Location.Lng, t.Availability, ts, ts)
	if err != nil {
		return r.classify("insert technician", "technician", id, err)
	}

	t.ID = id
	t.CreatedAt, t.UpdatedAt = ts, ts
	return nil
}

func (r *Repo) SetAvailability(ctx context.Context, id string, available bool) (*models.Technician, error) {
	t, err := scanTechnician(r.pool.QueryRow(ctx,
		`UPDATE technicians SET availability = $1, updated_at = $2 WHERE id = $3 RETURNING `+technicianColumns,
		available, now(), id))
	if err != nil {
		return nil, r.classify("set availability", "technician", id, err)
	}
	return t, nil
}

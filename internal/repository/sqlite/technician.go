package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

const technicianColumns = `id, user_id, name, specialty, lat, lng, availability, created_at, updated_at`

func scanTechnician(s scanner) (*models.Technician, error) {
	var (
		t                models.Technician
		specialty        string
		created, updated int64
	)
	if err := s.Scan(&t.ID, &t.UserID, &t.Name, &specialty, &t.Location.Lat, &t.Location.Lng, &t.Availability, &created, &updated); err != nil {
		return nil, err
	}
	t.Specialty = models.Specialty(specialty)
	t.CreatedAt, t.UpdatedAt = fromUnix(created), fromUnix(updated)
	return &t, nil
}

func (r *SQLiteRepo) ListTechnicians(ctx context.Context, q repository.TechnicianQuery) ([]models.Technician, error) {
	var (
		where []string
		args  []any
	)
	if q.AvailableOnly {
		where = append(where, "availability = 1")
	}
	if q.Specialty != "" {
		where = append(where, "specialty = ?")
		args = append(args, string(q.Specialty))
	}
	query := `SELECT ` + technicianColumns + ` FROM technicians`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.conn.Query(ctx, query, args...)
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

func (r *SQLiteRepo) GetTechnician(ctx context.Context, id string) (*models.Technician, error) {
	t, err := scanTechnician(r.conn.QueryRow(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE id = ?`, id))
	if err != nil {
		return nil, r.classify("get technician", "technician", id, err)
	}
	return t, nil
}

func (r *SQLiteRepo) InsertTechnician(ctx context.Context, t *models.Technician) error {
	if err := t.Validate(); err != nil {
		return err
	}

	ts := now()
	id := uuid.NewString()
	_, err := r.conn.Exec(ctx, `INSERT INTO technicians (`+technicianColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.UserID, t.Name, string(t.Specialty), t.Location.Lat, t.Location.Lng, t.Availability, toUnix(ts), toUnix(ts))
	if err != nil {
		return r.classify("insert technician", "technician", id, err)
	}

	t.ID = id
	t.CreatedAt, t.UpdatedAt = ts, ts
	return nil
}

func (r *SQLiteRepo) SetAvailability(ctx context.Context, id string, available bool) (*models.Technician, error) {
	res, err := r.conn.Exec(ctx, `UPDATE technicians SET availability = ?, updated_at = ? WHERE id = ?`, available, toUnix(now()), id)
	if err != nil {
		return nil, r.unavailable("set availability", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, r.unavailable("set availability", err)
	} else if n == 0 {
		return nil, r.classify("set availability", "technician", id, sql.ErrNoRows)
	}
	return r.GetTechnician(ctx, id)
}

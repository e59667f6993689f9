package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

const missionColumns = `id, title, description, location, latitude, longitude, salary, duration, requirements, type, recruiter_id, status, created_at, updated_at`

func scanMission(row pgx.Row) (*models.Mission, error) {
	var (
		m      models.Mission
		typ    *string
		status string
	)
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Location, &m.Latitude, &m.Longitude, &m.Salary,
		&m.Duration, &m.Requirements, &typ, &m.RecruiterID, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if typ != nil {
		sp := models.Specialty(*typ)
		m.Type = &sp
	}
	m.Status = models.MissionStatus(status)
	if st, err := models.ParseMissionStatus(status); err == nil {
		m.Status = st
	}
	m.CreatedAt, m.UpdatedAt = m.CreatedAt.UTC(), m.UpdatedAt.UTC()
	return &m, nil
}

func missionType(m *models.Mission) *string {
	if m.Type == nil {
		return nil
	}
	s := string(*m.Type)
	return &s
}

func (r *Repo) ListMissions(ctx context.Context, q repository.MissionQuery) ([]models.Mission, error) {
	var (
		conds []string
		args  []any
	)
	if q.Status != "" {
		args = append(args, string(q.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.RecruiterID != "" {
		args = append(args, q.RecruiterID)
		conds = append(conds, fmt.Sprintf("recruiter_id = $%d", len(args)))
	}

	rows, err := r.pool.Query(ctx, `SELECT `+missionColumns+` FROM missions`+where(conds)+` ORDER BY created_at DESC, seq DESC`, args...)
	if err != nil {
		return nil, r.unavailable("list missions", err)
	}
	defer rows.Close()

	out := []models.Mission{}
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, r.unavailable("scan mission", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable("list missions", err)
	}
	return out, nil
}

func (r *Repo) GetMission(ctx context.Context, id string) (*models.Mission, error) {
	m, err := scanMission(r.pool.QueryRow(ctx, `SELECT `+missionColumns+` FROM missions WHERE id = $1`, id))
	if err != nil {
		return nil, r.classify("get mission", "mission", id, err)
	}
	return m, nil
}

func (r *Repo) InsertMission(ctx context.Context, m *models.Mission) error {
	if err := m.Validate(); err != nil {
		return err
	}

	t := now()
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, `INSERT INTO missions (`+missionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		id, m.Title, m.Description, m.Location, m.Latitude, m.Longitude, m.Salary,
		m.Duration, m.Requirements, missionType(m), m.RecruiterID, string(m.Status), t, t)
	if err != nil {
		return r.classify("insert mission", "mission", id, err)
	}

	m.ID = id
	m.CreatedAt, m.UpdatedAt = t, t
	return nil
}

func (r *Repo) UpdateMission(ctx context.Context, m *models.Mission, from models.MissionStatus) error {
	if err := m.Validate(); err != nil {
		return err
	}

	t := now()
	tag, err := r.pool.Exec(ctx, `UPDATE missions SET title = $1, description = $2, location = $3, latitude = $4, longitude = $5, salary = $6, duration = $7, requirements = $8, type = $9, status = $10, updated_at = $11 WHERE id = $12 AND status = $13`,
		m.Title, m.Description, m.Location, m.Latitude, m.Longitude, m.Salary,
		m.Duration, m.Requirements, missionType(m), string(m.Status), t, m.ID, string(from))
	if err != nil {
		return r.classify("update mission", "mission", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetMission(ctx, m.ID); err != nil {
			return err
		}
		return apperr.Newf(apperr.KindInvalidTransition, "mission %q is no longer %s", m.ID, from)
	}

	m.UpdatedAt = t
	return nil
}

func (r *Repo) DeleteMission(ctx context.Context, id string) (*models.Mission, error) {
	var deleted *models.Mission
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		m, err := scanMission(tx.QueryRow(ctx, `SELECT `+missionColumns+` FROM missions WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM applications WHERE mission_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM missions WHERE id = $1`, id); err != nil {
			return err
		}
		deleted = m
		return nil
	})
	if err != nil {
		return nil, r.classify("delete mission", "mission", id, err)
	}
	return deleted, nil
}

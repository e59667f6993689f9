package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

const missionColumns = `id, title, description, location, latitude, longitude, salary, duration, requirements, type, recruiter_id, status, created_at, updated_at`

func scanMission(s scanner) (*models.Mission, error) {
	var (
		m                  models.Mission
		lat, lng, salary   sql.NullFloat64
		duration, req, typ sql.NullString
		status             string
		created, updated   int64
	)
	if err := s.Scan(&m.ID, &m.Title, &m.Description, &m.Location, &lat, &lng, &salary, &duration, &req, &typ, &m.RecruiterID, &status, &created, &updated); err != nil {
		return nil, err
	}
	m.Latitude, m.Longitude, m.Salary = floatPtr(lat), floatPtr(lng), floatPtr(salary)
	m.Duration, m.Requirements = stringPtr(duration), stringPtr(req)
	if typ.Valid {
		sp := models.Specialty(typ.String)
		m.Type = &sp
	}
	m.Status = models.MissionStatus(status)
	if st, err := models.ParseMissionStatus(status); err == nil {
		m.Status = st
	}
	m.CreatedAt, m.UpdatedAt = fromUnix(created), fromUnix(updated)
	return &m, nil
}

func missionType(m *models.Mission) sql.NullString {
	if m.Type == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*m.Type), Valid: true}
}

func (r *SQLiteRepo) ListMissions(ctx context.Context, q repository.MissionQuery) ([]models.Mission, error) {
	var (
		where []string
		args  []any
	)
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}
	if q.RecruiterID != "" {
		where = append(where, "recruiter_id = ?")
		args = append(args, q.RecruiterID)
	}
	query := `SELECT ` + missionColumns + ` FROM missions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.conn.Query(ctx, query, args...)
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

func (r *SQLiteRepo) GetMission(ctx context.Context, id string) (*models.Mission, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+missionColumns+` FROM missions WHERE id = ?`, id)
	m, err := scanMission(row)
	if err != nil {
		return nil, r.classify("get mission", "mission", id, err)
	}
	return m, nil
}

func (r *SQLiteRepo) InsertMission(ctx context.Context, m *models.Mission) error {
	if err := m.Validate(); err != nil {
		return err
	}

	t := now()
	id := uuid.NewString()
	_, err := r.conn.Exec(ctx, `INSERT INTO missions (`+missionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, m.Title, m.Description, m.Location,
		nullFloat(m.Latitude), nullFloat(m.Longitude), nullFloat(m.Salary),
		nullString(m.Duration), nullString(m.Requirements), missionType(m),
		m.RecruiterID, string(m.Status), toUnix(t), toUnix(t))
	if err != nil {
		return r.classify("insert mission", "mission", id, err)
	}

	m.ID = id
	m.CreatedAt, m.UpdatedAt = t, t
	return nil
}

func (r *SQLiteRepo) UpdateMission(ctx context.Context, m *models.Mission, from models.MissionStatus) error {
	if err := m.Validate(); err != nil {
		return err
	}

	t := now()
	res, err := r.conn.Exec(ctx, `UPDATE missions SET title = ?, description = ?, location = ?, latitude = ?, longitude = ?, salary = ?, duration = ?, requirements = ?, type = ?, status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		m.Title, m.Description, m.Location,
		nullFloat(m.Latitude), nullFloat(m.Longitude), nullFloat(m.Salary),
		nullString(m.Duration), nullString(m.Requirements), missionType(m),
		string(m.Status), toUnix(t), m.ID, string(from))
	if err != nil {
		return r.classify("update mission", "mission", m.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.unavailable("update mission", err)
	}
	if n == 0 {
		if _, err := r.GetMission(ctx, m.ID); err != nil {
			return err
		}
		return apperr.Newf(apperr.KindInvalidTransition, "mission %q is no longer %s", m.ID, from)
	}

	m.UpdatedAt = t
	return nil
}

// DeleteMission removes the mission and its applications in one transaction.
func (r *SQLiteRepo) DeleteMission(ctx context.Context, id string) (*models.Mission, error) {
	var deleted *models.Mission
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		m, err := scanMission(tx.QueryRowContext(ctx, `SELECT `+missionColumns+` FROM missions WHERE id = ?`, id))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE mission_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM missions WHERE id = ?`, id); err != nil {
			return err
		}
		deleted = m
		return nil
	})
	if err != nil {
		return nil, r.classify("delete mission", "mission", id, err)
	}

	r.logger.Debug("mission deleted", "id", id)
	return deleted, nil
}

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

const applicationColumns = `id, mission_id, applicant_id, first_name, last_name, email, phone, experience, cover_letter, cv_url, status, created_at, updated_at`

func scanApplication(s scanner) (*models.Application, error) {
	var (
		a                        models.Application
		phone, exp, cover, cvURL sql.NullString
		status                   string
		created, updated         int64
	)
	if err := s.Scan(&a.ID, &a.MissionID, &a.ApplicantID, &a.FirstName, &a.LastName, &a.Email, &phone, &exp, &cover, &cvURL, &status, &created, &updated); err != nil {
		return nil, err
	}
	a.Phone, a.Experience, a.CoverLetter, a.CVURL = stringPtr(phone), stringPtr(exp), stringPtr(cover), stringPtr(cvURL)
	a.Status = models.ApplicationStatus(status)
	a.CreatedAt, a.UpdatedAt = fromUnix(created), fromUnix(updated)
	return &a, nil
}

func (r *SQLiteRepo) ListApplications(ctx context.Context, q repository.ApplicationQuery) ([]models.Application, error) {
	var (
		where []string
		args  []any
	)
	if q.MissionID != "" {
		where = append(where, "mission_id = ?")
		args = append(args, q.MissionID)
	}
	if q.ApplicantID != "" {
		where = append(where, "applicant_id = ?")
		args = append(args, q.ApplicantID)
	}
	query := `SELECT ` + applicationColumns + ` FROM applications`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, r.unavailable("list applications", err)
	}
	defer rows.Close()

	out := []models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, r.unavailable("scan application", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable("list applications", err)
	}
	return out, nil
}

func (r *SQLiteRepo) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	a, err := scanApplication(r.conn.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id))
	if err != nil {
		return nil, r.classify("get application", "application", id, err)
	}
	return a, nil
}

// InsertApplication checks the referenced mission and inserts in the same
// transaction so a concurrent delete cannot leave an orphan.
func (r *SQLiteRepo) InsertApplication(ctx context.Context, a *models.Application) error {
	if err := a.Validate(); err != nil {
		return err
	}

	t := now()
	id := uuid.NewString()
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM missions WHERE id = ?`, a.MissionID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return apperr.NotFound("mission", a.MissionID)
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, a.MissionID, a.ApplicantID, a.FirstName, a.LastName, a.Email,
			nullString(a.Phone), nullString(a.Experience), nullString(a.CoverLetter), nullString(a.CVURL),
			string(a.Status), toUnix(t), toUnix(t))
		return err
	})
	if err != nil {
		return r.classify("insert application", "application", id, err)
	}

	a.ID = id
	a.CreatedAt, a.UpdatedAt = t, t
	return nil
}

// DecideApplication only updates rows still pending. When nothing changed the
// current row tells NotFound apart from InvalidTransition.
func (r *SQLiteRepo) DecideApplication(ctx context.Context, id string, to models.ApplicationStatus) (*models.Application, error) {
	var decided *models.Application
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE applications SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			string(to), toUnix(now()), id, string(models.ApplicationPending))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}

		a, err := scanApplication(tx.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id))
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.Newf(apperr.KindInvalidTransition, "application %q is already %s", id, a.Status)
		}
		decided = a
		return nil
	})
	if err != nil {
		return nil, r.classify("decide application", "application", id, err)
	}
	return decided, nil
}

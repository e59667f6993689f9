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

const applicationColumns = `id, mission_id, applicant_id, first_name, last_name, email, phone, experience, cover_letter, cv_url, status, created_at, updated_at`

func scanApplication(row pgx.Row) (*models.Application, error) {
	var (
		a      models.Application
		status string
	)
	if err := row.Scan(&a.ID, &a.MissionID, &a.ApplicantID, &a.FirstName, &a.LastName, &a.Email,
		&a.Phone, &a.Experience, &a.CoverLetter, &a.CVURL, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = models.ApplicationStatus(status)
	a.CreatedAt, a.UpdatedAt = a.CreatedAt.UTC(), a.UpdatedAt.UTC()
	return &a, nil
}

func (r *Repo) ListApplications(ctx context.Context, q repository.ApplicationQuery) ([]models.Application, error) {
	var (
		conds []string
		args  []any
	)
	if q.MissionID != "" {
		args = append(args, q.MissionID)
		conds = append(conds, fmt.Sprintf("mission_id = $%d", len(args)))
	}
	if q.ApplicantID != "" {
		args = append(args, q.ApplicantID)
		conds = append(conds, fmt.Sprintf("applicant_id = $%d", len(args)))
	}

	rows, err := r.pool.Query(ctx, `SELECT `+applicationColumns+` FROM applications`+where(conds)+` ORDER BY created_at DESC, seq DESC`, args...)
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

func (r *Repo) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	a, err := scanApplication(r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		return nil, r.classify("get application", "application", id, err)
	}
	return a, nil
}

func (r *Repo) InsertApplication(ctx context.Context, a *models.Application) error {
	if err := a.Validate(); err != nil {
		return err
	}

	t := now()
	id := uuid.NewString()
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// lock the mission row so a concurrent delete waits for this insert
		var found string
		if err := tx.QueryRow(ctx, `SELECT id FROM missions WHERE id = $1 FOR SHARE`, a.MissionID).Scan(&found); err != nil {
			if err == pgx.ErrNoRows {
				return apperr.NotFound("mission", a.MissionID)
			}
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO applications (`+applicationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			id, a.MissionID, a.ApplicantID, a.FirstName, a.LastName, a.Email,
			a.Phone, a.Experience, a.CoverLetter, a.CVURL, string(a.Status), t, t)
		return err
	})
	if err != nil {
		return r.classify("insert application", "application", id, err)
	}

	a.ID = id
	a.CreatedAt, a.UpdatedAt = t, t
	return nil
}

// DecideApplication relies on the row lock taken by the conditional UPDATE:
// concurrent deciders serialize and all but the first see zero rows.
func (r *Repo) DecideApplication(ctx context.Context, id string, to models.ApplicationStatus) (*models.Application, error) {
	a, err := scanApplication(r.pool.QueryRow(ctx,
		`UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4 RETURNING `+applicationColumns,
		string(to), now(), id, string(models.ApplicationPending)))
	if err == nil {
		return a, nil
	}
	if err != pgx.ErrNoRows {
		return nil, r.unavailable("decide application", err)
	}

	current, err := r.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, apperr.Newf(apperr.KindInvalidTransition, "application %q is already %s", id, current.Status)
}

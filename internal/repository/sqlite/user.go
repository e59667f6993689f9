package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/garnizeh/techstaff/pkg/models"
)

const userColumns = `id, name, email, password_hash, role, created_at`

func scanUser(s scanner) (*models.User, error) {
	var (
		u       models.User
		role    string
		created int64
	)
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &created); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	u.CreatedAt = fromUnix(created)
	return &u, nil
}

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	t := now()
	id := uuid.NewString()
	_, err := r.conn.Exec(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		id, u.Name, u.Email, u.PasswordHash, string(u.Role), toUnix(t))
	if err != nil {
		return r.classify("create user", "user", u.Email, err)
	}

	u.ID = id
	u.CreatedAt = t
	return nil
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, r.classify("get user", "user", email, err)
	}
	return u, nil
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, r.classify("get user", "user", id, err)
	}
	return u, nil
}

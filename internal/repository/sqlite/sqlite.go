package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/garnizeh/techstaff/internal/db"
	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/repository"
)

// SQLiteRepo implements the repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.MissionRepo = (*SQLiteRepo)(nil)
var _ repository.ApplicationRepo = (*SQLiteRepo)(nil)
var _ repository.TechnicianRepo = (*SQLiteRepo)(nil)
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.Store = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	if err := r.conn.Ping(ctx); err != nil {
		return r.unavailable("ping", err)
	}
	return nil
}

// now is truncated to the stored precision so inserted records compare equal
// to what is read back.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func toUnix(t time.Time) int64 { return t.UnixMicro() }

func fromUnix(v int64) time.Time { return time.UnixMicro(v).UTC() }

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepo) unavailable(op string, err error) error {
	r.logger.Error("sqlite operation failed", "op", op, "error", err)
	return apperr.Unavailable(op, err)
}

// classify turns a driver error into an apperr. Errors that already carry a
// kind pass through untouched.
func (r *SQLiteRepo) classify(op, entity, id string, err error) error {
	var ae *apperr.Error
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound(entity, id)
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return apperr.Wrap(apperr.KindValidation, entity+" already exists", err)
	default:
		return r.unavailable(op, err)
	}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

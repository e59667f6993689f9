// Package postgres implements the repository contracts on PostgreSQL through
// a pgx connection pool. It is the hosted backend selected with store: postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garnizeh/techstaff/internal/db"
	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/repository"
)

// NewPool creates and verifies a pgxpool connection pool.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

// Migrate applies the .sql files of dir that are not yet recorded in
// schema_migrations, each in its own transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string) ([]string, error) {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied TIMESTAMPTZ NOT NULL DEFAULT NOW())`); err != nil {
		return nil, fmt.Errorf("ensure schema_migrations: %w", err)
	}

	files, err := db.MigrationFiles(fsys, dir)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, fname := range files {
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		if err := pool.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = $1`, version).Scan(&count); err != nil {
			return applied, fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		b, err := fs.ReadFile(fsys, path.Join(dir, fname))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", fname, err)
		}

		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			// no arguments: pgx sends the file through the simple protocol,
			// which accepts several statements
			if _, err := tx.Exec(ctx, string(b)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", fname, err)
		}
		applied = append(applied, version)
	}

	return applied, nil
}

// Repo implements repository.Store on a pgx pool.
type Repo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ repository.Store = (*Repo)(nil)

func New(pool *pgxpool.Pool, logger *slog.Logger) *Repo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Repo{pool: pool, logger: logger}
}

func (r *Repo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return r.unavailable("ping", err)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (r *Repo) unavailable(op string, err error) error {
	r.logger.Error("postgres operation failed", "op", op, "error", err)
	return apperr.Unavailable(op, err)
}

func (r *Repo) classify(op, entity, id string, err error) error {
	var (
		ae *apperr.Error
		pe *pgconn.PgError
	)
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, pgx.ErrNoRows):
		return apperr.NotFound(entity, id)
	case errors.As(err, &pe) && pe.Code == "23505":
		return apperr.Wrap(apperr.KindValidation, entity+" already exists", err)
	default:
		return r.unavailable(op, err)
	}
}

// where joins already numbered conditions with AND.
func where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

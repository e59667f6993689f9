// Package backend opens the record store selected by configuration. The
// server and the admin CLI share it so both see the same database.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	dbfs "github.com/garnizeh/techstaff/db"
	"github.com/garnizeh/techstaff/internal/config"
	"github.com/garnizeh/techstaff/internal/db"
	"github.com/garnizeh/techstaff/internal/repository/postgres"
	"github.com/garnizeh/techstaff/internal/repository/sqlite"
	"github.com/garnizeh/techstaff/pkg/repository"
)

// ErrNotSQLite is returned by file level operations on a Postgres backend.
var ErrNotSQLite = errors.New("operation only supported on the sqlite store")

// Backend is an open store plus the handle needed to migrate and close it.
type Backend struct {
	Store  repository.Store
	Driver string

	sqlite *db.DB
	pool   *pgxpool.Pool
}

func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: postgres.New(pool, logger), Driver: cfg.Store, pool: pool}, nil
	case config.StoreSQLite, "":
		conn, err := db.New(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: sqlite.New(conn, logger), Driver: config.StoreSQLite, sqlite: conn}, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// Migrate applies pending schema migrations and returns their versions.
func (b *Backend) Migrate(ctx context.Context) ([]string, error) {
	if b.pool != nil {
		return postgres.Migrate(ctx, b.pool, dbfs.Migrations, dbfs.PostgresMigrationsDir)
	}
	return db.Migrate(ctx, b.sqlite, dbfs.Migrations, dbfs.SQLiteMigrationsDir)
}

// Backup writes a consistent copy of the SQLite database to dst.
func (b *Backend) Backup(ctx context.Context, dst string) error {
	if b.sqlite == nil {
		return ErrNotSQLite
	}
	return b.sqlite.Backup(ctx, dst)
}

func (b *Backend) Close() error {
	if b.pool != nil {
		b.pool.Close()
		return nil
	}
	return b.sqlite.Close()
}

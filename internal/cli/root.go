// Package cli implements the techstaff-admin commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/garnizeh/techstaff/internal/backend"
	"github.com/garnizeh/techstaff/internal/config"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	skipMark = color.New(color.FgYellow).Sprint("-")
)

// NewRootCmd returns techstaff-admin with every subcommand attached.
func NewRootCmd(version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "techstaff-admin",
		Short:         "Administer the techstaff database",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `techstaff-admin prepares and maintains the store used by the techstaff server.
It reads the same TECHSTAFF_* environment variables and config file as the server.`,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML file")

	load := func() (*config.Config, error) {
		return config.LoadConfig(configPath)
	}

	root.AddCommand(MigrateCmd(load))
	root.AddCommand(SeedCmd(load))
	root.AddCommand(BackupCmd(load))
	root.AddCommand(RestoreCmd(load))
	root.AddCommand(StatsCmd(load))
	return root
}

type configLoader func() (*config.Config, error)

// withBackend opens the configured store, runs fn and closes the store.
func withBackend(ctx context.Context, load configLoader, fn func(*backend.Backend) error) error {
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	b, err := backend.Open(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	defer b.Close()
	return fn(b)
}

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garnizeh/techstaff/internal/backend"
	"github.com/garnizeh/techstaff/internal/config"
	"github.com/garnizeh/techstaff/internal/db"
)

func BackupCmd(load configLoader) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a snapshot of the SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd.Context(), load, func(b *backend.Backend) error {
				dst := output
				if dst == "" {
					cfg, err := load()
					if err != nil {
						return err
					}
					dst = fmt.Sprintf("%s.%s.bak", cfg.DatabasePath, time.Now().UTC().Format("20060102T150405Z"))
				}
				if err := b.Backup(cmd.Context(), dst); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s backup written to %s\n", okMark, dst)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Backup file (default <database_path>.<timestamp>.bak)")
	return cmd
}

func RestoreCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Replace the SQLite database with a backup",
		Long:  "Replace the SQLite database with a backup. Stop the server first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Store != config.StoreSQLite {
				return errors.New("restore only supports the sqlite store")
			}
			if err := db.Restore(args[0], cfg.DatabasePath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s restored %s from %s\n", okMark, cfg.DatabasePath, args[0])
			return nil
		},
	}
}

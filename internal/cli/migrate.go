package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garnizeh/techstaff/internal/backend"
)

func MigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd.Context(), load, func(b *backend.Backend) error {
				applied, err := b.Migrate(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(applied) == 0 {
					fmt.Fprintf(out, "%s %s schema is up to date\n", skipMark, b.Driver)
					return nil
				}
				for _, v := range applied {
					fmt.Fprintf(out, "%s applied %s\n", okMark, v)
				}
				return nil
			})
		},
	}
}

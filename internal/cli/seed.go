package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garnizeh/techstaff/internal/backend"
	"github.com/garnizeh/techstaff/internal/seed"
)

func SeedCmd(load configLoader) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo recruiter, technicians and missions",
		Long: `Load the demo dataset embedded in the binary. The dataset is skipped when
its recruiter account already exists, so running seed twice is harmless.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := seed.LoadDemo()
			if err != nil {
				return err
			}
			return withBackend(cmd.Context(), load, func(b *backend.Backend) error {
				if migrate {
					if _, err := b.Migrate(cmd.Context()); err != nil {
						return err
					}
				}
				res, err := seed.Apply(cmd.Context(), b.Store, ds, nil)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if res.Skipped {
					fmt.Fprintf(out, "%s demo data already present (recruiter %s)\n", skipMark, ds.Recruiter.Email)
					return nil
				}
				fmt.Fprintf(out, "%s recruiter %s\n", okMark, ds.Recruiter.Email)
				fmt.Fprintf(out, "%s %d technicians\n", okMark, res.Technicians)
				fmt.Fprintf(out, "%s %d missions\n", okMark, res.Missions)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply migrations before seeding")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/garnizeh/techstaff/internal/backend"
	"github.com/garnizeh/techstaff/internal/filter"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

var statusOrder = []models.MissionStatus{
	models.MissionOpen,
	models.MissionInProgress,
	models.MissionCompleted,
	models.MissionCancelled,
}

func statusColor(s models.MissionStatus) *color.Color {
	switch s {
	case models.MissionOpen:
		return color.New(color.FgGreen)
	case models.MissionInProgress:
		return color.New(color.FgCyan)
	case models.MissionCompleted:
		return color.New(color.FgBlue)
	}
	return color.New(color.FgRed)
}

func StatsCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show mission and technician counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd.Context(), load, func(b *backend.Backend) error {
				ctx := cmd.Context()
				missions, err := b.Store.ListMissions(ctx, repository.MissionQuery{})
				if err != nil {
					return err
				}
				techs, err := b.Store.ListTechnicians(ctx, repository.TechnicianQuery{})
				if err != nil {
					return err
				}
				s := filter.Summarize(missions, techs)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Missions: %d (%d open)\n", s.TotalMissions, s.OpenMissions)
				for _, st := range statusOrder {
					fmt.Fprintf(out, "  %-12s %d\n", statusColor(st).Sprint(st), s.MissionsByStatus[st])
				}
				fmt.Fprintf(out, "Technicians: %d (%s available)\n", s.TotalTechnicians,
					color.New(color.FgGreen).Sprint(s.AvailableTechnicians))
				return nil
			})
		},
	}
}

// Package seed loads the demo dataset into a store through the marketplace
// services, so seeded rows pass the same validation as API writes.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/garnizeh/techstaff/db"
	"github.com/garnizeh/techstaff/internal/marketplace"
	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

// DemoFile is the embedded demo dataset.
const DemoFile = "seed/demo.json"

type Account struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Dataset struct {
	Recruiter   Account                       `json:"recruiter"`
	Technicians []marketplace.TechnicianInput `json:"technicians"`
	Missions    []marketplace.MissionInput    `json:"missions"`
}

type Result struct {
	RecruiterID string
	Technicians int
	Missions    int
	Skipped     bool
}

func Load(fsys fs.FS, name string) (*Dataset, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", name, err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", name, err)
	}
	return &ds, nil
}

// LoadDemo reads the dataset embedded in the binary.
func LoadDemo() (*Dataset, error) {
	return Load(db.SeedFiles, DemoFile)
}

// Apply creates the recruiter account and then the technicians and missions it
// owns. When the recruiter email is already registered the store is assumed
// seeded and nothing is written.
func Apply(ctx context.Context, store repository.Store, ds *Dataset, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	existing, err := store.GetUserByEmail(ctx, ds.Recruiter.Email)
	switch {
	case err == nil:
		logger.Info("seed skipped, recruiter already present", "email", ds.Recruiter.Email)
		return Result{RecruiterID: existing.ID, Skipped: true}, nil
	case !apperr.Is(err, apperr.KindNotFound):
		return Result{}, err
	}

	accounts := marketplace.NewAccountService(store, logger)
	recruiter, err := accounts.SignUp(ctx, ds.Recruiter.Name, ds.Recruiter.Email, ds.Recruiter.Password, models.RoleRecruiter)
	if err != nil {
		return Result{}, fmt.Errorf("seed recruiter: %w", err)
	}
	res := Result{RecruiterID: recruiter.ID}

	techs := marketplace.NewTechnicianService(store, logger)
	for i, in := range ds.Technicians {
		if _, err := techs.Register(ctx, in, recruiter.ID); err != nil {
			return res, fmt.Errorf("seed technician %d (%s): %w", i, in.Name, err)
		}
		res.Technicians++
	}

	missions := marketplace.NewMissionService(store, logger)
	for i, in := range ds.Missions {
		if _, err := missions.CreateMission(ctx, in, recruiter.ID); err != nil {
			return res, fmt.Errorf("seed mission %d (%s): %w", i, in.Title, err)
		}
		res.Missions++
	}

	logger.Info("seed applied", "technicians", res.Technicians, "missions", res.Missions)
	return res, nil
}

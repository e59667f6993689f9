package marketplace

import (
	"context"
	"io"
	"log/slog"

	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

type TechnicianInput struct {
	Name         string          `json:"name"`
	Specialty    string          `json:"specialty"`
	Location     models.Location `json:"location"`
	Availability *bool           `json:"availability"`
}

type TechnicianService struct {
	repo   repository.TechnicianRepo
	logger *slog.Logger
}

func NewTechnicianService(repo repository.TechnicianRepo, logger *slog.Logger) *TechnicianService {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &TechnicianService{repo: repo, logger: logger}
}

// ListTechnicians narrows by availability and specialty; an empty specialty or
// "all" lists every specialty.
func (s *TechnicianService) ListTechnicians(ctx context.Context, availableOnly bool, specialty string) ([]models.Technician, error) {
	q := repository.TechnicianQuery{AvailableOnly: availableOnly}
	if specialty != "" && specialty != "all" {
		sp, err := models.ParseSpecialty(specialty)
		if err != nil {
			return nil, err
		}
		q.Specialty = sp
	}
	return s.repo.ListTechnicians(ctx, q)
}

func (s *TechnicianService) GetTechnician(ctx context.Context, id string) (*models.Technician, error) {
	return s.repo.GetTechnician(ctx, id)
}

// Register adds a technician owned by userID. Availability defaults to true.
func (s *TechnicianService) Register(ctx context.Context, in TechnicianInput, userID string) (*models.Technician, error) {
	if userID == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "sign in to register a technician")
	}
	sp, err := models.ParseSpecialty(in.Specialty)
	if err != nil {
		return nil, err
	}
	t := &models.Technician{
		UserID:       userID,
		Name:         in.Name,
		Specialty:    sp,
		Location:     in.Location,
		Availability: true,
	}
	if in.Availability != nil {
		t.Availability = *in.Availability
	}
	if err := s.repo.InsertTechnician(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("technician registered", "id", t.ID, "user_id", userID, "specialty", t.Specialty)
	return t, nil
}

func (s *TechnicianService) SetAvailability(ctx context.Context, id string, available bool) (*models.Technician, error) {
	t, err := s.repo.SetAvailability(ctx, id, available)
	if err != nil {
		return nil, err
	}

	s.logger.Info("technician availability changed", "id", id, "available", available)
	return t, nil
}

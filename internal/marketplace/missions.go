package marketplace

import (
	"context"
	"io"
	"log/slog"

	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

// MissionInput carries the fields a recruiter submits when posting a mission.
type MissionInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Salary       *float64 `json:"salary"`
	Duration     *string  `json:"duration"`
	Requirements *string  `json:"requirements"`
	Type         *string  `json:"type"`
	Status       *string  `json:"status"`
}

// MissionPatch replaces only the fields that are set. Optional fields sent as
// null are cleared; required fields and status ignore null.
type MissionPatch struct {
	Title        *string           `json:"title"`
	Description  *string           `json:"description"`
	Location     *string           `json:"location"`
	Latitude     Nullable[float64] `json:"latitude"`
	Longitude    Nullable[float64] `json:"longitude"`
	Salary       Nullable[float64] `json:"salary"`
	Duration     Nullable[string]  `json:"duration"`
	Requirements Nullable[string]  `json:"requirements"`
	Type         Nullable[string]  `json:"type"`
	Status       *string           `json:"status"`
}

type MissionService struct {
	repo   repository.MissionRepo
	logger *slog.Logger
}

func NewMissionService(repo repository.MissionRepo, logger *slog.Logger) *MissionService {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &MissionService{repo: repo, logger: logger}
}

// ListMissions returns missions newest first. status may be empty, a canonical
// value or a legacy alias.
func (s *MissionService) ListMissions(ctx context.Context, status string) ([]models.Mission, error) {
	var q repository.MissionQuery
	if status != "" {
		st, err := models.ParseMissionStatus(status)
		if err != nil {
			return nil, err
		}
		q.Status = st
	}
	return s.repo.ListMissions(ctx, q)
}

func (s *MissionService) GetMission(ctx context.Context, id string) (*models.Mission, error) {
	return s.repo.GetMission(ctx, id)
}

// CreateMission persists a new mission owned by ownerID. Status defaults to open.
func (s *MissionService) CreateMission(ctx context.Context, in MissionInput, ownerID string) (*models.Mission, error) {
	if ownerID == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "sign in to post a mission")
	}

	m := &models.Mission{
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Salary:       in.Salary,
		Duration:     in.Duration,
		Requirements: in.Requirements,
		RecruiterID:  ownerID,
		Status:       models.MissionOpen,
	}
	if in.Type != nil {
		sp, err := models.ParseSpecialty(*in.Type)
		if err != nil {
			return nil, err
		}
		m.Type = &sp
	}
	if in.Status != nil {
		st, err := models.ParseMissionStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		m.Status = st
	}

	if err := s.repo.InsertMission(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("mission created", "id", m.ID, "recruiter_id", ownerID, "status", m.Status)
	return m, nil
}

// UpdateMission merges patch over the stored mission and saves it. A terminal
// mission keeps its status. The save fails with InvalidTransition when the
// status changed after it was read.
func (s *MissionService) UpdateMission(ctx context.Context, id string, patch MissionPatch) (*models.Mission, error) {
	m, err := s.repo.GetMission(ctx, id)
	if err != nil {
		return nil, err
	}
	from := m.Status

	if patch.Status != nil {
		to, err := models.ParseMissionStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		if !MissionTransitionAllowed(m.Status, to) {
			return nil, apperr.Newf(apperr.KindInvalidTransition, "mission %q cannot move from %s to %s", id, m.Status, to)
		}
		m.Status = to
	}
	if patch.Type.Set {
		m.Type = nil
		if patch.Type.Value != nil {
			sp, err := models.ParseSpecialty(*patch.Type.Value)
			if err != nil {
				return nil, err
			}
			m.Type = &sp
		}
	}
	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.Location != nil {
		m.Location = *patch.Location
	}
	patch.Latitude.apply(&m.Latitude)
	patch.Longitude.apply(&m.Longitude)
	patch.Salary.apply(&m.Salary)
	patch.Duration.apply(&m.Duration)
	patch.Requirements.apply(&m.Requirements)

	if err := s.repo.UpdateMission(ctx, m, from); err != nil {
		return nil, err
	}

	s.logger.Info("mission updated", "id", m.ID, "status", m.Status)
	return m, nil
}

// DeleteMission removes the mission with its applications and returns it.
func (s *MissionService) DeleteMission(ctx context.Context, id string) (*models.Mission, error) {
	m, err := s.repo.DeleteMission(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("mission deleted", "id", id)
	return m, nil
}

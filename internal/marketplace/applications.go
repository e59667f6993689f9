package marketplace

import (
	"context"
	"io"
	"log/slog"

	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

// ApplicationInput is what a technician submits. CVURL is the address returned
// by the upload endpoint; the file itself never reaches this package.
type ApplicationInput struct {
	MissionID   string  `json:"missionId"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	Experience  *string `json:"experience"`
	CoverLetter *string `json:"coverLetter"`
	CVURL       *string `json:"cvUrl"`
}

type ApplicationService struct {
	repo   repository.ApplicationRepo
	logger *slog.Logger
}

func NewApplicationService(repo repository.ApplicationRepo, logger *slog.Logger) *ApplicationService {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &ApplicationService{repo: repo, logger: logger}
}

// ListApplications returns applications newest first, optionally for one mission.
func (s *ApplicationService) ListApplications(ctx context.Context, missionID string) ([]models.Application, error) {
	return s.repo.ListApplications(ctx, repository.ApplicationQuery{MissionID: missionID})
}

// ListApplicantApplications returns what applicantID submitted, optionally for
// one mission.
func (s *ApplicationService) ListApplicantApplications(ctx context.Context, applicantID, missionID string) ([]models.Application, error) {
	if applicantID == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "sign in to see your applications")
	}
	return s.repo.ListApplications(ctx, repository.ApplicationQuery{MissionID: missionID, ApplicantID: applicantID})
}

func (s *ApplicationService) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	return s.repo.GetApplication(ctx, id)
}

// CreateApplication records a pending application from applicantID.
func (s *ApplicationService) CreateApplication(ctx context.Context, in ApplicationInput, applicantID string) (*models.Application, error) {
	if applicantID == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "sign in to apply")
	}

	a := &models.Application{
		MissionID:   in.MissionID,
		ApplicantID: applicantID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		Experience:  in.Experience,
		CoverLetter: in.CoverLetter,
		CVURL:       in.CVURL,
		Status:      models.ApplicationPending,
	}
	if err := s.repo.InsertApplication(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("application created", "id", a.ID, "mission_id", a.MissionID, "applicant_id", applicantID)
	return a, nil
}

// DecideApplication accepts or rejects a pending application. The store
// applies the change conditionally, so of two racing decisions only one wins.
func (s *ApplicationService) DecideApplication(ctx context.Context, id, decision string) (*models.Application, error) {
	to, err := models.ParseApplicationStatus(decision)
	if err != nil {
		return nil, err
	}
	if !ApplicationTransitionAllowed(models.ApplicationPending, to) {
		return nil, apperr.Newf(apperr.KindValidation, "decision must be %q or %q", models.ApplicationAccepted, models.ApplicationRejected)
	}

	a, err := s.repo.DecideApplication(ctx, id, to)
	if err != nil {
		return nil, err
	}

	s.logger.Info("application decided", "id", id, "status", a.Status)
	return a, nil
}

package repository

import (
	"context"

	"github.com/garnizeh/techstaff/pkg/models"
)

// Repository interfaces for the marketplace collections. These are the public
// contracts consumers should depend on; concrete implementations live under
// internal/repository and pkg/repository/mock.
//
// Every implementation follows the same rules:
//   - Get/Update/Delete of a missing id fail with apperr.KindNotFound.
//   - Insert validates the record and fails with apperr.KindValidation.
//   - Backend failures are wrapped in apperr.KindStoreUnavailable.
//   - Insert assigns ID, CreatedAt and UpdatedAt; Update refreshes UpdatedAt.
//   - Lists are newest first.

// MissionQuery narrows ListMissions. Zero value lists everything.
type MissionQuery struct {
	Status      models.MissionStatus
	RecruiterID string
}

type MissionRepo interface {
	ListMissions(ctx context.Context, q MissionQuery) ([]models.Mission, error)
	GetMission(ctx context.Context, id string) (*models.Mission, error)
	InsertMission(ctx context.Context, m *models.Mission) error
	// UpdateMission saves m only while the stored status still equals from;
	// otherwise it fails with InvalidTransition.
	UpdateMission(ctx context.Context, m *models.Mission, from models.MissionStatus) error
	// DeleteMission removes the mission and its applications and returns the
	// removed mission.
	DeleteMission(ctx context.Context, id string) (*models.Mission, error)
}

type ApplicationQuery struct {
	MissionID   string
	ApplicantID string
}

type ApplicationRepo interface {
	ListApplications(ctx context.Context, q ApplicationQuery) ([]models.Application, error)
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	InsertApplication(ctx context.Context, a *models.Application) error
	// DecideApplication moves a pending application to `to` in a single
	// conditional write. It fails with apperr.KindInvalidTransition when the
	// application exists but is no longer pending.
	DecideApplication(ctx context.Context, id string, to models.ApplicationStatus) (*models.Application, error)
}

type TechnicianQuery struct {
	AvailableOnly bool
	Specialty     models.Specialty
}

type TechnicianRepo interface {
	ListTechnicians(ctx context.Context, q TechnicianQuery) ([]models.Technician, error)
	GetTechnician(ctx context.Context, id string) (*models.Technician, error)
	InsertTechnician(ctx context.Context, t *models.Technician) error
	SetAvailability(ctx context.Context, id string, available bool) (*models.Technician, error)
}

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store bundles every collection. SQLite, Postgres and the in-memory mock all
// satisfy it.
type Store interface {
	MissionRepo
	ApplicationRepo
	TechnicianRepo
	UserRepo
	Ping(ctx context.Context) error
}

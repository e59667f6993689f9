package marketplace

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/garnizeh/techstaff/internal/security"
	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

const minPasswordLen = 8

// AccountService registers users with a role and checks their credentials.
type AccountService struct {
	repo   repository.UserRepo
	logger *slog.Logger
}

func NewAccountService(repo repository.UserRepo, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &AccountService{repo: repo, logger: logger}
}

func (s *AccountService) SignUp(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	if len(password) < minPasswordLen {
		return nil, apperr.Newf(apperr.KindValidation, "password must be at least %d characters", minPasswordLen)
	}
	if !role.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "role must be %q or %q", models.RoleRecruiter, models.RoleTechnician)
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &models.User{Name: name, Email: strings.TrimSpace(email), PasswordHash: hash, Role: role}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "id", u.ID, "role", u.Role)
	return u, nil
}

// SignIn returns the user when the password matches. Unknown email and wrong
// password fail the same way.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.New(apperr.KindUnauthenticated, "invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !security.CheckPassword(u.PasswordHash, password) {
		return nil, apperr.New(apperr.KindUnauthenticated, "invalid credentials")
	}
	return u, nil
}

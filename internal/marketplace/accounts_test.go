package marketplace_test

import (
	"context"
	"testing"

	"github.com/garnizeh/techstaff/internal/marketplace"
	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository/mock"
)

func TestSignUpSignIn(t *testing.T) {
	ctx := context.Background()
	svc := marketplace.NewAccountService(mock.New(), nil)

	u, err := svc.SignUp(ctx, "Alice", "alice@example.com", "password123", models.RoleRecruiter)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if u.PasswordHash == "password123" || u.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}

	got, err := svc.SignIn(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if got.ID != u.ID || got.Role != models.RoleRecruiter {
		t.Fatalf("unexpected user %+v", got)
	}

	if _, err := svc.SignIn(ctx, "alice@example.com", "wrong-password"); !apperr.Is(err, apperr.KindUnauthenticated) {
		t.Fatalf("expected unauthenticated for wrong password, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "bob@example.com", "password123"); !apperr.Is(err, apperr.KindUnauthenticated) {
		t.Fatalf("expected unauthenticated for unknown email, got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	ctx := context.Background()
	svc := marketplace.NewAccountService(mock.New(), nil)

	if _, err := svc.SignUp(ctx, "Alice", "alice@example.com", "short", models.RoleRecruiter); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected short password rejected, got %v", err)
	}
	if _, err := svc.SignUp(ctx, "Alice", "alice@example.com", "password123", "admin"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected unknown role rejected, got %v", err)
	}
	if _, err := svc.SignUp(ctx, "Alice", "alice@example.com", "password123", models.RoleTechnician); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := svc.SignUp(ctx, "Alice", "alice@example.com", "password123", models.RoleTechnician); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected duplicate email rejected, got %v", err)
	}
}

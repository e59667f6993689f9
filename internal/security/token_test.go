package security

import (
	"testing"
	"time"

	"github.com/garnizeh/techstaff/pkg/models"
)

func TestIssueParseRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	u := &models.User{ID: "u-1", Email: "alice@example.com", Role: models.RoleRecruiter}

	tok, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != u.Email || claims.Role != models.RoleRecruiter || claims.Subject != "u-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewTokenIssuer("a", time.Hour).Issue(&models.User{ID: "u-1", Role: models.RoleTechnician})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokenIssuer("b", time.Hour).Parse(tok); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("s", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := issuer.Issue(&models.User{ID: "u-1", Role: models.RoleTechnician})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokenIssuer("s", time.Minute).Parse(tok); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected mismatch")
	}
}

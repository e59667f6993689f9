package marketplace_test

import (
	"context"
	"testing"

	"github.com/garnizeh/techstaff/internal/marketplace"
	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository/mock"
)

func TestTechnicianService(t *testing.T) {
	ctx := context.Background()
	svc := marketplace.NewTechnicianService(mock.New(), nil)

	jean, err := svc.Register(ctx, marketplace.TechnicianInput{Name: "Jean Dupont", Specialty: "mechanic", Location: models.Location{Lat: 48.8584, Lng: 2.347}}, "u-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !jean.Availability {
		t.Fatalf("availability must default to true")
	}
	if jean.UserID != "u-1" {
		t.Fatalf("owner not recorded: %q", jean.UserID)
	}
	pierre, err := svc.Register(ctx, marketplace.TechnicianInput{Name: "Pierre Durand", Specialty: "reception", Location: models.Location{Lat: 48.862, Lng: 2.356}, Availability: ptr(false)}, "u-2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	available, err := svc.ListTechnicians(ctx, true, "all")
	if err != nil || len(available) != 1 || available[0].ID != jean.ID {
		t.Fatalf("ListTechnicians(available) = %+v, %v", available, err)
	}

	if _, err := svc.SetAvailability(ctx, pierre.ID, true); err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	available, err = svc.ListTechnicians(ctx, true, "")
	if err != nil || len(available) != 2 {
		t.Fatalf("expected both available, got %d, %v", len(available), err)
	}

	reception, err := svc.ListTechnicians(ctx, false, "reception")
	if err != nil || len(reception) != 1 || reception[0].ID != pierre.ID {
		t.Fatalf("ListTechnicians(reception) = %+v, %v", reception, err)
	}

	if _, err := svc.ListTechnicians(ctx, false, "painter"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected unknown specialty rejected, got %v", err)
	}
	if _, err := svc.Register(ctx, marketplace.TechnicianInput{Name: "X", Specialty: "mechanic"}, ""); !apperr.Is(err, apperr.KindUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := svc.GetTechnician(ctx, "missing"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

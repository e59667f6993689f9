package marketplace_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/garnizeh/techstaff/internal/marketplace"
	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository/mock"
)

func ptr[T any](v T) *T { return &v }

func TestCreateMission(t *testing.T) {
	ctx := context.Background()
	svc := marketplace.NewMissionService(mock.New(), nil)

	in := marketplace.MissionInput{
		Title:       "Mécanicien H/F",
		Description: "Atelier toutes marques",
		Location:    "Paris",
		Latitude:    ptr(48.8566),
		Longitude:   ptr(2.3522),
		Salary:      ptr(200.0),
		Duration:    ptr("CDI"),
		Type:        ptr("mechanic"),
	}
	m, err := svc.CreateMission(ctx, in, "rec-1")
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}
	if m.Status != models.MissionOpen || m.RecruiterID != "rec-1" || m.ID == "" {
		t.Fatalf("unexpected mission %+v", m)
	}

	got, err := svc.GetMission(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMission: %v", err)
	}
	if got.Title != in.Title || got.Description != in.Description || got.Location != in.Location ||
		*got.Latitude != *in.Latitude || *got.Salary != *in.Salary || *got.Duration != "CDI" ||
		*got.Type != models.SpecialtyMechanic || !got.CreatedAt.Equal(m.CreatedAt) {
		t.Fatalf("get does not match create: %+v", got)
	}
}

func TestCreateMissionRequiresOwner(t *testing.T) {
	svc := marketplace.NewMissionService(mock.New(), nil)
	_, err := svc.CreateMission(context.Background(), marketplace.MissionInput{Title: "t", Description: "d", Location: "l"}, "")
	if !apperr.Is(err, apperr.KindUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestCreateMissionMissingFieldsPersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc := marketplace.NewMissionService(mock.New(), nil)

	before, err := svc.ListMissions(ctx, "")
	if err != nil {
		t.Fatalf("ListMissions: %v", err)
	}

	_, err = svc.CreateMission(ctx, marketplace.MissionInput{Description: "x"}, "rec-1")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	after, err := svc.ListMissions(ctx, "")
	if err != nil {
		t.Fatalf("ListMissions: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("list count changed from %d to %d", len(before), len(after))
	}
}

func TestCreateMissionStatus(t *testing.T) {
	ctx := context.Background()
	svc := marketplace.NewMissionService(mock.New(), nil)
	base := marketplace.MissionInput{Title: "t", Description: "d", Location: "l"}

	in := base
	in.Status = ptr("active")
	m, err := svc.CreateMission(ctx, in, "rec-1")
	if err != nil {
		t.Fatalf("CreateMission(active): %v", err)
	}
	if m.Status != models.MissionOpen {
		t.Fatalf("expected legacy active stored as open, got %q", m.Status)
	}

	in = base
	in.Status = ptr("draft")
	if _, err := svc.CreateMission(ctx, in, "rec-1"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected draft rejected, got %v", err)
	}

	in = base
	in.Type = ptr("painter")
	if _, err := svc.CreateMission(ctx, in, "rec-1"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected unknown type rejected, got %v", err)
	}
}

func TestListMissionsStatusFilter(t *testing.T) {
	ctx := context.Background()
	svc := marketplace.NewMissionService(mock.New(), nil)

	open, err := svc.CreateMission(ctx, marketplace.MissionInput{Title: "a", Description: "d", Location: "l"}, "rec-1")
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}
	if _, err := svc.CreateMission(ctx, marketplace.MissionInput{Title: "b", Description: "d", Location: "l", Status: ptr("in-progress")}, "rec-1"); err != nil {
		t.Fatalf("CreateMission: %v", err)
	}

	got, err := svc.ListMissions(ctx, "active")
	if err != nil {
		t.Fatalf("ListMissions: %v", err)
	}
	if len(got) != 1 || got[0].ID != open.ID {
		t.Fatalf("expected only the open mission, got %+v", got)
	}

	if _, err := svc.ListMissions(ctx, "bogus"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateMission(t *testing.T) {
	ctx := context.Background()
	svc := marketplace.NewMissionService(mock.New(), nil)
	m, err := svc.CreateMission(ctx, marketplace.MissionInput{Title: "a", Description: "d", Location: "Paris", Salary: ptr(100.0)}, "rec-1")
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}

	updated, err := svc.UpdateMission(ctx, m.ID, marketplace.MissionPatch{Title: ptr("b"), Status: ptr("in-progress")})
	if err != nil {
		t.Fatalf("UpdateMission: %v", err)
	}
	if updated.Title != "b" || updated.Status != models.MissionInProgress || updated.Location != "Paris" || *updated.Salary != 100 {
		t.Fatalf("patch must only replace provided fields: %+v", updated)
	}

	if _, err := svc.UpdateMission(ctx, m.ID, marketplace.MissionPatch{Title: ptr("  ")}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected patched record to be re-validated, got %v", err)
	}
	if _, err := svc.UpdateMission(ctx, m.ID, marketplace.MissionPatch{Latitude: marketplace.Some(48.0)}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected half coordinate pair rejected, got %v", err)
	}

	if _, err := svc.UpdateMission(ctx, m.ID, marketplace.MissionPatch{Status: ptr("completed")}); err != nil {
		t.Fatalf("complete mission: %v", err)
	}
	_, err = svc.UpdateMission(ctx, m.ID, marketplace.MissionPatch{Status: ptr("open")})
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition out of completed, got %v", err)
	}
	got, err := svc.GetMission(ctx, m.ID)
	if err != nil || got.Status != models.MissionCompleted || got.Title != "b" {
		t.Fatalf("failed updates must not persist: %+v %v", got, err)
	}

	if _, err := svc.UpdateMission(ctx, "missing", marketplace.MissionPatch{Title: ptr("x")}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateMissionClearsNullFields(t *testing.T) {
	ctx := context.Background()
	svc := marketplace.NewMissionService(mock.New(), nil)
	m, err := svc.CreateMission(ctx, marketplace.MissionInput{
		Title: "a", Description: "d", Location: "Paris",
		Latitude: ptr(48.85), Longitude: ptr(2.35), Salary: ptr(100.0),
		Duration: ptr("1 mois"), Requirements: ptr("CAP"), Type: ptr("mechanic"),
	}, "rec-1")
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}

	var patch marketplace.MissionPatch
	body := `{"salary": null, "requirements": null, "duration": null, "type": null, "latitude": null, "longitude": null}`
	if err := json.Unmarshal([]byte(body), &patch); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}
	if !patch.Salary.Set || patch.Salary.Value != nil || patch.Title != nil {
		t.Fatalf("unexpected decoded patch %+v", patch)
	}

	got, err := svc.UpdateMission(ctx, m.ID, patch)
	if err != nil {
		t.Fatalf("UpdateMission: %v", err)
	}
	if got.Salary != nil || got.Requirements != nil || got.Duration != nil || got.Type != nil || got.Latitude != nil || got.Longitude != nil {
		t.Fatalf("null fields must be cleared: %+v", got)
	}
	if got.Title != "a" || got.Location != "Paris" {
		t.Fatalf("absent fields must be kept: %+v", got)
	}

	if _, err := svc.UpdateMission(ctx, m.ID, marketplace.MissionPatch{Latitude: marketplace.Some(48.0), Longitude: marketplace.Null[float64]()}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected half coordinate pair rejected, got %v", err)
	}
}

// cancellingStore cancels the mission right after the service reads it.
type cancellingStore struct {
	*mock.Store
	once sync.Once
}

func (s *cancellingStore) GetMission(ctx context.Context, id string) (*models.Mission, error) {
	m, err := s.Store.GetMission(ctx, id)
	if err != nil {
		return nil, err
	}
	s.once.Do(func() {
		c := *m
		c.Status = models.MissionCancelled
		_ = s.Store.UpdateMission(ctx, &c, m.Status)
	})
	return m, nil
}

func TestUpdateMissionStaleRead(t *testing.T) {
	ctx := context.Background()
	store := mock.New()
	m, err := marketplace.NewMissionService(store, nil).CreateMission(ctx, marketplace.MissionInput{Title: "a", Description: "d", Location: "Paris"}, "rec-1")
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}

	svc := marketplace.NewMissionService(&cancellingStore{Store: store}, nil)
	if _, err := svc.UpdateMission(ctx, m.ID, marketplace.MissionPatch{Title: ptr("b")}); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	got, err := store.GetMission(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMission: %v", err)
	}
	if got.Status != models.MissionCancelled || got.Title != "a" {
		t.Fatalf("cancellation must survive a stale edit: %+v", got)
	}
}

func TestDeleteMissionThenGet(t *testing.T) {
	ctx := context.Background()
	svc := marketplace.NewMissionService(mock.New(), nil)
	m, err := svc.CreateMission(ctx, marketplace.MissionInput{Title: "a", Description: "d", Location: "l"}, "rec-1")
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}

	deleted, err := svc.DeleteMission(ctx, m.ID)
	if err != nil {
		t.Fatalf("DeleteMission: %v", err)
	}
	if deleted.ID != m.ID {
		t.Fatalf("expected deleted record returned")
	}
	if _, err := svc.GetMission(ctx, m.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := svc.DeleteMission(ctx, m.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestStoreOutageSurfaces(t *testing.T) {
	store := mock.New()
	store.Err = errors.New("network down")
	svc := marketplace.NewMissionService(store, nil)

	_, err := svc.CreateMission(context.Background(), marketplace.MissionInput{Title: "a", Description: "d", Location: "l"}, "rec-1")
	if !apperr.Is(err, apperr.KindStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}
}

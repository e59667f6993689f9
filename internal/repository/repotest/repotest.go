// Package repotest holds the behaviour every repository.Store must share.
// Backends call Run from their own tests with a constructor for a fresh,
// migrated store.
package repotest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

func ptr[T any](v T) *T { return &v }

// NewMission returns a valid open mission owned by recruiterID.
func NewMission(title, recruiterID string) *models.Mission {
	return &models.Mission{
		Title:       title,
		Description: "Diagnostic et réparation",
		Location:    "Paris",
		RecruiterID: recruiterID,
		Status:      models.MissionOpen,
	}
}

// NewApplication returns a valid pending application for missionID.
func NewApplication(missionID string) *models.Application {
	return &models.Application{
		MissionID:   missionID,
		ApplicantID: "tech-1",
		FirstName:   "Jean",
		LastName:    "Dupont",
		Email:       "j@x.com",
		Status:      models.ApplicationPending,
	}
}

// Run exercises store with the shared contract.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("MissionCreateGet", func(t *testing.T) { testMissionCreateGet(t, newStore(t)) })
	t.Run("MissionNotFound", func(t *testing.T) { testMissionNotFound(t, newStore(t)) })
	t.Run("MissionValidation", func(t *testing.T) { testMissionValidation(t, newStore(t)) })
	t.Run("MissionListOrderAndFilter", func(t *testing.T) { testMissionList(t, newStore(t)) })
	t.Run("MissionUpdate", func(t *testing.T) { testMissionUpdate(t, newStore(t)) })
	t.Run("MissionDeleteCascades", func(t *testing.T) { testMissionDelete(t, newStore(t)) })
	t.Run("ApplicationLifecycle", func(t *testing.T) { testApplicationLifecycle(t, newStore(t)) })
	t.Run("ApplicationUnknownMission", func(t *testing.T) { testApplicationUnknownMission(t, newStore(t)) })
	t.Run("ApplicationConcurrentDecide", func(t *testing.T) { testConcurrentDecide(t, newStore(t)) })
	t.Run("Technicians", func(t *testing.T) { testTechnicians(t, newStore(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
}

func testMissionCreateGet(t *testing.T, s repository.Store) {
	ctx := context.Background()
	sp := models.SpecialtyMechanic
	m := NewMission("Mécanicien H/F", "rec-1")
	m.Latitude, m.Longitude = ptr(48.8566), ptr(2.3522)
	m.Salary = ptr(180.0)
	m.Duration = ptr("1 mois")
	m.Requirements = ptr("Permis B")
	m.Type = &sp

	if err := s.InsertMission(ctx, m); err != nil {
		t.Fatalf("InsertMission: %v", err)
	}
	if m.ID == "" || m.CreatedAt.IsZero() || !m.CreatedAt.Equal(m.UpdatedAt) {
		t.Fatalf("insert must stamp id and timestamps: %+v", m)
	}

	got, err := s.GetMission(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMission: %v", err)
	}
	if got.Title != m.Title || got.Description != m.Description || got.Location != m.Location ||
		*got.Latitude != *m.Latitude || *got.Longitude != *m.Longitude || *got.Salary != *m.Salary ||
		*got.Duration != *m.Duration || *got.Requirements != *m.Requirements || *got.Type != sp ||
		got.RecruiterID != m.RecruiterID || got.Status != models.MissionOpen {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, m)
	}
	if !got.CreatedAt.Equal(m.CreatedAt) || !got.UpdatedAt.Equal(m.UpdatedAt) {
		t.Fatalf("timestamps mismatch: got %v/%v want %v/%v", got.CreatedAt, got.UpdatedAt, m.CreatedAt, m.UpdatedAt)
	}

	plain := NewMission("Sans coordonnées", "rec-1")
	if err := s.InsertMission(ctx, plain); err != nil {
		t.Fatalf("InsertMission: %v", err)
	}
	got, err = s.GetMission(ctx, plain.ID)
	if err != nil {
		t.Fatalf("GetMission: %v", err)
	}
	if got.Latitude != nil || got.Longitude != nil || got.Salary != nil || got.Type != nil {
		t.Fatalf("expected nullable fields to stay nil: %+v", got)
	}
}

func testMissionNotFound(t *testing.T, s repository.Store) {
	ctx := context.Background()
	if _, err := s.GetMission(ctx, "missing"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("GetMission: expected not found, got %v", err)
	}
	m := NewMission("ghost", "rec-1")
	m.ID = "missing"
	if err := s.UpdateMission(ctx, m, models.MissionOpen); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("UpdateMission: expected not found, got %v", err)
	}
	if _, err := s.DeleteMission(ctx, "missing"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("DeleteMission: expected not found, got %v", err)
	}
}

func testMissionValidation(t *testing.T, s repository.Store) {
	ctx := context.Background()
	bad := &models.Mission{Description: "x", RecruiterID: "rec-1", Status: models.MissionOpen}
	if err := s.InsertMission(ctx, bad); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	list, err := s.ListMissions(ctx, repository.MissionQuery{})
	if err != nil {
		t.Fatalf("ListMissions: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("invalid mission must not be persisted, found %d", len(list))
	}
}

func testMissionList(t *testing.T, s repository.Store) {
	ctx := context.Background()
	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		m := NewMission(title, "rec-1")
		if title == "b" {
			m.Status = models.MissionInProgress
			m.RecruiterID = "rec-2"
		}
		if err := s.InsertMission(ctx, m); err != nil {
			t.Fatalf("InsertMission: %v", err)
		}
		ids = append(ids, m.ID)
		time.Sleep(2 * time.Millisecond)
	}

	all, err := s.ListMissions(ctx, repository.MissionQuery{})
	if err != nil {
		t.Fatalf("ListMissions: %v", err)
	}
	if len(all) != 3 || all[0].ID != ids[2] || all[1].ID != ids[1] || all[2].ID != ids[0] {
		t.Fatalf("expected newest first, got %v", missionIDs(all))
	}

	open, err := s.ListMissions(ctx, repository.MissionQuery{Status: models.MissionOpen})
	if err != nil {
		t.Fatalf("ListMissions(open): %v", err)
	}
	if len(open) != 2 || open[0].ID != ids[2] || open[1].ID != ids[0] {
		t.Fatalf("unexpected open missions %v", missionIDs(open))
	}

	mine, err := s.ListMissions(ctx, repository.MissionQuery{RecruiterID: "rec-2"})
	if err != nil {
		t.Fatalf("ListMissions(recruiter): %v", err)
	}
	if len(mine) != 1 || mine[0].ID != ids[1] {
		t.Fatalf("unexpected recruiter missions %v", missionIDs(mine))
	}
}

func testMissionUpdate(t *testing.T, s repository.Store) {
	ctx := context.Background()
	m := NewMission("before", "rec-1")
	if err := s.InsertMission(ctx, m); err != nil {
		t.Fatalf("InsertMission: %v", err)
	}
	created := m.CreatedAt
	time.Sleep(2 * time.Millisecond)

	m.Title = "after"
	m.Status = models.MissionInProgress
	m.Salary = ptr(200.0)
	if err := s.UpdateMission(ctx, m, models.MissionOpen); err != nil {
		t.Fatalf("UpdateMission: %v", err)
	}
	if !m.UpdatedAt.After(created) {
		t.Fatalf("update must refresh UpdatedAt")
	}

	got, err := s.GetMission(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMission: %v", err)
	}
	if got.Title != "after" || got.Status != models.MissionInProgress || *got.Salary != 200 {
		t.Fatalf("update not persisted: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt must not change on update")
	}

	// A write based on a stale status must not overwrite a newer one.
	cancel := *got
	cancel.Status = models.MissionCancelled
	if err := s.UpdateMission(ctx, &cancel, models.MissionInProgress); err != nil {
		t.Fatalf("UpdateMission(cancel): %v", err)
	}
	stale := *got
	stale.Title = "stale edit"
	if err := s.UpdateMission(ctx, &stale, models.MissionInProgress); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("stale update: expected invalid transition, got %v", err)
	}
	got, err = s.GetMission(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMission: %v", err)
	}
	if got.Status != models.MissionCancelled || got.Title != "after" {
		t.Fatalf("stale update leaked into the store: %+v", got)
	}
}

func testMissionDelete(t *testing.T, s repository.Store) {
	ctx := context.Background()
	m := NewMission("to delete", "rec-1")
	if err := s.InsertMission(ctx, m); err != nil {
		t.Fatalf("InsertMission: %v", err)
	}
	app := NewApplication(m.ID)
	if err := s.InsertApplication(ctx, app); err != nil {
		t.Fatalf("InsertApplication: %v", err)
	}

	deleted, err := s.DeleteMission(ctx, m.ID)
	if err != nil {
		t.Fatalf("DeleteMission: %v", err)
	}
	if deleted.ID != m.ID || deleted.Title != "to delete" {
		t.Fatalf("DeleteMission must return the removed record, got %+v", deleted)
	}
	if _, err := s.GetMission(ctx, m.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := s.GetApplication(ctx, app.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected application removed with its mission, got %v", err)
	}
}

func testApplicationLifecycle(t *testing.T, s repository.Store) {
	ctx := context.Background()
	m := NewMission("m", "rec-1")
	if err := s.InsertMission(ctx, m); err != nil {
		t.Fatalf("InsertMission: %v", err)
	}
	other := NewMission("other", "rec-1")
	if err := s.InsertMission(ctx, other); err != nil {
		t.Fatalf("InsertMission: %v", err)
	}

	app := NewApplication(m.ID)
	app.Phone = ptr("0601020304")
	app.CVURL = ptr("/files/cv.pdf")
	if err := s.InsertApplication(ctx, app); err != nil {
		t.Fatalf("InsertApplication: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	second := NewApplication(m.ID)
	if err := s.InsertApplication(ctx, second); err != nil {
		t.Fatalf("InsertApplication: %v", err)
	}
	if err := s.InsertApplication(ctx, NewApplication(other.ID)); err != nil {
		t.Fatalf("InsertApplication: %v", err)
	}

	forMission, err := s.ListApplications(ctx, repository.ApplicationQuery{MissionID: m.ID})
	if err != nil {
		t.Fatalf("ListApplications: %v", err)
	}
	if len(forMission) != 2 || forMission[0].ID != second.ID || forMission[1].ID != app.ID {
		t.Fatalf("unexpected applications for mission: %+v", forMission)
	}
	all, err := s.ListApplications(ctx, repository.ApplicationQuery{})
	if err != nil || len(all) != 3 {
		t.Fatalf("ListApplications(all) = %d, %v", len(all), err)
	}

	got, err := s.GetApplication(ctx, app.ID)
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if got.Status != models.ApplicationPending || *got.Phone != "0601020304" || *got.CVURL != "/files/cv.pdf" || got.Experience != nil {
		t.Fatalf("unexpected application: %+v", got)
	}

	decided, err := s.DecideApplication(ctx, app.ID, models.ApplicationAccepted)
	if err != nil {
		t.Fatalf("DecideApplication: %v", err)
	}
	if decided.Status != models.ApplicationAccepted || decided.UpdatedAt.Before(decided.CreatedAt) {
		t.Fatalf("unexpected decided application: %+v", decided)
	}

	if _, err := s.DecideApplication(ctx, app.ID, models.ApplicationRejected); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	got, err = s.GetApplication(ctx, app.ID)
	if err != nil || got.Status != models.ApplicationAccepted {
		t.Fatalf("status must stay accepted, got %+v %v", got, err)
	}

	if _, err := s.DecideApplication(ctx, "missing", models.ApplicationAccepted); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func testApplicationUnknownMission(t *testing.T, s repository.Store) {
	err := s.InsertApplication(context.Background(), NewApplication("no-such-mission"))
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func testConcurrentDecide(t *testing.T, s repository.Store) {
	ctx := context.Background()
	m := NewMission("race", "rec-1")
	if err := s.InsertMission(ctx, m); err != nil {
		t.Fatalf("InsertMission: %v", err)
	}
	app := NewApplication(m.ID)
	if err := s.InsertApplication(ctx, app); err != nil {
		t.Fatalf("InsertApplication: %v", err)
	}

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			to := models.ApplicationAccepted
			if i%2 == 1 {
				to = models.ApplicationRejected
			}
			_, err := s.DecideApplication(ctx, app.ID, to)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case apperr.Is(err, apperr.KindInvalidTransition):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 || conflicts != n-1 {
		t.Fatalf("expected exactly one winner, wins=%d conflicts=%d", wins, conflicts)
	}
}

func testTechnicians(t *testing.T, s repository.Store) {
	ctx := context.Background()
	techs := []*models.Technician{
		{UserID: "u-1", Name: "Jean Dupont", Specialty: models.SpecialtyMechanic, Location: models.Location{Lat: 48.8584, Lng: 2.347}, Availability: true},
		{Name: "Pierre Durand", Specialty: models.SpecialtyReception, Location: models.Location{Lat: 48.862, Lng: 2.356}},
	}
	for _, tech := range techs {
		if err := s.InsertTechnician(ctx, tech); err != nil {
			t.Fatalf("InsertTechnician: %v", err)
		}
	}

	available, err := s.ListTechnicians(ctx, repository.TechnicianQuery{AvailableOnly: true})
	if err != nil {
		t.Fatalf("ListTechnicians: %v", err)
	}
	if len(available) != 1 || available[0].Name != "Jean Dupont" {
		t.Fatalf("unexpected available technicians %+v", available)
	}

	reception, err := s.ListTechnicians(ctx, repository.TechnicianQuery{Specialty: models.SpecialtyReception})
	if err != nil || len(reception) != 1 {
		t.Fatalf("ListTechnicians(reception) = %+v, %v", reception, err)
	}

	updated, err := s.SetAvailability(ctx, techs[1].ID, true)
	if err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if !updated.Availability || updated.Location.Lat != 48.862 {
		t.Fatalf("unexpected technician after toggle: %+v", updated)
	}
	got, err := s.GetTechnician(ctx, techs[0].ID)
	if err != nil || got.UserID != "u-1" {
		t.Fatalf("GetTechnician = %+v, %v; want owner u-1", got, err)
	}
	if _, err := s.SetAvailability(ctx, "missing", true); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.GetTechnician(ctx, "missing"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func testUsers(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash", Role: models.RoleRecruiter}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected id assigned")
	}

	dup := &models.User{Name: "Other", Email: "alice@example.com", PasswordHash: "hash", Role: models.RoleTechnician}
	if err := s.CreateUser(ctx, dup); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected duplicate email rejected, got %v", err)
	}

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	if err != nil || byEmail.ID != u.ID || byEmail.Role != models.RoleRecruiter || byEmail.PasswordHash != "hash" {
		t.Fatalf("GetUserByEmail = %+v, %v", byEmail, err)
	}
	byID, err := s.GetUserByID(ctx, u.ID)
	if err != nil || byID.Email != u.Email {
		t.Fatalf("GetUserByID = %+v, %v", byID, err)
	}
	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func missionIDs(ms []models.Mission) []string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}

package filter_test

import (
	"testing"

	"github.com/garnizeh/techstaff/internal/filter"
	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
)

func specialtyPtr(s models.Specialty) *models.Specialty { return &s }

func sample() []models.Mission {
	return []models.Mission{
		{ID: "1", Title: "Réparation moteur", Description: "BMW X5 surchauffe", Location: "Paris 8e", Type: specialtyPtr(models.SpecialtyMechanic), Status: models.MissionOpen},
		{ID: "2", Title: "Carrosserie", Description: "Mercedes rayures", Location: "Rue de Rivoli, Paris", Type: specialtyPtr(models.SpecialtyBodywork), Status: models.MissionInProgress},
		{ID: "3", Title: "Accueil client", Description: "Service premium", Location: "Lyon", Type: specialtyPtr(models.SpecialtyReception), Status: models.MissionOpen},
		{ID: "4", Title: "Vidange", Description: "Audi A4", Location: "Marseille", Status: models.MissionCompleted},
		{ID: "5", Title: "Diagnostic électronique", Description: "Peugeot 308", Location: "paris 5e", Type: specialtyPtr(models.SpecialtyMechanic), Status: models.MissionCancelled},
	}
}

func ids(ms []models.Mission) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMissionsIdentity(t *testing.T) {
	in := sample()
	got := filter.Missions(in, filter.MissionFilter{})
	if !equalIDs(ids(got), ids(in)) {
		t.Fatalf("empty filter must be identity, got %v", ids(got))
	}
	if len(filter.Missions(nil, filter.MissionFilter{})) != 0 {
		t.Fatalf("nil input must give an empty result")
	}
}

func TestMissions(t *testing.T) {
	tests := []struct {
		name string
		f    filter.MissionFilter
		want []string
	}{
		{name: "type", f: filter.MissionFilter{Type: models.SpecialtyMechanic}, want: []string{"1", "5"}},
		{name: "status", f: filter.MissionFilter{Status: models.MissionInProgress}, want: []string{"2"}},
		{name: "open only", f: filter.MissionFilter{OpenOnly: true}, want: []string{"1", "3"}},
		{name: "search title case-insensitive", f: filter.MissionFilter{Search: "CARROSSERIE"}, want: []string{"2"}},
		{name: "search location", f: filter.MissionFilter{Search: "paris"}, want: []string{"1", "2", "5"}},
		{name: "search description", f: filter.MissionFilter{Search: "audi"}, want: []string{"4"}},
		{name: "combined", f: filter.MissionFilter{Type: models.SpecialtyMechanic, OpenOnly: true, Search: "paris"}, want: []string{"1"}},
		{name: "no match", f: filter.MissionFilter{Search: "tracteur"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(filter.Missions(sample(), tt.f))
			if !equalIDs(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestMissionsIdempotent(t *testing.T) {
	filters := []filter.MissionFilter{
		{},
		{Type: models.SpecialtyMechanic},
		{OpenOnly: true, Search: "a"},
		{Status: models.MissionCancelled, Search: "peugeot"},
	}
	for _, f := range filters {
		once := filter.Missions(sample(), f)
		twice := filter.Missions(once, f)
		if !equalIDs(ids(once), ids(twice)) {
			t.Fatalf("filter %+v not idempotent: %v vs %v", f, ids(once), ids(twice))
		}
	}
}

func TestMissionsDoesNotMutateInput(t *testing.T) {
	in := sample()
	_ = filter.Missions(in, filter.MissionFilter{OpenOnly: true})
	if !equalIDs(ids(in), []string{"1", "2", "3", "4", "5"}) {
		t.Fatalf("input was modified: %v", ids(in))
	}
}

func TestNewMissionFilter(t *testing.T) {
	f, err := filter.NewMissionFilter("all", "active", false, "")
	if err != nil {
		t.Fatalf("NewMissionFilter: %v", err)
	}
	if f.Type != "" || f.Status != models.MissionOpen {
		t.Fatalf("unexpected filter %+v", f)
	}

	f, err = filter.NewMissionFilter("", "all", false, "")
	if err != nil || !f.IsZero() {
		t.Fatalf("expected zero filter, got %+v %v", f, err)
	}

	if _, err := filter.NewMissionFilter("painter", "", false, ""); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected unknown type rejected, got %v", err)
	}
	if _, err := filter.NewMissionFilter("", "draft", false, ""); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected draft rejected, got %v", err)
	}
}

func TestTechnicians(t *testing.T) {
	techs := []models.Technician{
		{ID: "1", Specialty: models.SpecialtyMechanic, Availability: true},
		{ID: "2", Specialty: models.SpecialtyBodywork, Availability: true},
		{ID: "3", Specialty: models.SpecialtyReception},
		{ID: "4", Specialty: models.SpecialtyMechanic, Availability: true},
	}

	if got := filter.Technicians(techs, filter.TechnicianFilter{}); len(got) != 4 {
		t.Fatalf("empty filter must keep all, got %d", len(got))
	}
	got := filter.Technicians(techs, filter.TechnicianFilter{AvailableOnly: true, Specialty: models.SpecialtyMechanic})
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "4" {
		t.Fatalf("unexpected technicians %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	techs := []models.Technician{{Availability: true}, {Availability: false}, {Availability: true}}
	s := filter.Summarize(sample(), techs)

	if s.TotalMissions != 5 || s.OpenMissions != 2 || s.AvailableTechnicians != 2 || s.TotalTechnicians != 3 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if s.MissionsByStatus[models.MissionInProgress] != 1 || s.MissionsByStatus[models.MissionCompleted] != 1 {
		t.Fatalf("unexpected per-status counts %+v", s.MissionsByStatus)
	}
}

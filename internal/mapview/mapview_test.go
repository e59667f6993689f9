package mapview_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/garnizeh/techstaff/internal/mapview"
	"github.com/garnizeh/techstaff/pkg/models"
)

func ptr[T any](v T) *T { return &v }

func missions() []models.Mission {
	return []models.Mission{
		{
			ID: "m1", Title: "Mécanicien H/F", Description: "Entretien courant", Location: "Paris 15e",
			Latitude: ptr(48.8414), Longitude: ptr(2.2990), Salary: ptr(180.0),
			Requirements: ptr("CAP mécanique"), Status: models.MissionOpen,
		},
		{ID: "m2", Title: "Sans position", Description: "d", Location: "Lyon", Status: models.MissionOpen},
		{
			ID: "m3", Title: "Carrossier", Description: "Réparation", Location: "Boulogne",
			Latitude: ptr(48.8397), Longitude: ptr(2.2399), Status: models.MissionInProgress,
		},
	}
}

func technicians() []models.Technician {
	return []models.Technician{
		{ID: "t1", Name: "Pierre Martin", Specialty: models.SpecialtyBodywork, Location: models.Location{Lat: 48.86, Lng: 2.34}, Availability: true},
		{ID: "t2", Name: "Sophie Bernard", Specialty: models.SpecialtyReception, Location: models.Location{Lat: 48.87, Lng: 2.33}},
	}
}

func TestProjectSkipsMissionsWithoutCoordinates(t *testing.T) {
	p, err := mapview.Project(mapview.Input{Missions: missions(), Technicians: technicians()})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if p.View != mapview.DefaultView {
		t.Fatalf("unexpected view %+v", p.View)
	}
	if p.Focus != nil {
		t.Fatalf("expected no focus, got %+v", p.Focus)
	}

	var ids []string
	for _, m := range p.Markers {
		ids = append(ids, m.ID)
	}
	want := []string{"mission:m1", "mission:m3", "technician:t1", "technician:t2"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("markers = %v, want %v", ids, want)
	}
	for _, m := range p.Markers[:2] {
		if m.Kind != mapview.KindMission || m.Variant != mapview.VariantNormal {
			t.Fatalf("unexpected mission marker %+v", m)
		}
	}
	for _, m := range p.Markers[2:] {
		if m.Kind != mapview.KindTechnician || m.Variant != mapview.VariantTechnician {
			t.Fatalf("unexpected technician marker %+v", m)
		}
	}
}

func TestProjectHighlight(t *testing.T) {
	p, err := mapview.Project(mapview.Input{Missions: missions(), HighlightedID: "m3"})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if p.Markers[0].Variant != mapview.VariantNormal || p.Markers[1].Variant != mapview.VariantHighlighted {
		t.Fatalf("unexpected variants %+v", p.Markers)
	}
	want := &mapview.Focus{
		MarkerID:  "mission:m3",
		Position:  mapview.Position{Lat: 48.8397, Lng: 2.2399},
		Zoom:      mapview.FocusZoom,
		OpenPopup: true,
	}
	if !reflect.DeepEqual(p.Focus, want) {
		t.Fatalf("focus = %+v, want %+v", p.Focus, want)
	}
}

func TestProjectHighlightWithoutCoordinates(t *testing.T) {
	p, err := mapview.Project(mapview.Input{Missions: missions(), HighlightedID: "m2"})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if p.Focus != nil {
		t.Fatalf("mission without coordinates must not be focused")
	}
	for _, m := range p.Markers {
		if m.Variant == mapview.VariantHighlighted {
			t.Fatalf("unexpected highlighted marker %+v", m)
		}
	}
}

func TestPopups(t *testing.T) {
	p, err := mapview.Project(mapview.Input{Missions: missions(), Technicians: technicians()})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	full := "Mécanicien H/F\nEntretien courant\n📍 Paris 15e\n💰 180 €/jour\n⚡ CAP mécanique\nStatut: open"
	if p.Markers[0].Popup != full {
		t.Fatalf("mission popup:\n%q\nwant\n%q", p.Markers[0].Popup, full)
	}

	bare := "Carrossier\nRéparation\n📍 Boulogne\nStatut: in-progress"
	if p.Markers[1].Popup != bare {
		t.Fatalf("mission popup:\n%q\nwant\n%q", p.Markers[1].Popup, bare)
	}

	if got := p.Markers[2].Popup; got != "Pierre Martin\nSpécialité: Carrosserie\nDisponible" {
		t.Fatalf("technician popup %q", got)
	}
	if got := p.Markers[3].Popup; !strings.HasSuffix(got, "Indisponible") {
		t.Fatalf("technician popup %q", got)
	}
}

func TestMissionPopupBlankRequirements(t *testing.T) {
	for _, req := range []string{"", "   "} {
		in := mapview.Input{Missions: []models.Mission{{
			ID: "m9", Title: "Carrossier", Description: "Réparation", Location: "Boulogne",
			Latitude: ptr(48.83), Longitude: ptr(2.24), Requirements: ptr(req), Status: models.MissionOpen,
		}}}
		p, err := mapview.Project(in)
		if err != nil {
			t.Fatalf("Project: %v", err)
		}
		want := "Carrossier\nRéparation\n📍 Boulogne\nStatut: open"
		if got := p.Markers[0].Popup; got != want {
			t.Fatalf("requirements %q: popup %q, want %q", req, got, want)
		}
	}
}

func TestProjectEmptyAndDeterministic(t *testing.T) {
	p, err := mapview.Project(mapview.Input{})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if p.Markers == nil || len(p.Markers) != 0 {
		t.Fatalf("expected empty non-nil markers, got %#v", p.Markers)
	}

	in := mapview.Input{Missions: missions(), Technicians: technicians(), HighlightedID: "m1"}
	a, _ := mapview.Project(in)
	b, _ := mapview.Project(in)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("projection is not deterministic")
	}
}

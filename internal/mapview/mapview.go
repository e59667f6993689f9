// Package mapview turns missions and technicians into map marker descriptors.
// It knows nothing about the map widget; the client draws what it receives.
package mapview

import (
	"fmt"

	"github.com/garnizeh/techstaff/pkg/models"
)

type Kind string

const (
	KindMission    Kind = "mission"
	KindTechnician Kind = "technician"
)

type Variant string

const (
	VariantNormal      Variant = "normal"
	VariantHighlighted Variant = "highlighted"
	VariantTechnician  Variant = "technician"
)

// FocusZoom is the zoom level used when centering on a highlighted mission.
const FocusZoom = 13

// DefaultView centres the map on Paris.
var DefaultView = View{Center: Position{Lat: 48.8566, Lng: 2.3522}, Zoom: 10}

type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type View struct {
	Center Position `json:"center"`
	Zoom   int      `json:"zoom"`
}

type Marker struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	RefID    string   `json:"refId"`
	Position Position `json:"position"`
	Variant  Variant  `json:"variant"`
	Popup    string   `json:"popup"`
}

// Focus asks the client to centre on a marker and open its popup.
type Focus struct {
	MarkerID  string   `json:"markerId"`
	Position  Position `json:"position"`
	Zoom      int      `json:"zoom"`
	OpenPopup bool     `json:"openPopup"`
}

type Input struct {
	Missions      []models.Mission
	Technicians   []models.Technician
	HighlightedID string
}

type Projection struct {
	View    View     `json:"view"`
	Markers []Marker `json:"markers"`
	Focus   *Focus   `json:"focus,omitempty"`
}

// Project builds one marker per mission with coordinates, in input order,
// followed by one marker per technician. Missions without coordinates are
// skipped. The same input always yields the same projection.
func Project(in Input) (Projection, error) {
	p := Projection{
		View:    DefaultView,
		Markers: make([]Marker, 0, len(in.Missions)+len(in.Technicians)),
	}

	for i := range in.Missions {
		m := &in.Missions[i]
		if !m.HasCoordinates() {
			continue
		}
		popup, err := missionPopup(m)
		if err != nil {
			return Projection{}, fmt.Errorf("mission %s popup: %w", m.ID, err)
		}
		mk := Marker{
			ID:       markerID(KindMission, m.ID),
			Kind:     KindMission,
			RefID:    m.ID,
			Position: Position{Lat: *m.Latitude, Lng: *m.Longitude},
			Variant:  VariantNormal,
			Popup:    popup,
		}
		if in.HighlightedID != "" && m.ID == in.HighlightedID {
			mk.Variant = VariantHighlighted
			p.Focus = &Focus{MarkerID: mk.ID, Position: mk.Position, Zoom: FocusZoom, OpenPopup: true}
		}
		p.Markers = append(p.Markers, mk)
	}

	for i := range in.Technicians {
		t := &in.Technicians[i]
		popup, err := technicianPopup(t)
		if err != nil {
			return Projection{}, fmt.Errorf("technician %s popup: %w", t.ID, err)
		}
		p.Markers = append(p.Markers, Marker{
			ID:       markerID(KindTechnician, t.ID),
			Kind:     KindTechnician,
			RefID:    t.ID,
			Position: Position{Lat: t.Location.Lat, Lng: t.Location.Lng},
			Variant:  VariantTechnician,
			Popup:    popup,
		})
	}

	return p, nil
}

func markerID(k Kind, id string) string {
	return string(k) + ":" + id
}

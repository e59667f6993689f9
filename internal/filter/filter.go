// Package filter narrows already fetched missions and technicians for the list
// and map views. Every function is pure: inputs are never modified and the
// relative order of the input is kept.
package filter

import (
	"strings"

	"github.com/garnizeh/techstaff/pkg/models"
)

// All is the sentinel the UI sends for "no restriction".
const All = "all"

// MissionFilter is the zero value when nothing is selected.
type MissionFilter struct {
	Type     models.Specialty
	Status   models.MissionStatus
	OpenOnly bool
	Search   string
}

// NewMissionFilter builds a MissionFilter from raw UI values. Empty strings and
// "all" leave a dimension unrestricted; status accepts legacy aliases.
func NewMissionFilter(typ, status string, openOnly bool, search string) (MissionFilter, error) {
	f := MissionFilter{OpenOnly: openOnly, Search: search}
	if typ != "" && typ != All {
		sp, err := models.ParseSpecialty(typ)
		if err != nil {
			return MissionFilter{}, err
		}
		f.Type = sp
	}
	if status != "" && status != All {
		st, err := models.ParseMissionStatus(status)
		if err != nil {
			return MissionFilter{}, err
		}
		f.Status = st
	}
	return f, nil
}

func (f MissionFilter) IsZero() bool {
	return f == MissionFilter{}
}

// Match reports whether m passes every set dimension.
func (f MissionFilter) Match(m *models.Mission) bool {
	if f.Type != "" && (m.Type == nil || *m.Type != f.Type) {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.OpenOnly && m.Status != models.MissionOpen {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(m.Title), needle) &&
			!strings.Contains(strings.ToLower(m.Description), needle) &&
			!strings.Contains(strings.ToLower(m.Location), needle) {
			return false
		}
	}
	return true
}

// Missions returns the missions matching f. With a zero filter the result has
// the same content and order as the input.
func Missions(missions []models.Mission, f MissionFilter) []models.Mission {
	out := make([]models.Mission, 0, len(missions))
	for i := range missions {
		if f.Match(&missions[i]) {
			out = append(out, missions[i])
		}
	}
	return out
}

type TechnicianFilter struct {
	AvailableOnly bool
	Specialty     models.Specialty
}

func (f TechnicianFilter) Match(t *models.Technician) bool {
	if f.AvailableOnly && !t.Availability {
		return false
	}
	if f.Specialty != "" && t.Specialty != f.Specialty {
		return false
	}
	return true
}

func Technicians(technicians []models.Technician, f TechnicianFilter) []models.Technician {
	out := make([]models.Technician, 0, len(technicians))
	for i := range technicians {
		if f.Match(&technicians[i]) {
			out = append(out, technicians[i])
		}
	}
	return out
}

// Stats are the sidebar counters, computed over the unfiltered sets.
type Stats struct {
	TotalMissions        int                          `json:"totalMissions"`
	OpenMissions         int                          `json:"openMissions"`
	MissionsByStatus     map[models.MissionStatus]int `json:"missionsByStatus"`
	TotalTechnicians     int                          `json:"totalTechnicians"`
	AvailableTechnicians int                          `json:"availableTechnicians"`
}

func Summarize(missions []models.Mission, technicians []models.Technician) Stats {
	s := Stats{
		TotalMissions:    len(missions),
		MissionsByStatus: make(map[models.MissionStatus]int),
		TotalTechnicians: len(technicians),
	}
	for _, m := range missions {
		s.MissionsByStatus[m.Status]++
		if m.Status == models.MissionOpen {
			s.OpenMissions++
		}
	}
	for _, t := range technicians {
		if t.Availability {
			s.AvailableTechnicians++
		}
	}
	return s
}

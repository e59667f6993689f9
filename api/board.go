package api

import (
	"net/http"

	"github.com/garnizeh/techstaff/internal/filter"
	"github.com/garnizeh/techstaff/internal/mapview"
	"github.com/garnizeh/techstaff/internal/marketplace"
	"github.com/garnizeh/techstaff/pkg/models"
)

// BoardHandler serves the combined list and map view: filtered missions and
// technicians, their markers and the sidebar counters.
type BoardHandler struct {
	missions    *marketplace.MissionService
	technicians *marketplace.TechnicianService
}

func NewBoardHandler(missions *marketplace.MissionService, technicians *marketplace.TechnicianService) *BoardHandler {
	return &BoardHandler{missions: missions, technicians: technicians}
}

type boardResponse struct {
	Missions    []models.Mission    `json:"missions"`
	Technicians []models.Technician `json:"technicians"`
	Map         mapview.Projection  `json:"map"`
	Stats       filter.Stats        `json:"stats"`
}

func (h *BoardHandler) Board(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	openOnly, err := queryBool(q.Get("open_only"), "open_only")
	if err != nil {
		writeError(w, r, err)
		return
	}
	availableOnly, err := queryBool(q.Get("available_only"), "available_only")
	if err != nil {
		writeError(w, r, err)
		return
	}
	mf, err := filter.NewMissionFilter(q.Get("type"), q.Get("status"), openOnly, q.Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	missions, err := h.missions.ListMissions(r.Context(), "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	technicians, err := h.technicians.ListTechnicians(r.Context(), false, "")
	if err != nil {
		writeError(w, r, err)
		return
	}

	shownMissions := filter.Missions(missions, mf)
	shownTechnicians := filter.Technicians(technicians, filter.TechnicianFilter{AvailableOnly: availableOnly})

	proj, err := mapview.Project(mapview.Input{
		Missions:      shownMissions,
		Technicians:   shownTechnicians,
		HighlightedID: q.Get("highlight"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, boardResponse{
		Missions:    shownMissions,
		Technicians: shownTechnicians,
		Map:         proj,
		Stats:       filter.Summarize(missions, technicians),
	}, http.StatusOK)
}

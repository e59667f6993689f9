package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/techstaff/internal/marketplace"
	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
)

type MissionsHandler struct {
	missions     *marketplace.MissionService
	applications *marketplace.ApplicationService
	decoder      *requestDecoder
}

func NewMissionsHandler(missions *marketplace.MissionService, applications *marketplace.ApplicationService, decoder *requestDecoder) *MissionsHandler {
	return &MissionsHandler{missions: missions, applications: applications, decoder: decoder}
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Total: len(items)}
}

func (h *MissionsHandler) ListMissions(w http.ResponseWriter, r *http.Request) {
	items, err := h.missions.ListMissions(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, newList(items), http.StatusOK)
}

func (h *MissionsHandler) GetMission(w http.ResponseWriter, r *http.Request) {
	m, err := h.missions.GetMission(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, m, http.StatusOK)
}

func (h *MissionsHandler) CreateMission(w http.ResponseWriter, r *http.Request) {
	p, _ := CurrentUser(r.Context())
	var in marketplace.MissionInput
	if err := h.decoder.decode(r, schemaMission, &in); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.missions.CreateMission(r.Context(), in, p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, m, http.StatusCreated)
}

func (h *MissionsHandler) UpdateMission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.owned(r, id); err != nil {
		writeError(w, r, err)
		return
	}
	var patch marketplace.MissionPatch
	if err := h.decoder.decode(r, schemaMission, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.missions.UpdateMission(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, m, http.StatusOK)
}

func (h *MissionsHandler) DeleteMission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.owned(r, id); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.missions.DeleteMission(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, m, http.StatusOK)
}

// Apply creates an application for the mission named in the path.
func (h *MissionsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	p, _ := CurrentUser(r.Context())
	var in marketplace.ApplicationInput
	if err := h.decoder.decode(r, schemaApplication, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.MissionID = mux.Vars(r)["id"]
	a, err := h.applications.CreateApplication(r.Context(), in, p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, a, http.StatusCreated)
}

// owned loads mission id and checks the caller posted it.
func (h *MissionsHandler) owned(r *http.Request, id string) (*models.Mission, error) {
	return ownedMission(r, h.missions, id)
}

func ownedMission(r *http.Request, missions *marketplace.MissionService, id string) (*models.Mission, error) {
	p, ok := CurrentUser(r.Context())
	if !ok {
		return nil, apperr.New(apperr.KindUnauthenticated, "authentication required")
	}
	m, err := missions.GetMission(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if m.RecruiterID != p.UserID {
		return nil, apperr.Newf(apperr.KindForbidden, "mission %q belongs to another recruiter", id)
	}
	return m, nil
}

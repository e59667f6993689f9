package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/techstaff/internal/marketplace"
	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
)

type ApplicationsHandler struct {
	applications *marketplace.ApplicationService
	missions     *marketplace.MissionService
	decoder      *requestDecoder
}

func NewApplicationsHandler(applications *marketplace.ApplicationService, missions *marketplace.MissionService, decoder *requestDecoder) *ApplicationsHandler {
	return &ApplicationsHandler{applications: applications, missions: missions, decoder: decoder}
}

type decisionRequest struct {
	Status string `json:"status"`
}

// ListApplications shows recruiters the applications of one of their
// missions and technicians their own applications.
func (h *ApplicationsHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	p, _ := CurrentUser(r.Context())
	missionID := r.URL.Query().Get("mission_id")

	var (
		items []models.Application
		err   error
	)
	if p.Role == models.RoleRecruiter {
		if missionID == "" {
			writeError(w, r, apperr.Validation("mission_id is required"))
			return
		}
		if _, err := ownedMission(r, h.missions, missionID); err != nil {
			writeError(w, r, err)
			return
		}
		items, err = h.applications.ListApplications(r.Context(), missionID)
	} else {
		items, err = h.applications.ListApplicantApplications(r.Context(), p.UserID, missionID)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, newList(items), http.StatusOK)
}

func (h *ApplicationsHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	a, err := h.visible(r, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, a, http.StatusOK)
}

func (h *ApplicationsHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	p, _ := CurrentUser(r.Context())
	var in marketplace.ApplicationInput
	if err := h.decoder.decode(r, schemaApplication, &in); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.applications.CreateApplication(r.Context(), in, p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, a, http.StatusCreated)
}

// DecideApplication accepts or rejects an application to one of the caller's
// missions.
func (h *ApplicationsHandler) DecideApplication(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	a, err := h.applications.GetApplication(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := ownedMission(r, h.missions, a.MissionID); err != nil {
		writeError(w, r, err)
		return
	}

	var req decisionRequest
	if err := h.decoder.decode(r, schemaDecision, &req); err != nil {
		writeError(w, r, err)
		return
	}
	decided, err := h.applications.DecideApplication(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, decided, http.StatusOK)
}

// visible returns the application when the caller submitted it or owns its
// mission.
func (h *ApplicationsHandler) visible(r *http.Request, id string) (*models.Application, error) {
	p, _ := CurrentUser(r.Context())
	a, err := h.applications.GetApplication(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if a.ApplicantID == p.UserID {
		return a, nil
	}
	if _, err := ownedMission(r, h.missions, a.MissionID); err != nil {
		return nil, err
	}
	return a, nil
}

package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/garnizeh/techstaff/internal/marketplace"
	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
)

type TechniciansHandler struct {
	technicians *marketplace.TechnicianService
	decoder     *requestDecoder
}

func NewTechniciansHandler(technicians *marketplace.TechnicianService, decoder *requestDecoder) *TechniciansHandler {
	return &TechniciansHandler{technicians: technicians, decoder: decoder}
}

type availabilityRequest struct {
	Availability bool `json:"availability"`
}

func (h *TechniciansHandler) ListTechnicians(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	available, err := queryBool(q.Get("available"), "available")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.technicians.ListTechnicians(r.Context(), available, q.Get("specialty"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, newList(items), http.StatusOK)
}

func (h *TechniciansHandler) GetTechnician(w http.ResponseWriter, r *http.Request) {
	t, err := h.technicians.GetTechnician(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, t, http.StatusOK)
}

func (h *TechniciansHandler) RegisterTechnician(w http.ResponseWriter, r *http.Request) {
	p, _ := CurrentUser(r.Context())
	var in marketplace.TechnicianInput
	if err := h.decoder.decode(r, schemaTechnician, &in); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.technicians.Register(r.Context(), in, p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, t, http.StatusCreated)
}

func (h *TechniciansHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := h.decoder.decode(r, schemaAvailability, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := mux.Vars(r)["id"]
	if _, err := ownedTechnician(r, h.technicians, id); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.technicians.SetAvailability(r.Context(), id, req.Availability)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, t, http.StatusOK)
}

// ownedTechnician loads a technician and checks the caller registered it.
func ownedTechnician(r *http.Request, technicians *marketplace.TechnicianService, id string) (*models.Technician, error) {
	p, ok := CurrentUser(r.Context())
	if !ok {
		return nil, apperr.New(apperr.KindUnauthenticated, "authentication required")
	}
	t, err := technicians.GetTechnician(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if t.UserID != p.UserID {
		return nil, apperr.Newf(apperr.KindForbidden, "technician %q belongs to another user", id)
	}
	return t, nil
}

// queryBool parses an optional boolean query parameter; empty is false.
func queryBool(v, name string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperr.Newf(apperr.KindValidation, "%s must be true or false", name)
	}
	return b, nil
}

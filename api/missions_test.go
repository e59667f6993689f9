package api_test

import (
	"net/http"
	"testing"

	"github.com/garnizeh/techstaff/api"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository/mock"
)

type missionList struct {
	Items []models.Mission `json:"items"`
	Total int              `json:"total"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func TestMissionEndpoints(t *testing.T) {
	h := newRouter(t, mock.New(), api.Deps{})
	recruiter, recruiterID := signup(t, h, "rec@example.com", "recruiter")
	other, _ := signup(t, h, "other@example.com", "recruiter")
	tech, _ := signup(t, h, "tech@example.com", "technician")

	// anonymous and technician callers cannot post
	wantStatus(t, do(t, h, http.MethodPost, "/v1/missions", "", map[string]any{"title": "x"}), http.StatusUnauthorized)
	wantStatus(t, do(t, h, http.MethodPost, "/v1/missions", tech, map[string]any{"title": "x"}), http.StatusForbidden)

	w := do(t, h, http.MethodPost, "/v1/missions", recruiter, map[string]any{
		"title":       "Mécanicien H/F",
		"description": "Atelier toutes marques",
		"location":    "Paris",
		"latitude":    48.8566,
		"longitude":   2.3522,
		"salary":      180,
		"type":        "mechanic",
	})
	wantStatus(t, w, http.StatusCreated)
	created := decode[models.Mission](t, w)
	if created.ID == "" || created.Status != models.MissionOpen || created.RecruiterID != recruiterID {
		t.Fatalf("unexpected mission %+v", created)
	}

	w = do(t, h, http.MethodGet, "/v1/missions/"+created.ID, "", nil)
	wantStatus(t, w, http.StatusOK)
	if got := decode[models.Mission](t, w); got.Title != created.Title || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("get returned %+v", got)
	}

	// legacy alias filter
	w = do(t, h, http.MethodGet, "/v1/missions?status=active", "", nil)
	wantStatus(t, w, http.StatusOK)
	if l := decode[missionList](t, w); l.Total != 1 {
		t.Fatalf("expected 1 open mission, got %d", l.Total)
	}
	w = do(t, h, http.MethodGet, "/v1/missions?status=draft", "", nil)
	wantStatus(t, w, http.StatusBadRequest)

	// another recruiter cannot touch it
	wantStatus(t, do(t, h, http.MethodPut, "/v1/missions/"+created.ID, other, map[string]any{"status": "cancelled"}), http.StatusForbidden)

	w = do(t, h, http.MethodPut, "/v1/missions/"+created.ID, recruiter, map[string]any{"status": "in-progress", "salary": 200})
	wantStatus(t, w, http.StatusOK)
	updated := decode[models.Mission](t, w)
	if updated.Status != models.MissionInProgress || *updated.Salary != 200 || updated.Title != created.Title {
		t.Fatalf("unexpected update %+v", updated)
	}

	w = do(t, h, http.MethodPut, "/v1/missions/"+created.ID, recruiter, `{"salary": null}`)
	wantStatus(t, w, http.StatusOK)
	if cleared := decode[models.Mission](t, w); cleared.Salary != nil || cleared.Title != created.Title {
		t.Fatalf("explicit null must clear salary only: %+v", cleared)
	}

	w = do(t, h, http.MethodPut, "/v1/missions/"+created.ID, recruiter, map[string]any{"status": "completed"})
	wantStatus(t, w, http.StatusOK)
	w = do(t, h, http.MethodPut, "/v1/missions/"+created.ID, recruiter, map[string]any{"status": "open"})
	wantStatus(t, w, http.StatusConflict)
	if e := decode[errorBody](t, w); e.Error != "invalid_transition" {
		t.Fatalf("unexpected error %+v", e)
	}

	wantStatus(t, do(t, h, http.MethodDelete, "/v1/missions/"+created.ID, recruiter, nil), http.StatusOK)
	w = do(t, h, http.MethodGet, "/v1/missions/"+created.ID, "", nil)
	wantStatus(t, w, http.StatusNotFound)
	if e := decode[errorBody](t, w); e.Error != "not_found" {
		t.Fatalf("unexpected error %+v", e)
	}
	wantStatus(t, do(t, h, http.MethodDelete, "/v1/missions/"+created.ID, recruiter, nil), http.StatusNotFound)
}

func TestCreateMissionMissingTitle(t *testing.T) {
	h := newRouter(t, mock.New(), api.Deps{})
	recruiter, _ := signup(t, h, "rec@example.com", "recruiter")

	before := decode[missionList](t, do(t, h, http.MethodGet, "/v1/missions", "", nil))

	w := do(t, h, http.MethodPost, "/v1/missions", recruiter, map[string]any{"description": "d", "location": "Paris"})
	wantStatus(t, w, http.StatusBadRequest)
	if e := decode[errorBody](t, w); e.Error != "validation_error" || e.Message != "missing required fields: title" {
		t.Fatalf("unexpected error %+v", e)
	}

	after := decode[missionList](t, do(t, h, http.MethodGet, "/v1/missions", "", nil))
	if after.Total != before.Total || after.Items == nil {
		t.Fatalf("list changed: before %d after %d", before.Total, after.Total)
	}
}

func TestCreateMissionSchemaErrors(t *testing.T) {
	h := newRouter(t, mock.New(), api.Deps{})
	recruiter, _ := signup(t, h, "rec@example.com", "recruiter")

	tests := []struct {
		name string
		body any
	}{
		{name: "not an object", body: `[1,2]`},
		{name: "malformed", body: `{"title":`},
		{name: "latitude as string", body: map[string]any{"title": "t", "description": "d", "location": "l", "latitude": "48.8", "longitude": 2.3}},
		{name: "unknown status", body: map[string]any{"title": "t", "description": "d", "location": "l", "status": "draft"}},
		{name: "latitude alone", body: map[string]any{"title": "t", "description": "d", "location": "l", "latitude": 48.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/missions", recruiter, tt.body)
			wantStatus(t, w, http.StatusBadRequest)
		})
	}
}

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/garnizeh/techstaff/api"
	"github.com/garnizeh/techstaff/internal/config"
	"github.com/garnizeh/techstaff/pkg/repository/mock"
)

const testSecret = "testsecret"

func TestMain(m *testing.M) {
	api.SetLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	goleak.VerifyTestMain(m)
}

func testConfig() *config.Config {
	return &config.Config{
		Env:           "development",
		JWTSecret:     testSecret,
		TokenDuration: time.Hour,
		CORSOrigin:    "*",
	}
}

func newRouter(t *testing.T, store *mock.Store, deps api.Deps) http.Handler {
	t.Helper()
	deps.Store = store
	r, err := api.SetupRoutes(testConfig(), "test", "now", deps)
	if err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}
	return r
}

// do sends body as JSON (raw when it is a string) and returns the recorder.
func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d got %d body=%s", status, w.Code, w.Body.String())
	}
}

// signup registers a user with role and returns its token and id.
func signup(t *testing.T, h http.Handler, email, role string) (string, string) {
	t.Helper()
	w := do(t, h, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"name": "User " + role, "email": email, "password": "password123", "role": role,
	})
	wantStatus(t, w, http.StatusCreated)
	resp := decode[struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}](t, w)
	return resp.Token, resp.User.ID
}

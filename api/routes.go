package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/garnizeh/techstaff/internal/config"
	"github.com/garnizeh/techstaff/internal/marketplace"
	"github.com/garnizeh/techstaff/internal/ratelimit"
	"github.com/garnizeh/techstaff/internal/security"
	"github.com/garnizeh/techstaff/internal/storage"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

// Deps are the backends the router is built over. Limiter and Uploader may be
// nil: rate limiting is then off and the upload route is not mounted.
type Deps struct {
	Store    repository.Store
	Limiter  ratelimit.Limiter
	Uploader storage.Uploader
}

func SetupRoutes(cfg *config.Config, version, buildTime string, deps Deps) (*mux.Router, error) {
	decoder, err := newRequestDecoder()
	if err != nil {
		return nil, fmt.Errorf("load request schemas: %w", err)
	}

	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware(cfg.CORSOrigin))
	r.Use(RecoveryMiddleware)

	// Services
	missions := marketplace.NewMissionService(deps.Store, logger)
	applications := marketplace.NewApplicationService(deps.Store, logger)
	technicians := marketplace.NewTechnicianService(deps.Store, logger)
	accounts := marketplace.NewAccountService(deps.Store, logger)
	issuer := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration)

	// Handlers
	systemHandler := NewSystemHandler(deps.Store)
	authHandler := NewAuthHandler(accounts, issuer, decoder)
	missionsHandler := NewMissionsHandler(missions, applications, decoder)
	applicationsHandler := NewApplicationsHandler(applications, missions, decoder)
	techniciansHandler := NewTechniciansHandler(technicians, decoder)
	boardHandler := NewBoardHandler(missions, technicians)

	authed := JWTAuthMiddleware(issuer)
	recruiter := RequireRole(models.RoleRecruiter)
	limited := RateLimit(deps.Limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.TrustProxy)

	// chain wraps h so the first middleware runs first.
	chain := func(h http.HandlerFunc, mws ...mux.MiddlewareFunc) http.Handler {
		var out http.Handler = h
		for i := len(mws) - 1; i >= 0; i-- {
			out = mws[i](out)
		}
		return out
	}

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods(http.MethodGet)
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Auth
	v1.Handle("/auth/signup", chain(authHandler.Signup, limited)).Methods(http.MethodPost)
	v1.Handle("/auth/signin", chain(authHandler.Signin, limited)).Methods(http.MethodPost)
	v1.Handle("/auth/signout", chain(authHandler.Signout, authed)).Methods(http.MethodPost)
	v1.Handle("/auth/me", chain(authHandler.Me, authed)).Methods(http.MethodGet)

	// Missions
	v1.HandleFunc("/missions", missionsHandler.ListMissions).Methods(http.MethodGet)
	v1.HandleFunc("/missions/{id}", missionsHandler.GetMission).Methods(http.MethodGet)
	v1.Handle("/missions", chain(missionsHandler.CreateMission, limited, authed, recruiter)).Methods(http.MethodPost)
	v1.Handle("/missions/{id}", chain(missionsHandler.UpdateMission, authed, recruiter)).Methods(http.MethodPut)
	v1.Handle("/missions/{id}", chain(missionsHandler.DeleteMission, authed, recruiter)).Methods(http.MethodDelete)
	v1.Handle("/missions/{id}/apply", chain(missionsHandler.Apply, limited, authed)).Methods(http.MethodPost)

	// Applications
	v1.Handle("/applications", chain(applicationsHandler.ListApplications, authed)).Methods(http.MethodGet)
	v1.Handle("/applications", chain(applicationsHandler.CreateApplication, limited, authed)).Methods(http.MethodPost)
	v1.Handle("/applications/{id}", chain(applicationsHandler.GetApplication, authed)).Methods(http.MethodGet)
	v1.Handle("/applications/{id}", chain(applicationsHandler.DecideApplication, authed, recruiter)).Methods(http.MethodPut)

	// Technicians
	v1.HandleFunc("/technicians", techniciansHandler.ListTechnicians).Methods(http.MethodGet)
	v1.HandleFunc("/technicians/{id}", techniciansHandler.GetTechnician).Methods(http.MethodGet)
	v1.Handle("/technicians", chain(techniciansHandler.RegisterTechnician, limited, authed)).Methods(http.MethodPost)
	v1.Handle("/technicians/{id}/availability", chain(techniciansHandler.SetAvailability, authed)).Methods(http.MethodPatch)

	// Board
	v1.HandleFunc("/board", boardHandler.Board).Methods(http.MethodGet)

	// Uploads
	if deps.Uploader != nil {
		uploadsHandler := NewUploadsHandler(deps.Uploader, cfg.Uploads.MaxBytes)
		v1.Handle("/uploads/cv", chain(uploadsHandler.UploadCV, limited, authed)).Methods(http.MethodPost)

		if cfg.Uploads.Dir != "" && cfg.Uploads.BaseURL != "" {
			prefix := strings.TrimRight(cfg.Uploads.BaseURL, "/") + "/"
			r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, noListing(http.FileServer(http.Dir(cfg.Uploads.Dir))))).Methods(http.MethodGet)
		}
	}

	// Preflight requests are answered by CORSMiddleware. Registered last so it
	// only catches OPTIONS requests.
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r, nil
}

// noListing hides directory indexes of the upload store.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

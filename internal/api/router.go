package api

import (
	"log/slog"
	"net/http"
	"os"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/teamroster/internal/api/handler"
	"github.com/daap14/teamroster/internal/api/middleware"
	"github.com/daap14/teamroster/internal/api/validation"
	"github.com/daap14/teamroster/internal/blob"
	"github.com/daap14/teamroster/internal/i18n"
	"github.com/daap14/teamroster/internal/team"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger     handler.DBPinger
	Version      string
	Teams        team.Repository
	Blobs        blob.Store
	Validator    *validation.TeamValidator
	Catalog      *i18n.Catalog
	AdminKeyHash []byte // admin routes are not mounted when empty
	ImageBaseURL string
	MaxImageKB   int64
	StorageRoot  string // served under /storage when set
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	catalog := deps.Catalog
	if catalog == nil {
		var err error
		if catalog, err = i18n.Default(); err != nil {
			slog.Error("failed to load message catalogs; responses use message keys", "error", err)
		}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if catalog != nil {
		r.Use(i18n.Middleware(catalog))
	}
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	if deps.DBPinger != nil {
		healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
		r.Get("/health", healthHandler.ServeHTTP)
	}

	if deps.Teams == nil {
		return r
	}

	publicHandler := handler.NewPublicTeamHandler(deps.Teams, deps.ImageBaseURL)
	r.Get("/public/teams", publicHandler.List)

	if len(deps.AdminKeyHash) > 0 && deps.Blobs != nil && deps.Validator != nil {
		adminHandler := handler.NewAdminTeamHandler(deps.Teams, deps.Blobs, deps.Validator, deps.ImageBaseURL, deps.MaxImageKB)
		r.Route("/admin/teams", func(r chi.Router) {
			r.Use(middleware.AdminKey(deps.AdminKeyHash))
			r.Get("/", adminHandler.List)
			r.Post("/", adminHandler.Create)
			r.Get("/{id}", adminHandler.GetByID)
			r.Put("/{id}", adminHandler.Update)
			r.Patch("/{id}", adminHandler.Update)
			r.Delete("/{id}", adminHandler.Delete)
		})
	}

	if deps.StorageRoot != "" {
		files := http.FileServer(http.FS(fileOnlyFS{fs: os.DirFS(deps.StorageRoot)}))
		r.Handle("/storage/*", http.StripPrefix("/storage", files))
	}

	return r
}

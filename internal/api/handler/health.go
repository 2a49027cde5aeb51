package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/daap14/teamroster/internal/api/middleware"
	"github.com/daap14/teamroster/internal/api/response"
)

// DBPinger reports whether the team store is reachable.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
	}
}

type databaseStatus struct {
	Connected bool `json:"connected"`
}

type healthData struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Database databaseStatus `json:"database"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	connected := true
	if err := h.db.Ping(ctx); err != nil {
		middleware.Logger(ctx).Warn("database ping failed", "error", err)
		connected = false
	}

	status := "healthy"
	if !connected {
		status = "degraded"
	}

	response.Success(w, status, healthData{
		Status:   status,
		Version:  h.version,
		Database: databaseStatus{Connected: connected},
	})
}

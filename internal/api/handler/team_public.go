package handler

import (
	"net/http"

	"github.com/daap14/teamroster/internal/api/middleware"
	"github.com/daap14/teamroster/internal/api/response"
	"github.com/daap14/teamroster/internal/i18n"
	"github.com/daap14/teamroster/internal/team"
)

// PublicTeamHandler serves the read-only team listing.
type PublicTeamHandler struct {
	repo      team.Repository
	presenter teamPresenter
}

// NewPublicTeamHandler creates a new PublicTeamHandler.
func NewPublicTeamHandler(repo team.Repository, imageBaseURL string) *PublicTeamHandler {
	return &PublicTeamHandler{repo: repo, presenter: teamPresenter{imageBaseURL: imageBaseURL}}
}

// List handles GET /public/teams: every team, oldest first.
func (h *PublicTeamHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	teams, err := h.repo.ListAll(ctx)
	if err != nil {
		middleware.Logger(ctx).Error("failed to list public teams", "error", err)
		response.Failure(w, i18n.T(ctx, "error.internal"))
		return
	}

	response.Success(w, i18n.T(ctx, "teams.list"), h.presenter.many(teams))
}

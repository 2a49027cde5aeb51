package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daap14/teamroster/internal/api/middleware"
	"github.com/daap14/teamroster/internal/api/response"
	"github.com/daap14/teamroster/internal/api/validation"
	"github.com/daap14/teamroster/internal/blob"
	"github.com/daap14/teamroster/internal/i18n"
	"github.com/daap14/teamroster/internal/team"
)

// AdminPageSize is the fixed page size of the admin team list.
const AdminPageSize = 5

// AdminTeamHandler handles the authenticated team CRUD endpoints.
type AdminTeamHandler struct {
	repo      team.Repository
	blobs     blob.Store
	validator *validation.TeamValidator
	presenter teamPresenter
	maxBody   int64
}

// NewAdminTeamHandler creates a new AdminTeamHandler. maxImageKB bounds the
// accepted request body together with a fixed allowance for the other fields.
func NewAdminTeamHandler(repo team.Repository, blobs blob.Store, v *validation.TeamValidator, imageBaseURL string, maxImageKB int64) *AdminTeamHandler {
	return &AdminTeamHandler{
		repo:      repo,
		blobs:     blobs,
		validator: v,
		presenter: teamPresenter{imageBaseURL: imageBaseURL},
		maxBody:   maxImageKB*1024 + formOverheadBytes,
	}
}

// List handles GET /admin/teams.
func (h *AdminTeamHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	search := strings.TrimSpace(r.URL.Query().Get("search"))
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := h.repo.List(ctx, team.ListFilter{Search: search, Page: page, Limit: AdminPageSize})
	if err != nil {
		middleware.Logger(ctx).Error("failed to list teams", "error", err)
		response.Failure(w, i18n.T(ctx, "error.internal"))
		return
	}

	items := h.presenter.many(result.Teams)
	p := response.NewPage(items, len(items), result.Total, result.Page, result.Limit, requestURL(r), url.Values{"search": {search}})

	response.Success(w, i18n.T(ctx, "teams.list"), p)
}

// Create handles POST /admin/teams.
func (h *AdminTeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	if errs := h.validator.ValidateCreate(ctx, in); len(errs) > 0 {
		response.ValidationFailed(w, errs)
		return
	}

	image, err := storeUpload(ctx, h.blobs, in.Image)
	if err != nil {
		middleware.Logger(ctx).Error("failed to store team image", "error", err)
		response.Failure(w, i18n.T(ctx, "teams.create_failed"))
		return
	}

	t := &team.Team{
		Image: image,
		Name:  in.Name,
		Role:  in.Role,
	}

	if err := h.repo.Create(ctx, t); err != nil {
		middleware.Logger(ctx).Error("failed to create team", "error", err)
		discardBlob(ctx, h.blobs, image)
		response.Failure(w, i18n.T(ctx, "teams.create_failed"))
		return
	}

	response.Success(w, i18n.T(ctx, "teams.created"), h.presenter.one(t))
}

// GetByID handles GET /admin/teams/{id}.
func (h *AdminTeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseTeamID(r)
	if !ok {
		response.Failure(w, i18n.T(ctx, "teams.not_found"))
		return
	}

	t, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, team.ErrTeamNotFound) {
			middleware.Logger(ctx).Error("failed to get team", "error", err, "id", id)
		}
		response.Failure(w, i18n.T(ctx, "teams.not_found"))
		return
	}

	response.Success(w, i18n.T(ctx, "teams.detail"), h.presenter.one(t))
}

// Update handles PUT and PATCH /admin/teams/{id}. The record is written once:
// with the new image when one was uploaded, otherwise name and role only.
func (h *AdminTeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	if errs := h.validator.ValidateUpdate(ctx, in); len(errs) > 0 {
		response.ValidationFailed(w, errs)
		return
	}

	id, ok := parseTeamID(r)
	if !ok {
		response.Failure(w, i18n.T(ctx, "teams.not_found"))
		return
	}

	existing, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, team.ErrTeamNotFound) {
			middleware.Logger(ctx).Error("failed to get team for update", "error", err, "id", id)
		}
		response.Failure(w, i18n.T(ctx, "teams.not_found"))
		return
	}

	fields := team.UpdateFields{Name: in.Name, Role: in.Role}
	if in.Image != nil {
		discardBlob(ctx, h.blobs, existing.Image)

		image, err := storeUpload(ctx, h.blobs, in.Image)
		if err != nil {
			middleware.Logger(ctx).Error("failed to store team image", "error", err, "id", id)
			response.Failure(w, i18n.T(ctx, "teams.update_failed"))
			return
		}
		fields.Image = &image
	}

	updated, err := h.repo.Update(ctx, id, fields)
	if err != nil {
		if fields.Image != nil {
			discardBlob(ctx, h.blobs, *fields.Image)
		}
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Failure(w, i18n.T(ctx, "teams.not_found"))
			return
		}
		middleware.Logger(ctx).Error("failed to update team", "error", err, "id", id)
		response.Failure(w, i18n.T(ctx, "teams.update_failed"))
		return
	}

	response.Success(w, i18n.T(ctx, "teams.updated"), h.presenter.one(updated))
}

// Delete handles DELETE /admin/teams/{id}. The image is removed first; a
// missing image does not stop the record from being deleted.
func (h *AdminTeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseTeamID(r)
	if !ok {
		response.Failure(w, i18n.T(ctx, "teams.not_found"))
		return
	}

	existing, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, team.ErrTeamNotFound) {
			middleware.Logger(ctx).Error("failed to get team for deletion", "error", err, "id", id)
		}
		response.Failure(w, i18n.T(ctx, "teams.not_found"))
		return
	}

	discardBlob(ctx, h.blobs, existing.Image)

	if err := h.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, team.ErrTeamNotFound) {
			middleware.Logger(ctx).Error("failed to delete team", "error", err, "id", id)
		}
		response.Failure(w, i18n.T(ctx, "teams.delete_failed"))
		return
	}

	response.Success(w, i18n.T(ctx, "teams.deleted"), nil)
}

// decode parses the team form, writing a transport error when the body is
// unreadable or oversized.
func (h *AdminTeamHandler) decode(w http.ResponseWriter, r *http.Request) (validation.TeamInput, bool) {
	in, err := decodeTeamForm(w, r, h.maxBody)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			response.Err(w, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
			return in, false
		}
		middleware.Logger(r.Context()).Warn("invalid team form", "error", err)
		response.Err(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return in, false
	}
	return in, true
}

func parseTeamID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// requestURL rebuilds the absolute URL of r without its query string.
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.Path
}

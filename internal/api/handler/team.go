package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/daap14/teamroster/internal/api/middleware"
	"github.com/daap14/teamroster/internal/api/validation"
	"github.com/daap14/teamroster/internal/blob"
	"github.com/daap14/teamroster/internal/team"
)

// formOverheadBytes is allowed on top of the image limit for the other
// multipart fields and boundaries.
const formOverheadBytes = 1 << 20

type teamResponse struct {
	ID        string `json:"id"`
	Image     string `json:"image"`
	ImageURL  string `json:"image_url"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// teamPresenter shapes team records for responses.
type teamPresenter struct {
	imageBaseURL string
}

func (p teamPresenter) one(t *team.Team) teamResponse {
	return teamResponse{
		ID:        t.ID.String(),
		Image:     t.Image,
		ImageURL:  p.imageURL(t.Image),
		Name:      t.Name,
		Role:      t.Role,
		CreatedAt: t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: t.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (p teamPresenter) many(teams []team.Team) []teamResponse {
	items := make([]teamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, p.one(&teams[i]))
	}
	return items
}

func (p teamPresenter) imageURL(name string) string {
	return strings.TrimRight(p.imageBaseURL, "/") + "/" + blob.TeamsDir + "/" + name
}

var errBodyTooLarge = errors.New("request body too large")

// decodeTeamForm reads name, role and the optional image from a multipart or
// urlencoded body. The image is nil when no file was sent.
func decodeTeamForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (validation.TeamInput, error) {
	if r.ContentLength > maxBytes {
		return validation.TeamInput{}, errBodyTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	err := r.ParseMultipartForm(32 << 20)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return validation.TeamInput{}, errBodyTooLarge
		}
		return validation.TeamInput{}, fmt.Errorf("parsing form: %w", err)
	}

	in := validation.TeamInput{
		Name: strings.TrimSpace(r.PostFormValue("name")),
		Role: strings.TrimSpace(r.PostFormValue("role")),
	}

	if fh := formFile(r.MultipartForm, validation.ImageField); fh != nil {
		upload, err := validation.Inspect(fh)
		if err != nil {
			return validation.TeamInput{}, err
		}
		in.Image = upload
	} else if r.PostFormValue(validation.ImageField) != "" {
		in.ImageNotFile = true
	}

	return in, nil
}

func formFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil || len(form.File[field]) == 0 {
		return nil
	}
	return form.File[field][0]
}

// storeUpload writes the upload under a newly generated blob name.
func storeUpload(ctx context.Context, blobs blob.Store, upload *validation.Upload) (string, error) {
	f, err := upload.Header.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	name := blob.NewName(upload.Extension)
	if err := blobs.Put(ctx, name, f); err != nil {
		return "", err
	}
	return name, nil
}

// discardBlob deletes name, treating a missing blob as already gone.
func discardBlob(ctx context.Context, blobs blob.Store, name string) {
	if err := blobs.Delete(ctx, name); err != nil && !errors.Is(err, blob.ErrNotFound) {
		middleware.Logger(ctx).Warn("failed to delete blob", "error", err, "blob", name)
	}
}

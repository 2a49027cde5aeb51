package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/daap14/teamroster/internal/blob"
	"github.com/daap14/teamroster/internal/i18n"
	"github.com/daap14/teamroster/internal/team"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

// --- Mock Team Repository ---

type mockTeamRepo struct {
	createFn  func(ctx context.Context, t *team.Team) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*team.Team, error)
	listFn    func(ctx context.Context, filter team.ListFilter) (*team.ListResult, error)
	listAllFn func(ctx context.Context) ([]team.Team, error)
	updateFn  func(ctx context.Context, id uuid.UUID, fields team.UpdateFields) (*team.Team, error)
	deleteFn  func(ctx context.Context, id uuid.UUID) error

	creates []team.Team
	updates []team.UpdateFields
	deletes []uuid.UUID
}

func (m *mockTeamRepo) Create(ctx context.Context, t *team.Team) error {
	m.creates = append(m.creates, *t)
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	return nil
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, team.ErrTeamNotFound
}

func (m *mockTeamRepo) List(ctx context.Context, filter team.ListFilter) (*team.ListResult, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return &team.ListResult{Teams: []team.Team{}, Page: filter.Page, Limit: filter.Limit}, nil
}

func (m *mockTeamRepo) ListAll(ctx context.Context) ([]team.Team, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return []team.Team{}, nil
}

func (m *mockTeamRepo) Update(ctx context.Context, id uuid.UUID, fields team.UpdateFields) (*team.Team, error) {
	m.updates = append(m.updates, fields)
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, team.ErrTeamNotFound
}

func (m *mockTeamRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.deletes = append(m.deletes, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Fake Blob Store ---

type fakeBlobStore struct {
	blobs   map[string][]byte
	putErr  error
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(_ context.Context, name string, r io.Reader) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.blobs[name] = data
	return nil
}

func (f *fakeBlobStore) Delete(_ context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	if _, ok := f.blobs[name]; !ok {
		return blob.ErrNotFound
	}
	delete(f.blobs, name)
	return nil
}

func (f *fakeBlobStore) Exists(_ context.Context, name string) (bool, error) {
	_, ok := f.blobs[name]
	return ok, nil
}

// --- Helpers ---

type formFields struct {
	values map[string]string
	image  []byte // nil means no file part
}

func multipartBody(t *testing.T, f formFields) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range f.values {
		require.NoError(t, mw.WriteField(k, v))
	}
	if f.image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(f.image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func makeChiRequest(method, path string, body io.Reader, contentType string, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func makeFormRequest(t *testing.T, method, path string, f formFields, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	body, ct := multipartBody(t, f)
	return makeChiRequest(method, path, body, ct, params)
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

// withLocale returns the context the i18n middleware would give r for lang.
func withLocale(t *testing.T, r *http.Request, lang string) context.Context {
	t.Helper()
	ctx := r.Context()
	r.Header.Set("Accept-Language", lang)
	next := http.HandlerFunc(func(_ http.ResponseWriter, req *http.Request) {
		ctx = req.Context()
	})
	catalog, err := i18n.Default()
	require.NoError(t, err)
	i18n.Middleware(catalog)(next).ServeHTTP(httptest.NewRecorder(), r)
	return ctx
}

func sampleTeam(id uuid.UUID) *team.Team {
	now := time.Now().UTC()
	return &team.Team{
		ID:        id,
		Image:     "old.png",
		Name:      "Alice",
		Role:      "CEO",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

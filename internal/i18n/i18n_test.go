package i18n_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/daap14/teamroster/internal/i18n"
)

func TestLoad_EmbeddedLocales(t *testing.T) {
	c, err := i18n.Load("en")
	require.NoError(t, err)

	tags := c.Tags()
	require.Len(t, tags, 2)
	assert.Equal(t, language.English, tags[0])
	assert.Equal(t, language.Indonesian, tags[1])
}

func TestLoad_DefaultLocaleFirst(t *testing.T) {
	c, err := i18n.Load("id")
	require.NoError(t, err)

	assert.Equal(t, language.Indonesian, c.Tags()[0])
	assert.Equal(t, language.Indonesian, c.Match(language.Japanese))
}

func TestLoad_UnknownDefaultLocale(t *testing.T) {
	_, err := i18n.Load("fr")
	assert.Error(t, err)
}

func TestLoadFS_RejectsMismatchedLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("locale: de\nmessages:\n  a: b\n")},
	}

	_, err := i18n.LoadFS(fsys, "en")
	assert.Error(t, err)
}

func defaultCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()
	c, err := i18n.Default()
	require.NoError(t, err)
	return c
}

func TestDefault_LoadsOnce(t *testing.T) {
	a, err := i18n.Default()
	require.NoError(t, err)
	b, err := i18n.Default()
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, language.English, a.Tags()[0])
}

func TestPrinter_TranslatesPerLocale(t *testing.T) {
	c := defaultCatalog(t)

	en := c.Printer(language.English)
	id := c.Printer(language.Indonesian)

	assert.Equal(t, "Team Saved Successfully!", en.Sprintf("teams.created"))
	assert.Equal(t, "Data Team Berhasil Disimpan!", id.Sprintf("teams.created"))
	assert.Equal(t, "The name field is required.", en.Sprintf("validation.required", "name"))
}

func TestResolve(t *testing.T) {
	c := defaultCatalog(t)

	tests := []struct {
		name   string
		target string
		accept string
		want   language.Tag
	}{
		{"fallback", "/", "", language.English},
		{"accept language", "/", "id-ID,id;q=0.9,en;q=0.5", language.Indonesian},
		{"unsupported accept language", "/", "ja", language.English},
		{"query overrides header", "/?lang=en", "id", language.English},
		{"query param", "/?lang=id", "", language.Indonesian},
		{"garbage query falls through to header", "/?lang=%%%", "id", language.Indonesian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}

			assert.Equal(t, tt.want, c.Resolve(r))
		})
	}
}

func TestMiddleware_StoresPrinter(t *testing.T) {
	var got string
	h := i18n.Middleware(defaultCatalog(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = i18n.T(r.Context(), "teams.deleted")
	}))

	r := httptest.NewRequest(http.MethodGet, "/?lang=id", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "Data Team Berhasil Dihapus!", got)
	assert.Equal(t, "id", w.Header().Get("Content-Language"))
}

func TestT_FallsBackWithoutMiddleware(t *testing.T) {
	assert.Equal(t, "Team Not Found!", i18n.T(context.Background(), "teams.not_found"))
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/daap14/teamroster/internal/api/response"
	"github.com/daap14/teamroster/internal/auth"
	"github.com/daap14/teamroster/internal/i18n"
)

// AdminKey is middleware that admits requests whose API key matches the
// bcrypt hash. The key is read from X-API-Key or an "Authorization: Bearer"
// header. Anything else is rejected with 401.
func AdminKey(keyHash []byte) func(http.Handler) http.Handler {
	verifier := auth.NewVerifier(keyHash)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawKey := apiKey(r)
			if verifier.Verify(rawKey) != nil {
				Logger(r.Context()).Warn("admin request rejected", "path", r.URL.Path, "keyPresent", rawKey != "")
				response.Err(w, http.StatusUnauthorized, i18n.T(r.Context(), "auth.required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func apiKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

package middleware

import (
	"net/http"

	"github.com/daap14/teamroster/internal/api/response"
	"github.com/daap14/teamroster/internal/i18n"
)

// Recovery is middleware that recovers from panics and returns a 500 envelope.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				Logger(r.Context()).Error("panic recovered", "error", err)
				response.Err(w, http.StatusInternalServerError, i18n.T(r.Context(), "error.internal"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

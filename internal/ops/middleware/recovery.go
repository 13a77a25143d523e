package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/complydesk/complydesk/internal/ops/response"
)

// Recovery keeps a panicking probe handler from taking down the delivery
// worker sharing the process.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				slog.Error("ops handler panic",
					"panic", v,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				response.Error(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", "An unexpected error occurred", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

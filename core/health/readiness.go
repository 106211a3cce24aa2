package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/swimlive/core/logger"
)

// Readiness verifies all service dependencies are functioning.
// Returns "READY" if all checks pass, 503 Service Unavailable if any fail.
// Nil checks are skipped.
func Readiness(log *slog.Logger, fn ...func(context.Context) error) http.Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, f := range fn {
			if f == nil {
				continue
			}
			if err := f(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				writeText(w, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
				return
			}
		}
		writeText(w, http.StatusOK, "READY")
	})
}

package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/okhomin/silent-auction-service/internal/infrastructure/http/response"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

// NewRecoveryMiddleware turns handler panics into a 500 response.
// http.ErrAbortHandler is re-raised: it is the server's own signal
// that the connection is gone, not a handler bug.
func NewRecoveryMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				log.Error("Panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
					"path", r.URL.Path,
					"method", r.Method,
				)

				response.WriteError(w, http.StatusInternalServerError, response.StatusInternalError, "internal_error", "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
)

// RecoveryMiddleware provides panic recovery with detailed logging. The panic
// value is only echoed back to the client when exposeDetail is set.
func RecoveryMiddleware(logger *slog.Logger, exposeDetail bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					appErr := appErrors.NewInternalError("internal server error", nil)
					if exposeDetail {
						appErr = appErr.WithDetails(map[string]string{"panic": fmt.Sprint(err)})
					}

					status, body := appErr.ToHTTPResponse()
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(status)
					_ = json.NewEncoder(w).Encode(body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

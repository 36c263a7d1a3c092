package middleware

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Logger stores a per-request logger in the context for zerolog.Ctx. Every
// line a handler logs carries the request id set by RequestID, so install
// RequestID first. The raw query holds the city and metric selection and is
// only attached when present.
func Logger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			fields := logger.With().
				Str("request_id", GetRequestID(req.Context())).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr)
			if req.URL.RawQuery != "" {
				fields = fields.Str("selection", req.URL.RawQuery)
			}
			reqLogger := fields.Logger()

			next.ServeHTTP(w, req.WithContext(reqLogger.WithContext(req.Context())))
		})
	}
}

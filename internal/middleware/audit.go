package middleware

import (
	"net/http"

	logpkg "github.com/benvon/metric-tracker/internal/logger"
	"github.com/benvon/metric-tracker/internal/request"
	"go.uber.org/zap"
)

// Audit logs rejected requests worth watching: oversize or mistyped bodies,
// rate limit violations and timeouts.
func Audit(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := newStatusRecorder(w)

			next.ServeHTTP(wrapped, r)

			event := auditEvent(wrapped.statusCode)
			if event == "" {
				return
			}
			logger.Warn(event,
				zap.Int("status_code", wrapped.statusCode),
				zap.String("method", r.Method),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.String("ip", logpkg.SanitizeString(request.ClientIP(r), logpkg.MaxGeneralStringLength)),
				zap.String("request_id", request.RequestIDFromContext(r.Context())),
			)
		})
	}
}

func auditEvent(status int) string {
	switch status {
	case http.StatusTooManyRequests:
		return "rate_limit_violation"
	case http.StatusRequestEntityTooLarge:
		return "oversize_request"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "request_timeout"
	default:
		return ""
	}
}

// Package middleware holds the HTTP middleware chain shared by all routes:
// panic recovery, request correlation, request logging, and the operator
// API-key guard.
package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"auditlog/pkg/domainerrors"
	"auditlog/pkg/httputil"
)

type requestIDKey struct{}

// ContextKeyRequestID is exported for tests that build contexts directly.
var ContextKeyRequestID = requestIDKey{}

// GetRequestID retrieves the correlation ID from the context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// RequestID attaches a correlation ID to every request, honoring an inbound
// X-Request-ID header so upstream proxies can trace through.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), ContextKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Recovery converts panics into 500 responses instead of tearing down the
// connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						"request_id", GetRequestID(r.Context()),
						"panic", rec,
					)
					httputil.WriteError(w, domainerrors.New(domainerrors.CodeInternal, "internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the written status for the request log line.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Logger emits one debug line per request with method, path, origin, status,
// and duration. Logging the Origin header makes CORS rejections diagnosable
// from the request log alone.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.DebugContext(r.Context(), "request",
				"request_id", GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"origin", r.Header.Get("Origin"),
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// RequireAPIKey guards operator endpoints with an opaque shared secret carried
// in the x-api-key header. Comparison is constant-time. An empty configured
// key rejects everything; the reports are never open by accident.
func RequireAPIKey(key string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get("x-api-key")
			if key == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
				logger.WarnContext(r.Context(), "rejected report request",
					"request_id", GetRequestID(r.Context()),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, domainerrors.New(domainerrors.CodeUnauthorized, "invalid API key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

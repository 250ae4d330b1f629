package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestObserver receives one observation per finished request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// Logging logs every request with its route, status, user and duration, and
// reports it to observer when one is given. It must wrap the ServeMux
// directly (or through middleware that does not replace the request) so the
// matched route pattern is visible after the handler returns.
func Logging(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", rec.status,
				"user_id", GetUserID(r.Context()),
				"duration_ms", elapsed.Milliseconds(),
			}
			switch {
			case rec.status >= 500:
				slog.Error("Request completed", attrs...)
			case rec.status >= 400:
				slog.Warn("Request completed", attrs...)
			default:
				slog.Info("Request completed", attrs...)
			}

			if observer != nil {
				observer.ObserveRequest(r.Method, route, rec.status, elapsed)
			}
		})
	}
}

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
)

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// RequestID returns the ID assigned to the request by the RequestID
// middleware, or an empty string.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

// WithRequestID assigns an ID generated by gen to every request, and sets it
// in the X-Request-Id response header.
func WithRequestID(gen func() string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := gen()
			w.Header().Set("X-Request-Id", id)
			ctx := context.WithValue(r.Context(), contextKeyRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logger logs request details and response metrics. Query strings are
// omitted, since lab requests carry passwords in them.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			args := []any{
				"response_code", m.Code,
				"duration", m.Duration,
				"bytes_sent", m.Written,
				"remote_addr", r.RemoteAddr,
			}
			if id := RequestID(r.Context()); id != "" {
				args = append(args, "request_id", id)
			}
			logger.Info(fmt.Sprintf("%s %s", r.Method, r.URL.Path), args...)
		})
	}
}

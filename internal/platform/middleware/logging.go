package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mssola/useragent"
)

// RequestLogger logs one record per request with the chi request id, status
// and duration. Mount it after chimw.RequestID. Requests carrying a
// User-Agent also get the parsed client name and a bot flag.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []any{
				"request_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if raw := r.UserAgent(); raw != "" {
				attrs = append(attrs, clientAttrs(raw)...)
			}
			logger.Log(r.Context(), level, "http request", attrs...)
		})
	}
}

func clientAttrs(raw string) []any {
	ua := useragent.New(raw)
	name, version := ua.Browser()
	client := name
	if version != "" {
		client += "/" + version
	}
	return []any{"client", client, "bot", ua.Bot()}
}

package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Vodeneev/footballhub/internal/pkg/metrics"
)

type ctxKey struct{}

type requestInfo struct {
	id    string
	start time.Time
}

func requestFrom(ctx context.Context) requestInfo {
	info, _ := ctx.Value(ctxKey{}).(requestInfo)
	return info
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// route registers h under pattern with request ids, logging and metrics.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		info := requestInfo{id: r.Header.Get("X-Request-ID"), start: time.Now()}
		if info.id == "" {
			info.id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", info.id)
		w.Header().Set("Access-Control-Allow-Origin", "*")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, info)))

		duration := time.Since(info.start)
		metrics.HTTPRequests.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(pattern).Observe(duration.Seconds())
		slog.Info("API request",
			"request_id", info.id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", duration,
		)
	})
}

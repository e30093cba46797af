package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebridge/server/internal/metrics"
)

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logger emits one structured line per request and feeds the latency
// histogram. Mount it after RequestID so the id is on every line.
func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			elapsed := time.Since(start)
			metrics.HTTPRequestDuration.
				WithLabelValues(r.Method, strconv.Itoa(rw.status)).
				Observe(elapsed.Seconds())
			l.Info().
				Str("request_id", RequestIDFromContext(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.status).
				Dur("elapsed", elapsed).
				Msg("http request")
		})
	}
}

package server

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/orders/internal/metrics"
)

func (s *Server) requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrw := newResponseWriterWrapper(w)

		next.ServeHTTP(wrw, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = r.URL.Path
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method, pattern, strconv.Itoa(wrw.GetStatusCode())).Inc()

		s.logger.Info("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrw.GetStatusCode()),
			zap.Duration("duration", time.Since(start)))
	})
}

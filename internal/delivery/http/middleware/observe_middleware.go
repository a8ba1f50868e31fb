package middleware

import (
	"net/http"
	"time"

	"clinic-directory/internal/infrastructure/metrics"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

type ObserveMiddleware struct {
	log *logrus.Logger
}

func NewObserveMiddleware(log *logrus.Logger) *ObserveMiddleware {
	return &ObserveMiddleware{log: log}
}

// Handle records request metrics and an access log line.
func (m *ObserveMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rw, r)

		elapsed := time.Since(start)
		route := routeTemplate(r)
		metrics.ObserveHTTP(route, r.Method, rw.statusCode, elapsed)

		m.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"route":    route,
			"path":     r.URL.Path,
			"status":   rw.statusCode,
			"duration": elapsed.String(),
		}).Info("request completed")
	})
}

// routeTemplate returns the matched mux path template, or "unmatched".
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

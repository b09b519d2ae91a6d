package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// apiHeaders are sent with every response. Nothing served here is a page, so
// the policy allows no content, no framing and no caching of picks.
var apiHeaders = [][2]string{
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "no-referrer"},
	{"Cache-Control", "no-store"},
}

// statusWriter remembers the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// middleware sets apiHeaders, recovers handler panics as a JSON 500 and logs
// one line per request with its status and latency.
func (app *Application) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, h := range apiHeaders {
			w.Header().Set(h[0], h[1])
		}
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		defer func() {
			entry := app.logger().WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start).String(),
			})
			if p := recover(); p != nil {
				entry.WithField("panic", p).Error("handler panicked")
				respondJSONError(sw, http.StatusInternalServerError, "internal error")
			}
			entry.WithField("status", sw.status).Debug("request")
		}()
		next.ServeHTTP(sw, r)
	})
}

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kbukum/lingolink/logger"
)

// slowRequest marks a request as slow in its log line.
const slowRequest = 10 * time.Second

// RequestLogger writes one line per request. Liveness and metrics probes
// are not logged.
func RequestLogger(log *logger.Logger) Middleware {
	quiet := map[string]bool{"/health": true, "/alive": true, "/metrics": true}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quiet[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			began := time.Now()
			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			took := time.Since(began)

			status := rec.status()
			fields := logger.MergeWithDuration(logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", rec.bytes,
			), took)
			if took > slowRequest {
				fields["slow"] = true
			}
			l := log.WithContext(r.Context())
			switch levelFor(status) {
			case zerolog.ErrorLevel:
				l.Error("request completed", fields)
			case zerolog.WarnLevel:
				l.Warn("request completed", fields)
			default:
				l.Info("request completed", fields)
			}
		})
	}
}

func levelFor(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ts4z/icmev/varz"
)

var requestsByCode = varz.NewMap("requestsByCode")

type Clock interface {
	Now() time.Time
	Since(time.Time) time.Duration
}

// RequestLogger logs each request with its status and how long it took.
type RequestLogger struct {
	next  http.Handler
	clock Clock
}

func NewRequestLogger(next http.Handler, clock Clock) *RequestLogger {
	return &RequestLogger{next: next, clock: clock}
}

func remoteAddr(r *http.Request) string {
	if r.Header.Get("X-Forwarded-For") != "" {
		return r.Header.Get("X-Forwarded-For")
	}
	return r.RemoteAddr
}

func (rl *RequestLogger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := rl.clock.Now()
	rec := &statusRecorder{ResponseWriter: w}
	rl.next.ServeHTTP(rec, r)
	code := rec.Code()
	requestsByCode.Add(http.StatusText(code), 1)
	log.Info().
		Int("code", code).
		Str("remote", remoteAddr(r)).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int64("bytes", rec.bytes).
		Dur("elapsed", rl.clock.Since(start)).
		Msg("access")
}

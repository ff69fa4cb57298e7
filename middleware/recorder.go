package middleware

import (
	"net/http"
)

var _ http.ResponseWriter = &statusRecorder{}

// statusRecorder remembers the first status code sent and counts body
// bytes, for the access log.
type statusRecorder struct {
	http.ResponseWriter
	code  int
	bytes int64
}

func (sr *statusRecorder) WriteHeader(statusCode int) {
	if sr.code == 0 {
		sr.code = statusCode
	}
	sr.ResponseWriter.WriteHeader(statusCode)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.code == 0 {
		sr.code = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// Code is the status sent, or 200 if the handler never wrote anything.
func (sr *statusRecorder) Code() int {
	if sr.code == 0 {
		return http.StatusOK
	}
	return sr.code
}

// Package he attaches HTTP status codes to errors.
package he

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ts4z/icmev/icm"
)

// HTTPError is an error that knows which status code it deserves.
type HTTPError struct {
	code int
	err  error
}

func HTTPCodedErrorf(code int, f string, more ...any) *HTTPError {
	return &HTTPError{
		code: code,
		err:  fmt.Errorf(f, more...),
	}
}

func New(code int, err error) *HTTPError {
	return &HTTPError{
		code: code,
		err:  err,
	}
}

func (e *HTTPError) Error() string {
	return e.err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.err
}

func (e *HTTPError) Code() int {
	return e.code
}

// StatusCode picks the response code for err.  Coded errors keep their
// code, rejected ICM input is the client's fault, and anything else is
// ours.
func StatusCode(err error) int {
	var coded *HTTPError
	switch {
	case errors.As(err, &coded):
		return coded.code
	case errors.Is(err, icm.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// SendErrorToHTTPClient sends err as an HTTP error, prefixed with what we
// were trying to do.
func SendErrorToHTTPClient(w http.ResponseWriter, while string, err error) {
	code := StatusCode(err)
	txt := fmt.Sprintf("can't %s: %v", while, err)
	if code >= 500 {
		log.Error().Int("code", code).Err(err).Msg("can't " + while)
	} else {
		log.Debug().Int("code", code).Err(err).Msg("can't " + while)
	}
	http.Error(w, txt, code)
}

package icm

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every validation failure in this package.
// Test for it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

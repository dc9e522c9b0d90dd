package cluster

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned, wrapped, when the matrix, k or an option is
// rejected before any computation starts.
var ErrInvalidInput = errors.New("invalid input")

func invalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

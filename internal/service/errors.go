package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks request payloads that fail schema or constraint
// validation. Handlers map it to HTTP 400; the wrapped message is safe to
// return to the client.
var ErrInvalidInput = errors.New("invalid input")

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func invalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

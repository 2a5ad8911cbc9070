package service

import (
	"errors"
	"fmt"
)

// Error kinds. Services wrap them with a user-facing message:
//
//	fmt.Errorf("%w: Please enter a valid exam code.", ErrInvalidInput)
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage failure")
	ErrUnavailable  = errors.New("service unavailable")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// UserMessage strips the kind prefix from err so it can be shown to a user.
func UserMessage(err error) string {
	for _, kind := range []error{ErrUnauthorized, ErrInvalidInput, ErrConflict, ErrNotFound, ErrStorage, ErrUnavailable} {
		if errors.Is(err, kind) {
			msg := err.Error()
			prefix := kind.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}

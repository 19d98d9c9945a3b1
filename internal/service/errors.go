package service

import (
	"errors"
	"fmt"

	"github.com/programpal/pathfinder/internal/validation"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrDeliveryFailed     = errors.New("message delivery failed")
	ErrFileTooLarge       = validation.ErrFileTooLarge
)

// invalid marks err as a client mistake while keeping it matchable.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

func invalidf(format string, args ...any) error {
	return invalid(fmt.Errorf(format, args...))
}

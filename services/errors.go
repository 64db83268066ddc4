package services

import (
	"errors"
	"fmt"
)

// Service-level error taxonomy. Handlers map these to HTTP responses;
// ErrNotFound deliberately covers missing, expired, wrong-creator and used
// tokens alike so callers cannot probe which tokens exist.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("invalid or expired payment code")
	ErrAlreadyUsed        = errors.New("payment code already used")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func storageError(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

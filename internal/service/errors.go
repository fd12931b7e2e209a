package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrCollaborator = errors.New("collaborator failure")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	// ErrUnknownLegacyStatus stops the legacy migration. It is a validation error.
	ErrUnknownLegacyStatus = fmt.Errorf("%w: unknown legacy status", ErrValidation)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// collaboratorError marks err as a store or provider failure while keeping it
// in the chain.
func collaboratorError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrCollaborator, err)
}

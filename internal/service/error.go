package service

import (
	"errors"

	"github.com/sboli/rcstrap/internal/constants"
	"github.com/sboli/rcstrap/internal/rcs"
)

var (
	ErrMessageNotFound = errors.New("MESSAGE_NOT_FOUND")
	ErrDatabase        = errors.New("DATABASE_ERROR")
)

// Error is the service-level failure surfaced to the API layer. Validation
// failures carry the full violation list so the caller sees every broken
// rule at once.
type Error struct {
	Code       string
	Cause      error
	Violations []rcs.Violation
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func NewValidationError(violations []rcs.Violation) error {
	return Error{Code: constants.ErrCodeValidationFailed, Violations: violations}
}

func (e Error) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Code
}

func (e Error) Unwrap() error {
	return e.Cause
}

package services

import (
	"errors"
	"fmt"

	apperrors "github.com/imged/layout-service/internal/errors"
	"github.com/imged/layout-service/internal/grading"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Layout specific errors
	ErrLayoutNotFound      = errors.New("layout not found")
	ErrLayoutMalformed     = errors.New("layout document is malformed")
	ErrLayoutDuplicateName = errors.New("layout name already exists")

	// Upload specific errors
	ErrFileTooLarge  = errors.New("uploaded file exceeds size limit")
	ErrBadExtension  = errors.New("uploaded file has unsupported extension")
	ErrImageNotFound = errors.New("image not found")
	ErrEmptyUpload   = errors.New("uploaded file is empty")

	// Session specific errors
	ErrSessionNotFound = errors.New("session not found")
	ErrStaleSession    = errors.New("session state is stale")
	ErrInvalidMode     = errors.New("operation not valid in current tool mode")

	// Grading specific errors
	ErrLayoutMismatch = grading.ErrLayoutMismatch
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// WrapMalformed tags a parse failure so it maps to an unprocessable-entity
// response instead of a plain bad request.
func WrapMalformed(err error) error {
	return fmt.Errorf("%w: %v", ErrLayoutMalformed, err)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrLayoutNotFound) ||
		errors.Is(err, ErrImageNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsValidation checks if error represents a rejected input
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrBadExtension) ||
		errors.Is(err, ErrEmptyUpload) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsMalformed checks if error represents an undecodable layout document
func IsMalformed(err error) bool {
	return errors.Is(err, ErrLayoutMalformed) ||
		errors.Is(err, ErrLayoutMismatch)
}

// IsConflict checks if error represents a resource or state conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrLayoutDuplicateName) ||
		errors.Is(err, ErrStaleSession) ||
		errors.Is(err, ErrInvalidMode)
}

package errorx

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds shared by every layer. Callers classify with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrOrderNotFound    = errors.New("order not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateOrderID = errors.New("duplicate order id")
	ErrConflict         = errors.New("order was modified concurrently")
	ErrPersistence      = errors.New("persistence failure")
)

// ValidationError describes malformed or missing input.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validation creates a ValidationError for field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Persistence marks err as a storage collaborator failure while keeping it unwrappable.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// BusinessError carries an explicit code and field details for the API envelope.
type BusinessError struct {
	Code    int
	Message string
	Details []ErrorDetail
}

// ErrorDetail points at the offending input path
type ErrorDetail struct {
	Path string
	Info string
}

// Error implements the error interface
func (e *BusinessError) Error() string {
	return e.Message
}

// NewBusinessError creates a BusinessError
func NewBusinessError(code int, message string) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
	}
}

// HTTPStatus maps an error kind to the status code returned by the API.
func HTTPStatus(err error) int {
	var be *BusinessError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &be):
		return be.Code
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package todo

import "errors"

// Validation messages returned verbatim to clients
const (
	MsgTitleRequired    = "Title is required"
	MsgIDRequired       = "ID is required"
	MsgDeleteIDRequired = "ID is required for single delete, or use ?all=true to delete all"
	MsgInvalidBody      = "Invalid request body"
)

// ValidationError is returned when caller input is rejected before reaching the store
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given client-facing message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

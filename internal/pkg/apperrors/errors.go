package apperrors

import "errors"

// Error taxonomy shared by services and the HTTP error mapper.
var (
	// ErrValidationFailed marks missing or malformed input.
	ErrValidationFailed = errors.New("validation failed")
	// ErrResourceNotFound marks a referenced entity that does not exist.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials is the single authentication failure. It never says which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPermissionDenied marks an authenticated caller without the required role.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrStore marks a failure of the relational backend. Driver detail stays in the log.
	ErrStore = errors.New("store error")
)

// Token errors
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Domain errors
var (
	ErrUserNotFound         = NewCustomError(ErrResourceNotFound, "user not found")
	ErrStudentNotFound      = NewCustomError(ErrResourceNotFound, "student not found")
	ErrFeeNotFound          = NewCustomError(ErrResourceNotFound, "fee not found")
	ErrAnnouncementNotFound = NewCustomError(ErrResourceNotFound, "announcement not found")
	ErrBatchEmpty           = NewCustomError(ErrResourceNotFound, "no students found in batch")

	ErrEmailAlreadyExists = NewCustomError(ErrConflict, "email already exists")
	ErrUserAlreadyLinked  = NewCustomError(ErrConflict, "user already has a student profile")
)

// NewValidationError creates a validation error whose message is safe to show to the client
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewStoreError wraps a backend failure. The cause is kept for logging only.
func NewStoreError(op string, cause error) error {
	return &CustomError{
		Err:     ErrStore,
		Message: op,
		Cause:   cause,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Cause   error
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As
func (e *CustomError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// ClientMessage returns the message a handler may expose for err, or fallback
// when err carries no CustomError.
func ClientMessage(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

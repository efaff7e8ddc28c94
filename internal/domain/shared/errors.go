package shared

// DomainError is an error with a stable machine code. The HTTP layer maps the
// code to a status; the message is safe to show to the operator.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that a
// sentinel re-worded with WithMessage still matches errors.Is.
func (e *DomainError) Is(target error) bool {
	other, ok := target.(*DomainError)
	return ok && e.Code == other.Code
}

// WithMessage returns a copy of e carrying a more specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

var (
	// ErrNotFound marks a lookup of an unknown client
	ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
	// ErrInvalidInput marks a request the engine refuses before reading data
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	// ErrUnavailable marks a failed read from the pending-income source
	ErrUnavailable = NewDomainError("UNAVAILABLE", "Upstream data source is unavailable")
)

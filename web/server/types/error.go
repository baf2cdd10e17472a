package types

import "fmt"

// Error represents an HTTP error with status code and message.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

// Error returns the error message string.
func (e Error) Error() string {
	return e.Message
}

// NewError creates a new Error with the specified status code and message.
func NewError(statusCode int, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ErrorLevel is the amount of detail of error messages returned to clients.
type ErrorLevel string

// Valid error levels.
const (
	// ErrorLevelNone replaces error messages with the HTTP status text.
	ErrorLevelNone ErrorLevel = "none"
	// ErrorLevelMinimal strips wrapped error details from messages.
	ErrorLevelMinimal ErrorLevel = "minimal"
	// ErrorLevelFull returns error messages intact.
	ErrorLevelFull ErrorLevel = "full"
)

// ErrorLevelFromString returns the ErrorLevel with the given name.
func ErrorLevelFromString(s string) (ErrorLevel, error) {
	switch lvl := ErrorLevel(s); lvl {
	case ErrorLevelNone, ErrorLevelMinimal, ErrorLevelFull:
		return lvl, nil
	default:
		return "", fmt.Errorf("invalid error level '%s'", s)
	}
}

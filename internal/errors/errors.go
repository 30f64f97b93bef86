package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoSource        = errors.New("no source configured: please specify a URL with --url or a file with --file")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrUnknownLayout   = errors.New("unknown layout")
	ErrUnknownFormat   = errors.New("unknown output format")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeProtocol  ErrorType = "protocol"
	ErrorTypeTransport ErrorType = "transport"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeRender    ErrorType = "render"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ProtocolError is a completed exchange whose response status was not 2xx.
type ProtocolError struct {
	Status     int
	StatusText string
}

// Error renders the status line the way it is shown to users,
// e.g. "HTTP 500 Server Error".
func (e *ProtocolError) Error() string {
	if e.StatusText == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d %s", e.Status, e.StatusText)
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewProtocolError creates an error for an unsuccessful response status
func NewProtocolError(status int, statusText string) *AppError {
	pe := &ProtocolError{Status: status, StatusText: statusText}
	return &AppError{
		Type:    ErrorTypeProtocol,
		Message: pe.Error(),
		Err:     pe,
	}
}

// NewTransportError creates a new error for a failed network exchange
func NewTransportError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTransport,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewRenderError creates a new error related to page rendering
func NewRenderError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeRender,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// TypeOf returns the category of err, or ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// DefaultDisplayMessage is shown when a failure carries no description.
const DefaultDisplayMessage = "Something went wrong and the data could not be loaded"

// DisplayMessage is the short message shown in an error notice. Protocol
// failures show the status line; everything else shows the description of
// the underlying failure.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if appErr.Err != nil && appErr.Type == ErrorTypeTransport {
			msg = fmt.Sprintf("%s: %v", appErr.Message, appErr.Err)
		}
		if msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultDisplayMessage
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeProtocol:
			return fmt.Sprintf("Server error: %s", appErr.Message)
		case ErrorTypeTransport:
			return fmt.Sprintf("Network error: %s", DisplayMessage(appErr))
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeRender:
			return fmt.Sprintf("Render error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON document."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoSource) {
		return "Error: No source configured. Please specify a URL with --url or a file with --file."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrInvalidURL) {
		return "Error: Invalid URL. Please provide an absolute http or https URL."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Dispatch errors
	ErrNoMatch        ErrorCode = "NO_MATCH"
	ErrDuplicateName  ErrorCode = "DUPLICATE_NAME"
	ErrSelfAttachment ErrorCode = "SELF_ATTACHMENT"

	// Plugin errors
	ErrInvalidPlugin ErrorCode = "INVALID_PLUGIN"
	ErrPluginHook    ErrorCode = "PLUGIN_HOOK"
	ErrValidation    ErrorCode = "VALIDATION"
	ErrCapability    ErrorCode = "CAPABILITY"
)

// SwitchboardError represents a structured error with code and details
type SwitchboardError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SwitchboardError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SwitchboardError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SwitchboardError) Is(target error) bool {
	var targetErr *SwitchboardError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SwitchboardError with the given code and message
func New(code ErrorCode, message string) *SwitchboardError {
	return &SwitchboardError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SwitchboardError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SwitchboardError {
	return &SwitchboardError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SwitchboardError
func Wrap(err error, code ErrorCode, message string) *SwitchboardError {
	if err == nil {
		return nil
	}
	return &SwitchboardError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SwitchboardError {
	if err == nil {
		return nil
	}
	return &SwitchboardError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SwitchboardError) WithDetail(key string, value interface{}) *SwitchboardError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *SwitchboardError) WithDetails(details map[string]interface{}) *SwitchboardError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code anywhere in its chain
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var sbErr *SwitchboardError
		if !errors.As(err, &sbErr) {
			return false
		}
		if sbErr.Code == code {
			return true
		}
		err = sbErr.Wrapped
	}
	return false
}

// GetErrorCode returns the outermost error code, or ErrUnknown if not a SwitchboardError
func GetErrorCode(err error) ErrorCode {
	var sbErr *SwitchboardError
	if errors.As(err, &sbErr) {
		return sbErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SwitchboardError
func GetErrorDetails(err error) map[string]interface{} {
	var sbErr *SwitchboardError
	if errors.As(err, &sbErr) {
		return sbErr.Details
	}
	return nil
}

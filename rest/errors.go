package rest

import (
	"errors"
	"fmt"
)

// ClientError represents the failure modes of the requester. Status
// classification never produces a ClientError; terminal status codes
// travel as outcomes.
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of client error.
type ErrorType string

const (
	// TransportInitError is a construction-time failure to build the
	// underlying transport.
	TransportInitError ErrorType = "transport_init"
	// TransportError is a failure to complete a request/response
	// exchange.
	TransportError ErrorType = "transport"
	// ValidationError is a malformed request spec.
	ValidationError ErrorType = "validation"
	// InterceptorError is a request or response interceptor failure.
	InterceptorError ErrorType = "interceptor"
)

type transportInitError struct {
	message string
	wrapped error
}

func (e *transportInitError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("transport init error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("transport init error: %s", e.message)
}

func (e *transportInitError) Type() ErrorType {
	return TransportInitError
}

func (e *transportInitError) Unwrap() error {
	return e.wrapped
}

type transportError struct {
	message string
	wrapped error
}

func (e *transportError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("transport error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("transport error: %s", e.message)
}

func (e *transportError) Type() ErrorType {
	return TransportError
}

func (e *transportError) Unwrap() error {
	return e.wrapped
}

type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType {
	return ValidationError
}

type interceptorError struct {
	message string
	stage   string
	wrapped error
}

func (e *interceptorError) Error() string {
	return fmt.Sprintf("interceptor error: %s (stage: %s): %v", e.message, e.stage, e.wrapped)
}

func (e *interceptorError) Type() ErrorType {
	return InterceptorError
}

func (e *interceptorError) Unwrap() error {
	return e.wrapped
}

// NewTransportInitError creates a construction-time transport error.
func NewTransportInitError(message string, wrapped error) ClientError {
	return &transportInitError{message: message, wrapped: wrapped}
}

// NewTransportError creates an exchange-level transport error.
func NewTransportError(message string, wrapped error) ClientError {
	return &transportError{message: message, wrapped: wrapped}
}

// NewValidationError creates a request validation error.
func NewValidationError(message, field string) ClientError {
	return &validationError{message: message, field: field}
}

// NewInterceptorError creates an interceptor error.
func NewInterceptorError(message, stage string, wrapped error) ClientError {
	return &interceptorError{message: message, stage: stage, wrapped: wrapped}
}

// IsErrorType checks if an error is of a specific type.
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsSuccessStatus checks if a status code represents success (2xx).
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

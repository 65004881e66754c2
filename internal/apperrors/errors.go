// Package apperrors defines the application error taxonomy. Every error
// crossing a service boundary carries a category code that maps to an
// HTTP status at the transport edge.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Category codes
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeSendFailed = "SEND_FAILED"
	CodeInternal   = "INTERNAL_ERROR"
)

// AppError is implemented by all typed errors in this package.
type AppError interface {
	error
	Category() string
	HTTPStatus() int
}

// ValidationError marks malformed or out-of-range input.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ValidationError) Category() string { return CodeValidation }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *ValidationError) Unwrap() error    { return e.Err }

// NotFoundError marks a missing entity.
type NotFoundError struct {
	Message string
	Err     error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *NotFoundError) Category() string { return CodeNotFound }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound }
func (e *NotFoundError) Unwrap() error    { return e.Err }

// ConflictError marks a request that contradicts current state, such as
// an outflow larger than the available stock.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConflictError) Category() string { return CodeConflict }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict }
func (e *ConflictError) Unwrap() error    { return e.Err }

// SendError marks a notification delivery failure after retries.
type SendError struct {
	Message string
	Err     error
}

func (e *SendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SendError) Category() string { return CodeSendFailed }
func (e *SendError) HTTPStatus() int  { return http.StatusBadGateway }
func (e *SendError) Unwrap() error    { return e.Err }

// InternalError marks unexpected failures.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *InternalError) Category() string { return CodeInternal }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error    { return e.Err }

// Constructors

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func NewSend(message string, err error) *SendError {
	return &SendError{Message: message, Err: err}
}

func NewInternal(message string, err error) *InternalError {
	return &InternalError{Message: message, Err: err}
}

// Categorize returns the category code and HTTP status of err, falling
// back to the internal category for untyped errors.
func Categorize(err error) (code string, status int) {
	var app AppError
	if errors.As(err, &app) {
		return app.Category(), app.HTTPStatus()
	}
	return CodeInternal, http.StatusInternalServerError
}

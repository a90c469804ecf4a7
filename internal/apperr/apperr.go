// Package apperr defines the error taxonomy shared by the repository, the
// editor and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the class of an AppError.
type Code string

const (
	// CodeValidation is detected client-side and never reaches the store.
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	// CodeStore wraps transport or constraint failures of the store or object storage.
	CodeStore Code = "STORE_ERROR"
	CodeAuth  Code = "AUTH_ERROR"
)

type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func Validation(format string, args ...any) *AppError {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

func NotFound(what, id string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s %s not found", what, id))
}

func Store(message string, err error) *AppError {
	return Wrap(CodeStore, message, err)
}

// Is reports whether any error in err's chain is an AppError with code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the first AppError in err's chain, or CodeStore
// for foreign errors.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStore
}

// Message returns the user-facing message. Store errors keep the underlying
// cause so the editor can show what the store said.
func Message(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	if appErr.Code == CodeStore && appErr.Err != nil {
		return appErr.Message + ": " + appErr.Err.Error()
	}
	return appErr.Message
}

func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

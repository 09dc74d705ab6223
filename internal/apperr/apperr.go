// Package apperr holds the error taxonomy shared by the services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to a response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Code is the machine readable error code sent to clients.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeMissingToken       Code = "MISSING_TOKEN"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeAccountInactive    Code = "ACCOUNT_INACTIVE"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeEmployeeNotFound   Code = "EMPLOYEE_NOT_FOUND"
	CodeLeaveNotFound      Code = "LEAVE_NOT_FOUND"
	CodeEmailExists        Code = "EMAIL_EXISTS"
	CodeEmployeeCodeExists Code = "EMPLOYEE_CODE_EXISTS"
	CodeAlreadyCheckedIn   Code = "ALREADY_CHECKED_IN"
	CodeNoOpenCheckIn      Code = "NO_OPEN_CHECK_IN"
	CodeLeaveDecided       Code = "LEAVE_ALREADY_DECIDED"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// AppError is an error with a kind, a code and a message safe to show to the caller.
// Fields carries per-field details of validation errors.
type AppError struct {
	Kind    Kind
	Code    Code
	Message string
	Fields  map[string]string
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

// Is matches any AppError with the same code, so a wrapped copy of a sentinel
// still satisfies errors.Is against the sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New creates an AppError.
func New(kind Kind, code Code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// Validation creates a validation error with optional field details.
func Validation(message string, fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Code: CodeValidation, Message: message, Fields: fields}
}

// Internal hides err behind a generic message.
func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Code: CodeInternal, Message: "internal server error", Err: err}
}

// Wrap returns a copy of base carrying err as its cause.
func Wrap(base *AppError, err error) *AppError {
	wrapped := *base
	wrapped.Err = err
	return &wrapped
}

// From returns the AppError inside err. Errors that are not AppErrors become Internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

var (
	ErrInvalidCredentials = New(KindUnauthenticated, CodeInvalidCredentials, "invalid email or password")
	ErrMissingToken       = New(KindUnauthenticated, CodeMissingToken, "authorization token is required")
	ErrInvalidToken       = New(KindUnauthenticated, CodeInvalidToken, "invalid or expired token")
	ErrAccountInactive    = New(KindUnauthenticated, CodeAccountInactive, "account not found or inactive")
	ErrForbidden          = New(KindForbidden, CodeForbidden, "insufficient permissions")
	ErrNotFound           = New(KindNotFound, CodeNotFound, "resource not found")
	ErrEmployeeNotFound   = New(KindNotFound, CodeEmployeeNotFound, "employee not found")
	ErrLeaveNotFound      = New(KindNotFound, CodeLeaveNotFound, "leave request not found")
	ErrEmailExists        = New(KindConflict, CodeEmailExists, "email already exists")
	ErrEmployeeCodeExists = New(KindConflict, CodeEmployeeCodeExists, "employee ID already exists")
	ErrAlreadyCheckedIn   = New(KindConflict, CodeAlreadyCheckedIn, "already checked in today")
	ErrNoOpenCheckIn      = New(KindValidation, CodeNoOpenCheckIn, "no check-in found for today or already checked out")
	ErrLeaveDecided       = New(KindConflict, CodeLeaveDecided, "leave request has already been decided")
)

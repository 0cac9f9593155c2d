package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so callers can write
// errors.Is(err, errors.ErrDuplicatePatient).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Common error codes
const (
	CodeNotFound ErrorCode = iota + 1000
	CodeBadRequest
	CodeUnauthorized
	CodeForbidden
	CodeInternal
	CodeDuplicateName
	CodeDuplicatePatient
	CodeInvalidCredentials
	CodeWrongOldPassword
	CodeValidation
	CodeStorageCorrupt
)

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound           = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrUnauthorized       = &AppError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden          = &AppError{Code: CodeForbidden, Message: "forbidden"}
	ErrDuplicateName      = &AppError{Code: CodeDuplicateName, Message: "name already exists"}
	ErrDuplicatePatient   = &AppError{Code: CodeDuplicatePatient, Message: "a patient with the same name or phone already exists"}
	ErrInvalidCredentials = &AppError{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrWrongOldPassword   = &AppError{Code: CodeWrongOldPassword, Message: "old password is incorrect"}
	ErrValidation         = &AppError{Code: CodeValidation, Message: "validation failed"}
	ErrStorageCorrupt     = &AppError{Code: CodeStorageCorrupt, Message: "stored collection is corrupt"}
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "internal error",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func DuplicateName(name string) *AppError {
	return &AppError{
		Code:    CodeDuplicateName,
		Message: fmt.Sprintf("name %q already exists", name),
	}
}

func DuplicatePatient(name, phone string) *AppError {
	return &AppError{
		Code:    CodeDuplicatePatient,
		Message: fmt.Sprintf("a patient named %q or with phone %q already exists", name, phone),
	}
}

func InvalidCredentials() *AppError {
	return &AppError{
		Code:    CodeInvalidCredentials,
		Message: "invalid credentials",
	}
}

func WrongOldPassword() *AppError {
	return &AppError{
		Code:    CodeWrongOldPassword,
		Message: "old password is incorrect",
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Err:     err,
	}
}

func StorageCorrupt(key string, err error) *AppError {
	return &AppError{
		Code:    CodeStorageCorrupt,
		Message: fmt.Sprintf("collection %s is corrupt", key),
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Is and As re-export the standard helpers so callers importing this package
// under the name "errors" keep them.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func New(text string) error { return stderrors.New(text) }

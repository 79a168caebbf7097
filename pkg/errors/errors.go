package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies catalog failures for callers.
type ErrorCode string

const (
	CodeValidation           ErrorCode = "VALIDATION_FAILED"
	CodeDuplicateID          ErrorCode = "DUPLICATE_ID"
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeDanglingReference    ErrorCode = "DANGLING_REFERENCE"
	CodeReferentialIntegrity ErrorCode = "REFERENTIAL_INTEGRITY"
	CodeCorruptStore         ErrorCode = "CORRUPT_STORE"
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// AppError carries a machine-readable code alongside the message.
// The UI/CLI layer maps codes to user-visible text; the catalog never
// swallows one of these.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a record failing structural rules before any write.
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewValidationErrorf is NewValidationError with formatting.
func NewValidationErrorf(format string, args ...any) *AppError {
	return &AppError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NewDuplicateIDError reports a caller-supplied id colliding on add.
func NewDuplicateIDError(message string) *AppError {
	return &AppError{Code: CodeDuplicateID, Message: message}
}

// NewNotFoundError reports an update/delete targeting a nonexistent id.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

// NewDanglingReferenceError reports a provider_id that does not resolve.
func NewDanglingReferenceError(message string) *AppError {
	return &AppError{Code: CodeDanglingReference, Message: message}
}

// NewReferentialIntegrityError reports a delete blocked by live references.
func NewReferentialIntegrityError(message string) *AppError {
	return &AppError{Code: CodeReferentialIntegrity, Message: message}
}

// NewCorruptStoreError reports a backing file that exists but cannot be
// loaded. The message names the file and record index; cause carries the
// parse or validation failure.
func NewCorruptStoreError(message string, cause error) *AppError {
	return &AppError{Code: CodeCorruptStore, Message: message, Err: cause}
}

// NewInternalError wraps unexpected I/O or encoding failures.
func NewInternalError(message string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Err: cause}
}

func is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func IsValidation(err error) bool           { return is(err, CodeValidation) }
func IsDuplicateID(err error) bool          { return is(err, CodeDuplicateID) }
func IsNotFound(err error) bool             { return is(err, CodeNotFound) }
func IsDanglingReference(err error) bool    { return is(err, CodeDanglingReference) }
func IsReferentialIntegrity(err error) bool { return is(err, CodeReferentialIntegrity) }
func IsCorruptStore(err error) bool         { return is(err, CodeCorruptStore) }

// Package errors provides unified error handling across pycense.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the shared error vocabulary of the command-line tool. The
// rendering core (internal/box, internal/substitute) reports plain sentinel
// errors; everything above it (storage, config, service, cli) speaks AppError
// so the terminal layer can format failures consistently.
//
// KEY RESPONSIBILITIES:
// - Define error codes and categories for the failures users can hit
// - Provide AppError with severity, details and context
// - Translate core sentinel errors (unknown setting, invalid value) into AppErrors
//
// INTEGRATION POINTS:
// - internal/storage/storage.go: NotFoundError / AlreadyExistsError / StorageError for the license library and profiles
// - internal/config/config.go: ValidationError for unknown config keys
// - internal/service/service.go: FromSettingError wraps box ingestion errors
// - internal/cli/root.go: CLIErrorHandler prints the final error and sets the exit status
// - internal/ui/picker.go: TUIErrorHandler styles errors inside the picker
//
// USAGE PATTERNS:
// - Create errors: NotFoundError("license 'mit'"), ValidationError("...")
// - Wrap errors: Wrap(err, ErrCodeStorageFailure, "...")
// - Check codes: HasCode(err, ErrCodeNotFound)
package errors

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/pombredanne/pycense/internal/box"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation     ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrCodeUnknownSetting ErrorCode = "UNKNOWN_SETTING"

	// Service errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"

	// Resource errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrCodeFileLocked     ErrorCode = "FILE_LOCKED"

	// External tool errors
	ErrCodeEditorFailed     ErrorCode = "EDITOR_FAILED"
	ErrCodeClipboardFailure ErrorCode = "CLIPBOARD_FAILURE"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryService    ErrorCategory = "service"
	CategoryStorage    ErrorCategory = "storage"
	CategoryExternal   ErrorCategory = "external"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeUnknownSetting:
		return CategoryValidation, SeverityWarning

	case ErrCodeInternalError:
		return CategoryService, SeverityCritical
	case ErrCodeNotFound:
		return CategoryService, SeverityInfo
	case ErrCodeAlreadyExists:
		return CategoryService, SeverityWarning

	case ErrCodeStorageFailure:
		return CategoryStorage, SeverityError
	case ErrCodeFileNotFound:
		return CategoryStorage, SeverityInfo
	case ErrCodeFileLocked:
		return CategoryStorage, SeverityWarning

	case ErrCodeEditorFailed, ErrCodeClipboardFailure:
		return CategoryExternal, SeverityError

	default:
		return CategorySystem, SeverityError
	}
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, err.Error())
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// FromSettingError converts an error from settings ingestion into an
// AppError. Unknown names and bad values keep their own codes; anything else
// is returned unchanged.
func FromSettingError(err error) error {
	var unknown *box.UnknownSettingError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &unknown):
		appErr := Wrap(err, ErrCodeUnknownSetting, fmt.Sprintf("Unknown setting '%s'", unknown.Name))
		if len(unknown.Suggestions) > 0 {
			appErr.WithDetails(fmt.Sprintf("did you mean %v?", unknown.Suggestions))
		}
		return appErr
	case stderrors.Is(err, box.ErrInvalidValue):
		return Wrap(err, ErrCodeInvalidInput, err.Error())
	default:
		return err
	}
}

// Common error constructors for frequently used errors
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func InvalidInputError(message string) *AppError {
	return NewAppError(ErrCodeInvalidInput, message)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AlreadyExistsError(resource string) *AppError {
	return NewAppError(ErrCodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func FileNotFoundError(path string, err error) *AppError {
	return Wrap(err, ErrCodeFileNotFound, fmt.Sprintf("File not found: %s", path))
}

func EditorError(editor string, err error) *AppError {
	return Wrap(err, ErrCodeEditorFailed, fmt.Sprintf("Editor '%s' failed", editor))
}

func ClipboardError(err error) *AppError {
	return Wrap(err, ErrCodeClipboardFailure, "Could not copy to clipboard")
}

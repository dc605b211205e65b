package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeSchema     ErrorType = "SCHEMA"
	ErrTypeEmptySet   ErrorType = "EMPTY_SET"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// Sentinels matched by errors.Is against an *AppError of the same type
var (
	ErrNotFound   = errors.New("not found")
	ErrSchema     = errors.New("schema error")
	ErrEmptySet   = errors.New("empty set")
	ErrParsing    = errors.New("parsing error")
	ErrStorage    = errors.New("storage error")
	ErrInvalid    = errors.New("validation error")
	ErrConfig     = errors.New("config error")
)

var sentinels = map[ErrorType]error{
	ErrTypeNotFound:   ErrNotFound,
	ErrTypeSchema:     ErrSchema,
	ErrTypeEmptySet:   ErrEmptySet,
	ErrTypeParsing:    ErrParsing,
	ErrTypeStorage:    ErrStorage,
	ErrTypeValidation: ErrInvalid,
	ErrTypeConfig:     ErrConfig,
}

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel registered for the error type
func (e *AppError) Is(target error) bool {
	s, ok := sentinels[e.Type]
	return ok && s == target
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the type of the first AppError in the chain, or "" if none
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// NewRowNotFoundError reports a row index outside a record store
func NewRowNotFoundError(source string, index, size int) *AppError {
	return NewAppError(ErrTypeNotFound,
		fmt.Sprintf("row %d not found in %s (%d rows)", index, source, size), nil).
		WithContext("source", source).
		WithContext("index", index).
		WithContext("size", size)
}

// NewSchemaError reports required fields missing from a source's field set
func NewSchemaError(source string, missing []string) *AppError {
	return NewAppError(ErrTypeSchema,
		fmt.Sprintf("%s is missing required fields: %s", source, strings.Join(missing, ", ")), nil).
		WithContext("source", source).
		WithContext("missing_fields", missing)
}

// NewEmptySetError reports an aggregation over zero records
func NewEmptySetError(message string) *AppError {
	return NewAppError(ErrTypeEmptySet, message, nil)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

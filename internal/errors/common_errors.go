package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDataLoad    ErrorType = "DATA_LOAD"
	ErrTypeUnknownBand ErrorType = "UNKNOWN_BAND"
	ErrTypeEmptyGroup  ErrorType = "EMPTY_GROUP"
	ErrTypeStorage     ErrorType = "STORAGE"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeConfig      ErrorType = "CONFIG"
)

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

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf classifies err into the application error taxonomy.
// It returns an empty ErrorType for errors outside of it.
func TypeOf(err error) ErrorType {
	var loadErr *DataLoadError
	var bandErr *UnknownBandError
	var emptyErr *EmptyGroupError
	var appErr *AppError

	switch {
	case err == nil:
		return ""
	case As(err, &loadErr):
		return ErrTypeDataLoad
	case As(err, &bandErr):
		return ErrTypeUnknownBand
	case As(err, &emptyErr):
		return ErrTypeEmptyGroup
	case As(err, &appErr):
		return appErr.Type
	}
	return ""
}

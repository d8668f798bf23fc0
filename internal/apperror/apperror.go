package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrRead       = errors.New("read failure")
	ErrParse      = errors.New("parse failure")
	ErrWrite      = errors.New("write failure")
	ErrDeclined   = errors.New("declined")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // human-readable message
	Field   string // optional: offending form field
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// ReadFailed wraps a read error that is neither absence nor bad content.
func ReadFailed(path string, err error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrRead, err),
		Message: fmt.Sprintf("failed to read %s: %v", path, err),
	}
}

// ParseFailed marks stored content that could not be decoded.
func ParseFailed(path string, err error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrParse, err),
		Message: fmt.Sprintf("malformed content in %s: %v", path, err),
	}
}

// WriteFailed wraps a directory-create or file-replace error.
func WriteFailed(path string, err error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrWrite, err),
		Message: fmt.Sprintf("failed to write %s: %v", path, err),
	}
}

// Declined is returned when the user refuses a confirmation prompt.
func Declined(message string) *AppError {
	return &AppError{
		Err:     ErrDeclined,
		Message: message,
	}
}

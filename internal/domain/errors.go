package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAssetNotFound      = errors.New("asset not found")
	ErrSourceFileMissing  = errors.New("source image file missing")
	ErrJobNotFound        = errors.New("batch job not found")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrNothingToRedo      = errors.New("nothing to redo")
)

// ValidationError rejects a request before any adapter is called.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for the given field.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

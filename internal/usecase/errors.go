package usecase

import (
	"errors"
	"fmt"
)

// MaxMissingExamples caps the missing texts reported by a failed validation
const MaxMissingExamples = 5

// Error definitions for the prediction and dataset usecases
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrMissingInput         = errors.New("provide 'text' or 'texts' for prediction")
	ErrDatasetNotFound      = errors.New("dataset not found")
	ErrValidationFailed     = errors.New("some inputs were not found in the selected dataset")
	ErrUploadParse          = errors.New("failed to parse uploaded file")
	ErrModelNotReady        = errors.New("model not loaded yet")
	ErrClassificationFailed = errors.New("classification failed for every input")
)

// DatasetNotFoundError is returned when validation targets an unknown dataset
type DatasetNotFoundError struct {
	Name string
}

func (e *DatasetNotFoundError) Error() string {
	return fmt.Sprintf("dataset '%s' not found for validation", e.Name)
}

// Is matches ErrDatasetNotFound
func (e *DatasetNotFoundError) Is(target error) bool {
	return target == ErrDatasetNotFound
}

// ValidationFailedError reports inputs missing from the reference corpus.
// MissingExamples holds at most MaxMissingExamples original texts, in input order.
type ValidationFailedError struct {
	MissingCount    int
	MissingExamples []string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("%s: %d missing", ErrValidationFailed.Error(), e.MissingCount)
}

// Is matches ErrValidationFailed
func (e *ValidationFailedError) Is(target error) bool {
	return target == ErrValidationFailed
}

// UploadParseError wraps the reason an uploaded file could not be read
type UploadParseError struct {
	Err error
}

func (e *UploadParseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUploadParse.Error(), e.Err)
}

// Is matches ErrUploadParse
func (e *UploadParseError) Is(target error) bool {
	return target == ErrUploadParse
}

func (e *UploadParseError) Unwrap() error {
	return e.Err
}

func newValidationFailedError(missing []string) *ValidationFailedError {
	n := len(missing)
	if n > MaxMissingExamples {
		n = MaxMissingExamples
	}
	examples := make([]string, n)
	copy(examples, missing[:n])
	return &ValidationFailedError{
		MissingCount:    len(missing),
		MissingExamples: examples,
	}
}

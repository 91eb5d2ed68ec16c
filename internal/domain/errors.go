package domain

import "fmt"

// Error types for consistent error handling across the service.

// ErrExternalService indicates an outbound call failed after its retry
// budget was spent.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrDayProcessing wraps any failure while processing a single day of a
// range. The range aggregator logs it and skips the day.
type ErrDayProcessing struct {
	Day string
	Err error
}

func (e *ErrDayProcessing) Error() string {
	return fmt.Sprintf("processing day %s: %v", e.Day, e.Err)
}

func (e *ErrDayProcessing) Unwrap() error {
	return e.Err
}

// ErrArtifactFetch indicates a pre-rendered report download failed.
// The caller writes a placeholder file and continues.
type ErrArtifactFetch struct {
	Endpoint string
	Err      error
}

func (e *ErrArtifactFetch) Error() string {
	return fmt.Sprintf("artifact fetch [%s]: %v", e.Endpoint, e.Err)
}

func (e *ErrArtifactFetch) Unwrap() error {
	return e.Err
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

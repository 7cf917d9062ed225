package download

import (
	"errors"
	"fmt"
)

// Concurrency limits
const (
	MinConcurrent        = 1
	MaxConcurrent        = 5
	DefaultMaxConcurrent = 3
)

var (
	// ErrValidation is matched by every *ValidationError
	ErrValidation = errors.New("validation failed")

	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidConcurrency = fmt.Errorf("max concurrent downloads must be between %d and %d", MinConcurrent, MaxConcurrent)
	ErrNothingToDownload  = errors.New("no pending items to download")
)

// ValidationError is returned synchronously by Enqueue; no item is created
type ValidationError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.URL, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrValidation) succeed
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AnalysisError is a failed metadata fetch, recorded on the item
type AnalysisError struct {
	URL   string
	Class Classification
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed for %s: %s", e.URL, e.Class.Message)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// DownloadError is a failed transfer, recorded on the item
type DownloadError struct {
	URL   string
	Class Classification
	Err   error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed for %s: %s", e.URL, e.Class.Message)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// UnexpectedError wraps a panic or other failure inside a worker
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// DisplayMessage returns the error text shortened for the item row
func (e *UnexpectedError) DisplayMessage() string {
	return "Unexpected error: " + truncate(fmt.Sprint(e.Err), MaxRawMessageLength)
}

package model

import (
	"errors"
	"fmt"
)

// ItemStatus represents the state of a single queued video
type ItemStatus string

const (
	// StatusPending means the item is queued and waiting for a worker
	StatusPending ItemStatus = "pending"

	// StatusAnalyzing means metadata is being fetched
	StatusAnalyzing ItemStatus = "analyzing"

	// StatusDownloading means a worker is transferring the video
	StatusDownloading ItemStatus = "downloading"

	// StatusPaused is a display label only; the transfer keeps running
	StatusPaused ItemStatus = "paused"

	// StatusCompleted means the file was saved
	StatusCompleted ItemStatus = "completed"

	// StatusError means analysis or download failed
	StatusError ItemStatus = "error"

	// StatusCancelled means the user cancelled the item
	StatusCancelled ItemStatus = "cancelled"
)

// ErrInvalidTransition is returned when a status change is not allowed
var ErrInvalidTransition = errors.New("invalid status transition")

var transitions = map[ItemStatus][]ItemStatus{
	StatusPending:     {StatusAnalyzing, StatusDownloading, StatusCancelled},
	StatusAnalyzing:   {StatusPending, StatusError, StatusCancelled},
	StatusDownloading: {StatusCompleted, StatusError, StatusCancelled, StatusPaused},
	// completed and error stay reachable from paused because pausing never
	// suspends the underlying transfer.
	StatusPaused:    {StatusDownloading, StatusPending, StatusCancelled, StatusCompleted, StatusError},
	StatusError:     {StatusPending, StatusAnalyzing, StatusCancelled},
	StatusCancelled: {StatusPending, StatusAnalyzing},
	StatusCompleted: nil,
}

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the defined statuses
func (s ItemStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsActive returns true for pending, analyzing and downloading items
func (s ItemStatus) IsActive() bool {
	return s == StatusPending || s == StatusAnalyzing || s == StatusDownloading
}

// IsTerminal returns true if no worker will act on the item again without
// an explicit retry
func (s ItemStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError || s == StatusCancelled
}

// CanRetry reports whether Retry is accepted from this status
func (s ItemStatus) CanRetry() bool {
	return s == StatusError || s == StatusCancelled || s == StatusPaused
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// checkTransition returns a wrapped ErrInvalidTransition for illegal moves
func checkTransition(from, to ItemStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

package session

import "errors"

var (
	// ErrRunInProgress is returned when a target already has an analysis in flight
	ErrRunInProgress = errors.New("an analysis is already running for this target")
	// ErrDeadlineExceeded is returned when a view stops waiting for its run
	ErrDeadlineExceeded = errors.New("analysis did not finish before the deadline")
	// ErrViewClosed is returned when running a view that was already closed
	ErrViewClosed = errors.New("analysis view is closed")
)

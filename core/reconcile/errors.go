package reconcile

import (
	"context"
	"errors"
)

var (
	// ErrInterrupted is returned when a pass is cancelled; the result still carries the left-out entries.
	ErrInterrupted = errors.New("reconciliation interrupted")
	// ErrInvalidEntry marks an input entry without a well-defined key.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrRemoteUnavailable wraps failures to read the remote list before any upload.
	ErrRemoteUnavailable = errors.New("remote list unavailable")
	// ErrUnauthorized marks a remote that no longer accepts the account's credentials.
	// It stops the pass like an interruption; the rest of the plan is left out.
	ErrUnauthorized = errors.New("remote rejected the credentials")
)

// isCancellation reports whether err stems from a cancelled or expired context.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// stopsPass reports whether err ends the pass instead of failing one entry.
func stopsPass(err error) bool {
	return isCancellation(err) || errors.Is(err, ErrUnauthorized)
}

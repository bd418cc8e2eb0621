package engine

import (
	"errors"
	"strings"
)

var (
	// ErrUserNotFound is returned when the named user has no stored aggregate.
	ErrUserNotFound = errors.New("liftlog: user not found")

	// ErrWorkoutNotFound is returned when a workout id resolves to nothing,
	// or the acting user has no meta entry for it.
	ErrWorkoutNotFound = errors.New("liftlog: workout not found")

	// ErrSharedWorkoutNotFound is returned when a shared workout id is not in
	// the recipient's inbox or its row is missing.
	ErrSharedWorkoutNotFound = errors.New("liftlog: shared workout not found")

	// ErrFriendRequestNotFound is returned when acting on a friend request
	// that is not pending.
	ErrFriendRequestNotFound = errors.New("liftlog: friend request not found")

	// ErrUnauthorized is returned when a non-creator tries to modify a workout.
	ErrUnauthorized = errors.New("liftlog: only the workout's creator may modify it")

	// ErrMalformedAggregate is returned when a stored record is missing
	// required fields or violates a structural invariant.
	ErrMalformedAggregate = errors.New("liftlog: stored aggregate is malformed")
)

// ValidationError aggregates every rule violation found before any write is
// attempted. The message joins the violations with newlines; this wording is
// part of the wire contract.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "\n")
}

// invalid wraps a non-empty violation list into a *ValidationError.
func invalid(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

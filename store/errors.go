package store

import "errors"

var (
	// ErrNotFound is returned when an item doesn't exist, or a conditional
	// update targeted a missing item.
	ErrNotFound = errors.New("store: item not found")

	// ErrTransactionAborted is returned when DynamoDB canceled the atomic
	// batch. None of the batched writes took effect.
	ErrTransactionAborted = errors.New("store: transaction aborted")

	// ErrBatchTooLarge is returned when a transaction holds more writes than
	// the per-call ceiling. The batch is rejected whole, never split.
	ErrBatchTooLarge = errors.New("store: transaction exceeds item ceiling")
)

// Package store provides the DynamoDB access layer for the liftlog backend.
//
// The engine package never talks to DynamoDB directly; it goes through
// [Store], which wraps the handful of primitives the backend needs:
// item get/put/update/delete plus bounded atomic multi-item transactions.
//
// # Transactions
//
// Every mutating flow in the engine bundles its writes into a [Tx]: a list
// of declarative templates (put item, delete item, or field-level set/remove
// updates) that compile into a single TransactWriteItems call. The store
// commits the batch atomically or not at all. A batch exceeding
// [Config.MaxTransactItems] is rejected up front with [ErrBatchTooLarge]
// rather than silently split, and a batch the service cancels surfaces as
// [ErrTransactionAborted] with zero partial effects.
//
// # Errors
//
//   - [ErrNotFound] - item absent on Get or conditional Update
//   - [ErrTransactionAborted] - the service canceled the atomic batch
//   - [ErrBatchTooLarge] - transaction exceeds the per-call item ceiling
//
// Retry and backoff are not implemented here; the aws-sdk client owns
// request-level retries.
package store

// Package engine implements the cross-entity consistency flows of the
// liftlog backend: workout lifecycle (create/edit/rename/delete/restart/
// sync/switch/copy), workout sharing (send/accept/decline/seen), the friend
// graph, and the denormalized exercise back-reference index that ties them
// together.
//
// The store has no joins and no foreign keys, so every operation here
// re-derives which items it touches, recomputes set differences for the
// back-reference maps, and bundles its writes into one atomic transaction
// via package store. Validation failures are returned before any write is
// attempted; an aborted transaction leaves zero partial effects.
//
// Operations are stateless per invocation: the user aggregate is loaded
// fresh every time (no read cache), mutated in memory, and written back in
// a single batch. There is no optimistic concurrency control; concurrent
// operations on the same aggregate are last-writer-wins per attribute path.
// The only flow that spans multiple non-atomic steps is BlockUser, which is
// documented as such.
package engine

// Package model defines the stored aggregates of the liftlog backend.
//
// Three aggregates live in their own DynamoDB tables: User (keyed by
// username), Workout (keyed by workoutId) and SharedWorkout (keyed by
// sharedWorkoutId). Everything else — exercise catalog, workout summaries,
// friend lists, received-workout inbox — is denormalized onto the User item
// so listings never touch the workout tables.
//
// # Routine shapes
//
// A routine is a weeks → days → exercises tree and exists in two shapes:
//
//   - owned: exercises referenced by exerciseId into the owner's catalog,
//     each instance carrying a completion flag and live numeric values.
//   - shared: exercises referenced by name, self-contained so the snapshot
//     survives transfer into a recipient whose id space is disjoint.
//
// [Routine.ToShared] and [SharedRoutine.ToOwned] convert between the two.
// Completion flags never survive conversion; they reset to false.
//
// # Denormalized back-references
//
// Each OwnedExercise carries a workouts map (workoutId → workoutName) listing
// every workout whose routine references it. The store has no foreign keys,
// so package engine recomputes this map on every mutation; the invariant is
// that an entry exists iff the exercise id appears somewhere in that
// workout's routine.
package model

// Package ids mints identifiers for workouts, shared workouts and owned
// exercises. Ids are plain UUIDv4 strings; every id space is per-user or
// per-table, so no further qualification is needed.
package ids

import "github.com/google/uuid"

// New returns a fresh random id.
func New() string {
	return uuid.NewString()
}

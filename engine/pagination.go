package engine

import (
	"context"
	"sort"

	"github.com/jacentio/liftlog/model"
)

// ReceivedWorkoutSummary is one inbox entry paired with its id for the
// paged listing payload.
type ReceivedWorkoutSummary struct {
	ID   string
	Meta model.ReceivedWorkoutMeta
}

// ReceivedWorkoutBatch returns one page of the inbox, most recently sent
// first. Ties on the sent timestamp order by id so paging is deterministic.
// Out-of-range batch numbers yield an empty page, not an error. A
// non-positive batchSize falls back to the default page size.
func ReceivedWorkoutBatch(received map[string]model.ReceivedWorkoutMeta, batchNumber, batchSize int) []ReceivedWorkoutSummary {
	if batchSize <= 0 {
		batchSize = model.DefaultReceivedPageSize
	}
	if batchNumber < 0 {
		return nil
	}

	all := make([]ReceivedWorkoutSummary, 0, len(received))
	for id, meta := range received {
		all = append(all, ReceivedWorkoutSummary{ID: id, Meta: meta})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Meta.DateSent != all[j].Meta.DateSent {
			return all[i].Meta.DateSent > all[j].Meta.DateSent
		}
		return all[i].ID < all[j].ID
	})

	start := batchNumber * batchSize
	if start >= len(all) {
		return nil
	}
	end := start + batchSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// GetReceivedWorkoutBatch loads the user and returns one inbox page.
func (e *Engine) GetReceivedWorkoutBatch(ctx context.Context, username string, batchNumber, batchSize int) ([]ReceivedWorkoutSummary, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return ReceivedWorkoutBatch(u.ReceivedWorkouts, batchNumber, batchSize), nil
}

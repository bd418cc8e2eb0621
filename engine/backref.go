package engine

import "github.com/jacentio/liftlog/model"

// applyWorkoutDiff reconciles the exercise back-reference maps after a
// workout's routine changed from oldIDs to newIDs. Ids entering the routine
// gain a workoutId → workoutName entry; ids leaving it lose theirs. Create
// passes an empty oldIDs, delete an empty newIDs.
func applyWorkoutDiff(exercises map[string]model.OwnedExercise, workoutID, workoutName string, oldIDs, newIDs map[string]struct{}) {
	name := model.TrimmedName(workoutName)

	for id := range newIDs {
		if _, ok := oldIDs[id]; ok {
			continue
		}
		ex, ok := exercises[id]
		if !ok {
			continue
		}
		if ex.Workouts == nil {
			ex.Workouts = make(map[string]string)
		}
		ex.Workouts[workoutID] = name
		exercises[id] = ex
	}

	for id := range oldIDs {
		if _, ok := newIDs[id]; ok {
			continue
		}
		ex, ok := exercises[id]
		if !ok {
			continue
		}
		delete(ex.Workouts, workoutID)
		exercises[id] = ex
	}
}

// relabelWorkout rewrites the back-reference value strings after a rename.
// The id sets don't change; only the labels do.
func relabelWorkout(exercises map[string]model.OwnedExercise, workoutID, newName string) {
	name := model.TrimmedName(newName)
	for id, ex := range exercises {
		if _, ok := ex.Workouts[workoutID]; ok {
			ex.Workouts[workoutID] = name
			exercises[id] = ex
		}
	}
}

// removeWorkoutBackrefs drops every back-reference to a deleted workout.
// Works from the maps themselves so no workout fetch is needed on delete.
func removeWorkoutBackrefs(exercises map[string]model.OwnedExercise, workoutID string) {
	for id, ex := range exercises {
		if _, ok := ex.Workouts[workoutID]; ok {
			delete(ex.Workouts, workoutID)
			exercises[id] = ex
		}
	}
}

// ratchetCompleted raises the catalog default weight of every completed
// instance whose weight beats its exercise's default. Returns whether the
// catalog changed. Defaults only ever ratchet upward.
func ratchetCompleted(exercises map[string]model.OwnedExercise, routine model.Routine) bool {
	changed := false
	for _, week := range routine.Weeks {
		for _, day := range week.Days {
			for _, ref := range day.Exercises {
				if !ref.Completed {
					continue
				}
				ex, ok := exercises[ref.ExerciseID]
				if !ok || ref.Weight <= ex.DefaultWeight {
					continue
				}
				ex.RaiseDefaultWeight(ref.Weight)
				exercises[ref.ExerciseID] = ex
				changed = true
			}
		}
	}
	return changed
}

package engine

import (
	"fmt"

	"github.com/jacentio/liftlog/model"
)

// validateWorkoutQuota checks the tier's workout-count ceiling for one more
// workout.
func validateWorkoutQuota(u *model.User) []string {
	limit := model.WorkoutLimit(u.IsPremium())
	if len(u.WorkoutMetas) >= limit {
		return []string{fmt.Sprintf("workout limit of %d reached", limit)}
	}
	return nil
}

// validateWorkoutName checks length and uniqueness of a (trimmed) workout
// name. excludeID skips the workout being renamed when comparing.
func validateWorkoutName(u *model.User, name, excludeID string) []string {
	var violations []string
	if name == "" {
		violations = append(violations, "workout name cannot be empty")
	}
	if len(name) > model.MaxWorkoutNameLength {
		violations = append(violations, fmt.Sprintf("workout name exceeds %d characters", model.MaxWorkoutNameLength))
	}
	for id, meta := range u.WorkoutMetas {
		if id != excludeID && meta.Name == name {
			violations = append(violations, fmt.Sprintf("workout named %q already exists", name))
			break
		}
	}
	return violations
}

// validateRoutineShape checks the structural ceilings of a routine and,
// when requireExercises is set, rejects days with no exercises.
func validateRoutineShape(r model.Routine, requireExercises bool) []string {
	var violations []string
	if len(r.Weeks) == 0 {
		violations = append(violations, "workout must have at least one week")
	}
	if len(r.Weeks) > model.MaxWeeks {
		violations = append(violations, fmt.Sprintf("workout exceeds %d weeks", model.MaxWeeks))
	}
	for wi, week := range r.Weeks {
		if len(week.Days) > model.MaxDaysPerWeek {
			violations = append(violations, fmt.Sprintf("week %d exceeds %d days", wi+1, model.MaxDaysPerWeek))
		}
		if requireExercises {
			for di, day := range week.Days {
				if len(day.Exercises) == 0 {
					violations = append(violations, fmt.Sprintf("day %d of week %d has no exercises", di+1, wi+1))
				}
			}
		}
	}
	return violations
}

// validateRoutineReferences checks that every exercise reference resolves
// into the catalog.
func validateRoutineReferences(r model.Routine, catalog map[string]model.OwnedExercise) []string {
	var violations []string
	reported := make(map[string]bool)
	for _, week := range r.Weeks {
		for _, day := range week.Days {
			for _, ref := range day.Exercises {
				if _, ok := catalog[ref.ExerciseID]; !ok && !reported[ref.ExerciseID] {
					reported[ref.ExerciseID] = true
					violations = append(violations, fmt.Sprintf("routine references unknown exercise %s", ref.ExerciseID))
				}
			}
		}
	}
	return violations
}

package model

import (
	"fmt"
	"strings"
)

// ToShared converts an owned routine into the shared shape by resolving
// every exercise id through the owner's catalog. Completion flags and ids
// are dropped. The returned side map carries per-name catalog metadata,
// deduplicated by name: if two distinct ids share a name they collapse into
// one shared entry (lossy merge).
//
// Returns an error when a reference does not resolve, which means the
// stored aggregate violated the backref invariant.
func (r Routine) ToShared(catalog map[string]OwnedExercise) (SharedRoutine, map[string]SharedExerciseInfo, error) {
	shared := SharedRoutine{Weeks: make([]SharedWeek, len(r.Weeks))}
	info := make(map[string]SharedExerciseInfo)

	for i, week := range r.Weeks {
		days := make([]SharedDay, len(week.Days))
		for j, day := range week.Days {
			exercises := make([]SharedExerciseRef, len(day.Exercises))
			for k, ref := range day.Exercises {
				owned, ok := catalog[ref.ExerciseID]
				if !ok {
					return SharedRoutine{}, nil, fmt.Errorf("exercise %s not in owner catalog", ref.ExerciseID)
				}
				exercises[k] = SharedExerciseRef{
					ExerciseName: owned.Name,
					Weight:       ref.Weight,
					Sets:         ref.Sets,
					Reps:         ref.Reps,
					Details:      ref.Details,
				}
				if _, seen := info[owned.Name]; !seen {
					focuses := make([]string, len(owned.Focuses))
					copy(focuses, owned.Focuses)
					info[owned.Name] = SharedExerciseInfo{
						Focuses:  focuses,
						VideoURL: owned.VideoURL,
					}
				}
			}
			days[j] = SharedDay{Exercises: exercises}
		}
		shared.Weeks[i] = SharedWeek{Days: days}
	}

	return shared, info, nil
}

// ToOwned converts a shared routine into the owned shape against the
// recipient's catalog. Names that already exist in the catalog reuse their
// id; genuinely new names get an id from mint and a new OwnedExercise
// materialized from the side map, with defaults seeded from the first
// instance encountered. Every produced reference starts with completed
// false.
//
// The recipient catalog is not mutated; newly materialized exercises are
// returned separately keyed by their minted id.
func (r SharedRoutine) ToOwned(catalog map[string]OwnedExercise, info map[string]SharedExerciseInfo, mint func() string) (Routine, map[string]OwnedExercise) {
	idByName := make(map[string]string, len(catalog))
	for id, ex := range catalog {
		idByName[ex.Name] = id
	}

	created := make(map[string]OwnedExercise)
	owned := Routine{Weeks: make([]Week, len(r.Weeks))}

	for i, week := range r.Weeks {
		days := make([]Day, len(week.Days))
		for j, day := range week.Days {
			exercises := make([]ExerciseRef, len(day.Exercises))
			for k, ref := range day.Exercises {
				id, ok := idByName[ref.ExerciseName]
				if !ok {
					id = mint()
					idByName[ref.ExerciseName] = id
					meta := info[ref.ExerciseName]
					focuses := make([]string, len(meta.Focuses))
					copy(focuses, meta.Focuses)
					created[id] = OwnedExercise{
						Name:           ref.ExerciseName,
						DefaultWeight:  ref.Weight,
						DefaultSets:    ref.Sets,
						DefaultReps:    ref.Reps,
						DefaultDetails: ref.Details,
						VideoURL:       meta.VideoURL,
						Focuses:        focuses,
						Workouts:       make(map[string]string),
					}
				}
				exercises[k] = ExerciseRef{
					ExerciseID: id,
					Completed:  false,
					Weight:     ref.Weight,
					Sets:       ref.Sets,
					Reps:       ref.Reps,
					Details:    ref.Details,
				}
			}
			days[j] = Day{Exercises: exercises}
		}
		owned.Weeks[i] = Week{Days: days}
	}

	return owned, created
}

// NewExerciseNames returns the shared-routine exercise names that do not yet
// exist in the recipient's catalog. Used for quota checks before accepting.
func (r SharedRoutine) NewExerciseNames(catalog map[string]OwnedExercise) []string {
	have := make(map[string]bool, len(catalog))
	for _, ex := range catalog {
		have[ex.Name] = true
	}
	seen := make(map[string]bool)
	var names []string
	for _, week := range r.Weeks {
		for _, day := range week.Days {
			for _, ref := range day.Exercises {
				if !have[ref.ExerciseName] && !seen[ref.ExerciseName] {
					seen[ref.ExerciseName] = true
					names = append(names, ref.ExerciseName)
				}
			}
		}
	}
	return names
}

// TrimmedName returns the workout name with surrounding whitespace removed.
// Backref values and meta entries always store the trimmed form.
func TrimmedName(name string) string {
	return strings.TrimSpace(name)
}

package model

// SharedWorkout is a portable, name-indexed snapshot of a workout prepared
// for transfer into another user's disjoint id space. Keyed by
// sharedWorkoutId. Created on send, deleted on accept; decline leaves the
// row in place and only removes the recipient's inbox entry (source
// behavior retained pending product clarification).
type SharedWorkout struct {
	ID      string        `dynamodbav:"sharedWorkoutId"`
	Name    string        `dynamodbav:"workoutName"`
	Creator string        `dynamodbav:"creator"`
	Routine SharedRoutine `dynamodbav:"routine"`

	// Exercises maps exercise name → catalog metadata needed to materialize
	// a new OwnedExercise on accept, deduplicated by name.
	Exercises map[string]SharedExerciseInfo `dynamodbav:"exercises"`
}

// SharedExerciseInfo is the per-name side table carried with a shared
// routine: everything about an exercise that is not instance-specific.
type SharedExerciseInfo struct {
	Focuses  []string `dynamodbav:"focuses"`
	VideoURL string   `dynamodbav:"videoUrl,omitempty"`
}

// SharedRoutine is the shared-shape weeks → days → exercises tree.
type SharedRoutine struct {
	Weeks []SharedWeek `dynamodbav:"weeks"`
}

// SharedWeek is one week of a shared routine.
type SharedWeek struct {
	Days []SharedDay `dynamodbav:"days"`
}

// SharedDay is one day of a shared week.
type SharedDay struct {
	Exercises []SharedExerciseRef `dynamodbav:"exercises"`
}

// SharedExerciseRef is one exercise instance inside a shared routine,
// referenced by name. There is no completion flag; progress never crosses
// user boundaries.
type SharedExerciseRef struct {
	ExerciseName string  `dynamodbav:"exerciseName"`
	Weight       float64 `dynamodbav:"weight"`
	Sets         int     `dynamodbav:"sets"`
	Reps         int     `dynamodbav:"reps"`
	Details      string  `dynamodbav:"details"`
}

// TotalDays counts days across all weeks of the shared routine.
func (r SharedRoutine) TotalDays() int {
	n := 0
	for _, w := range r.Weeks {
		n += len(w.Days)
	}
	return n
}

// TotalExercises counts exercise instances across the shared routine.
func (r SharedRoutine) TotalExercises() int {
	n := 0
	for _, w := range r.Weeks {
		for _, d := range w.Days {
			n += len(d.Exercises)
		}
	}
	return n
}

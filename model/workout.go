package model

// Workout is the full workout row, keyed by workoutId.
type Workout struct {
	ID           string `dynamodbav:"workoutId"`
	Name         string `dynamodbav:"workoutName"`
	Creator      string `dynamodbav:"creator"`
	CreationDate string `dynamodbav:"creationDate"`

	// MostFrequentFocus is the FocusDelimiter-joined set of focus tags tied
	// at the maximum instance count across the routine.
	MostFrequentFocus string `dynamodbav:"mostFrequentFocus"`

	CurrentWeek int     `dynamodbav:"currentWeek"`
	CurrentDay  int     `dynamodbav:"currentDay"`
	Routine     Routine `dynamodbav:"routine"`
}

// Routine is the owned-shape weeks → days → exercises tree. Slice order is
// display order and is significant.
type Routine struct {
	Weeks []Week `dynamodbav:"weeks"`
}

// Week is one week of a routine.
type Week struct {
	Days []Day `dynamodbav:"days"`
}

// Day is one day of a week, holding an ordered exercise list.
type Day struct {
	Exercises []ExerciseRef `dynamodbav:"exercises"`
}

// ExerciseRef is one exercise instance inside an owned routine. ExerciseID
// resolves into the owner's catalog; the numeric values are instance-local
// and may differ from the catalog defaults.
type ExerciseRef struct {
	ExerciseID string  `dynamodbav:"exerciseId"`
	Completed  bool    `dynamodbav:"completed"`
	Weight     float64 `dynamodbav:"weight"`
	Sets       int     `dynamodbav:"sets"`
	Reps       int     `dynamodbav:"reps"`
	Details    string  `dynamodbav:"details"`
}

// ExerciseIDs returns the set of distinct exercise ids referenced anywhere
// in the routine.
func (r Routine) ExerciseIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, w := range r.Weeks {
		for _, d := range w.Days {
			for _, e := range d.Exercises {
				ids[e.ExerciseID] = struct{}{}
			}
		}
	}
	return ids
}

// TotalExercises counts exercise instances across the whole routine.
// Repeated exercises count once per instance.
func (r Routine) TotalExercises() int {
	n := 0
	for _, w := range r.Weeks {
		for _, d := range w.Days {
			n += len(d.Exercises)
		}
	}
	return n
}

// TotalDays counts days across all weeks.
func (r Routine) TotalDays() int {
	n := 0
	for _, w := range r.Weeks {
		n += len(w.Days)
	}
	return n
}

// Copy returns a deep copy of the routine. Exercise ids are shared values,
// not reissued; only the tree structure is duplicated.
func (r Routine) Copy() Routine {
	out := Routine{Weeks: make([]Week, len(r.Weeks))}
	for i, w := range r.Weeks {
		days := make([]Day, len(w.Days))
		for j, d := range w.Days {
			exercises := make([]ExerciseRef, len(d.Exercises))
			copy(exercises, d.Exercises)
			days[j] = Day{Exercises: exercises}
		}
		out.Weeks[i] = Week{Days: days}
	}
	return out
}

// ClampProgress resets the current week/day pointers to 0 when they fall
// outside the routine's bounds. Out-of-bounds pointers are self-healed, not
// reported as errors.
func (w *Workout) ClampProgress() {
	if w.CurrentWeek < 0 || w.CurrentWeek >= len(w.Routine.Weeks) {
		w.CurrentWeek = 0
		w.CurrentDay = 0
	}
	if len(w.Routine.Weeks) == 0 {
		w.CurrentDay = 0
		return
	}
	days := w.Routine.Weeks[w.CurrentWeek].Days
	if w.CurrentDay < 0 || w.CurrentDay >= len(days) {
		w.CurrentDay = 0
	}
}

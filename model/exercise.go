package model

// OwnedExercise is one entry in a user's exercise catalog, keyed by a minted
// exercise id on User.Exercises.
type OwnedExercise struct {
	Name           string  `dynamodbav:"exerciseName"`
	DefaultWeight  float64 `dynamodbav:"defaultWeight"`
	DefaultSets    int     `dynamodbav:"defaultSets"`
	DefaultReps    int     `dynamodbav:"defaultReps"`
	DefaultDetails string  `dynamodbav:"defaultDetails"`
	VideoURL       string  `dynamodbav:"videoUrl,omitempty"`

	// Focuses are the focus tags (e.g. "Legs", "Cardio") of this exercise.
	Focuses []string `dynamodbav:"focuses"`

	// Workouts maps workoutId → workoutName for every workout whose routine
	// references this exercise. Maintained by package engine; never written
	// by hand.
	Workouts map[string]string `dynamodbav:"workouts"`
}

// RaiseDefaultWeight ratchets the default weight up to instanceWeight if it
// is higher. The default only ever increases automatically; lowering it is a
// deliberate user edit.
func (e *OwnedExercise) RaiseDefaultWeight(instanceWeight float64) {
	if instanceWeight > e.DefaultWeight {
		e.DefaultWeight = instanceWeight
	}
}

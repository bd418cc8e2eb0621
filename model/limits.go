package model

// Tier limits. A user is premium when their premium token field is non-empty;
// the token itself is opaque to this package.
const (
	// FreeWorkoutLimit and PremiumWorkoutLimit cap len(User.WorkoutMetas).
	FreeWorkoutLimit    = 10
	PremiumWorkoutLimit = 30

	// FreeExerciseLimit and PremiumExerciseLimit cap len(User.Exercises).
	FreeExerciseLimit    = 100
	PremiumExerciseLimit = 200

	// FreeReceivedLimit and PremiumReceivedLimit cap the received-workout inbox.
	FreeReceivedLimit    = 100
	PremiumReceivedLimit = 1000

	// FreeSentLimit and PremiumSentLimit cap the lifetime sent-workout counter.
	FreeSentLimit    = 50
	PremiumSentLimit = 500
)

// Structural limits on workouts.
const (
	MaxWorkoutNameLength = 40
	MaxWeeks             = 10
	MaxDaysPerWeek       = 7
)

// FocusDelimiter joins focus tags tied for most-frequent.
const FocusDelimiter = ","

// DefaultReceivedPageSize is the page size for received-workout batches.
const DefaultReceivedPageSize = 25

// WorkoutLimit returns the workout-count ceiling for the tier.
func WorkoutLimit(premium bool) int {
	if premium {
		return PremiumWorkoutLimit
	}
	return FreeWorkoutLimit
}

// ExerciseLimit returns the owned-exercise ceiling for the tier.
func ExerciseLimit(premium bool) int {
	if premium {
		return PremiumExerciseLimit
	}
	return FreeExerciseLimit
}

// ReceivedLimit returns the received-workout inbox ceiling for the tier.
func ReceivedLimit(premium bool) int {
	if premium {
		return PremiumReceivedLimit
	}
	return FreeReceivedLimit
}

// SentLimit returns the lifetime sent-workout ceiling for the tier.
func SentLimit(premium bool) int {
	if premium {
		return PremiumSentLimit
	}
	return FreeSentLimit
}

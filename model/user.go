package model

import "time"

// TimeFormat is the wire format for all timestamps (same shape the store's
// managed created_at/updated_at fields use).
const TimeFormat = time.RFC3339

// User is the root aggregate, keyed by username. The exercise catalog,
// workout summaries, friend graph and received-workout inbox are all
// embedded so a single GetItem serves every listing screen.
type User struct {
	Username        string `dynamodbav:"username"`
	Icon            string `dynamodbav:"icon"`
	PushEndpointArn string `dynamodbav:"pushEndpointArn,omitempty"`

	// PremiumToken is opaque; non-empty means premium tier.
	PremiumToken string `dynamodbav:"premiumToken,omitempty"`

	// CurrentWorkout is empty or a key of WorkoutMetas.
	CurrentWorkout string `dynamodbav:"currentWorkout,omitempty"`

	WorkoutsSent int         `dynamodbav:"workoutsSent"`
	Preferences  Preferences `dynamodbav:"preferences"`

	Exercises        map[string]OwnedExercise       `dynamodbav:"exercises"`
	WorkoutMetas     map[string]WorkoutMeta         `dynamodbav:"workouts"`
	Friends          map[string]Friend              `dynamodbav:"friends"`
	FriendRequests   map[string]FriendRequest       `dynamodbav:"friendRequests"`
	ReceivedWorkouts map[string]ReceivedWorkoutMeta `dynamodbav:"receivedWorkouts"`

	// Blocked maps a blocked username to an icon snapshot taken at block time.
	Blocked map[string]string `dynamodbav:"blocked"`
}

// Preferences are per-user behavior toggles.
type Preferences struct {
	MetricUnits    bool `dynamodbav:"metricUnits"`
	PrivateAccount bool `dynamodbav:"privateAccount"`

	// UpdateDefaultWeightOnSave and UpdateDefaultWeightOnRestart enable the
	// default-weight ratchet on the respective flows.
	UpdateDefaultWeightOnSave    bool `dynamodbav:"updateDefaultWeightOnSave"`
	UpdateDefaultWeightOnRestart bool `dynamodbav:"updateDefaultWeightOnRestart"`
}

// IsPremium reports whether the user is on the premium tier.
func (u *User) IsPremium() bool {
	return u.PremiumToken != ""
}

// IsBlocking reports whether u has blocked the named user.
func (u *User) IsBlocking(username string) bool {
	_, ok := u.Blocked[username]
	return ok
}

// WorkoutMeta is the denormalized summary of one workout, embedded on the
// owning user. Name must stay lexically in sync with the Workout row.
type WorkoutMeta struct {
	Name string `dynamodbav:"workoutName"`

	// DateLast is the last-access timestamp in TimeFormat. It orders the
	// replacement-current-workout selection after a delete.
	DateLast string `dynamodbav:"dateLast"`

	TimesCompleted int `dynamodbav:"timesCompleted"`

	// AverageCompleted is the running average of per-restart completion
	// fractions; TotalExercisesSum is the number of exercise instances folded
	// into it so far.
	AverageCompleted  float64 `dynamodbav:"averageExercisesCompleted"`
	TotalExercisesSum int     `dynamodbav:"totalExercisesSum"`
}

// Friend is one edge of the friend graph as seen from the owning user.
// Confirmed is false on the sender's side while the request is pending.
type Friend struct {
	Username  string `dynamodbav:"username"`
	Icon      string `dynamodbav:"icon"`
	Confirmed bool   `dynamodbav:"confirmed"`
}

// FriendRequest is a pending inbound request on the recipient's side.
type FriendRequest struct {
	Username string `dynamodbav:"username"`
	Icon     string `dynamodbav:"icon"`
	SentAt   string `dynamodbav:"sentAt"`
	Seen     bool   `dynamodbav:"seen"`
}

// ReceivedWorkoutMeta is an inbox entry for a workout shared with this user,
// keyed by sharedWorkoutId on User.ReceivedWorkouts.
type ReceivedWorkoutMeta struct {
	Name              string `dynamodbav:"workoutName"`
	Sender            string `dynamodbav:"sender"`
	DateSent          string `dynamodbav:"dateSent"`
	Seen              bool   `dynamodbav:"seen"`
	MostFrequentFocus string `dynamodbav:"mostFrequentFocus"`
	TotalDays         int    `dynamodbav:"totalDays"`

	// Icon is a snapshot of the sender's icon at send time.
	Icon string `dynamodbav:"icon"`
}

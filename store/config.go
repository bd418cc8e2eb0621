package store

// Config holds table names and service limits for the Store.
type Config struct {
	// UsersTable is the user aggregate table, keyed by username.
	// Default: "liftlog_users"
	UsersTable string

	// WorkoutsTable is the workout table, keyed by workoutId.
	// Default: "liftlog_workouts"
	WorkoutsTable string

	// SharedWorkoutsTable is the shared-workout table, keyed by
	// sharedWorkoutId. Default: "liftlog_shared_workouts"
	SharedWorkoutsTable string

	// MaxTransactItems is the per-call ceiling on TransactWriteItems.
	// Default: 100 (the current DynamoDB service limit).
	MaxTransactItems int
}

// DefaultConfig returns the default table names and service limits.
func DefaultConfig() Config {
	return Config{
		UsersTable:          "liftlog_users",
		WorkoutsTable:       "liftlog_workouts",
		SharedWorkoutsTable: "liftlog_shared_workouts",
		MaxTransactItems:    100,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.UsersTable == "" {
		c.UsersTable = "liftlog_users"
	}
	if c.WorkoutsTable == "" {
		c.WorkoutsTable = "liftlog_workouts"
	}
	if c.SharedWorkoutsTable == "" {
		c.SharedWorkoutsTable = "liftlog_shared_workouts"
	}
	if c.MaxTransactItems < 1 {
		c.MaxTransactItems = 100
	}
	if c.MaxTransactItems > 100 {
		c.MaxTransactItems = 100
	}
}

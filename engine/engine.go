package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/liftlog/internal/ids"
	"github.com/jacentio/liftlog/model"
	"github.com/jacentio/liftlog/store"
)

// Engine executes the backend's consistency flows against a Store.
type Engine struct {
	db     *store.Store
	tables store.Config

	// now and newID are swapped out in tests for determinism.
	now   func() time.Time
	newID func() string
}

// New creates an Engine over the given store.
func New(db *store.Store) *Engine {
	return &Engine{
		db:     db,
		tables: db.Config(),
		now:    time.Now,
		newID:  ids.New,
	}
}

// UserAndWorkout is the composite result of flows that change both the user
// aggregate and a workout row.
type UserAndWorkout struct {
	User    *model.User
	Workout *model.Workout
}

// timestamp returns the current time in the wire format.
func (e *Engine) timestamp() string {
	return e.now().UTC().Format(model.TimeFormat)
}

func userKey(username string) store.PK {
	return store.PK{"username": &types.AttributeValueMemberS{Value: username}}
}

func workoutKey(workoutID string) store.PK {
	return store.PK{"workoutId": &types.AttributeValueMemberS{Value: workoutID}}
}

func sharedWorkoutKey(sharedWorkoutID string) store.PK {
	return store.PK{"sharedWorkoutId": &types.AttributeValueMemberS{Value: sharedWorkoutID}}
}

// loadUser fetches and unmarshals a user aggregate, initializing any absent
// collections so flows can assign into them.
func (e *Engine) loadUser(ctx context.Context, username string) (*model.User, error) {
	item, err := e.db.Get(ctx, e.tables.UsersTable, userKey(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var u model.User
	if err := attributevalue.UnmarshalMap(item, &u); err != nil {
		return nil, fmt.Errorf("%w: user %s: %v", ErrMalformedAggregate, username, err)
	}
	if u.Username == "" {
		return nil, fmt.Errorf("%w: user %s: missing username", ErrMalformedAggregate, username)
	}

	if u.Exercises == nil {
		u.Exercises = make(map[string]model.OwnedExercise)
	}
	if u.WorkoutMetas == nil {
		u.WorkoutMetas = make(map[string]model.WorkoutMeta)
	}
	if u.Friends == nil {
		u.Friends = make(map[string]model.Friend)
	}
	if u.FriendRequests == nil {
		u.FriendRequests = make(map[string]model.FriendRequest)
	}
	if u.ReceivedWorkouts == nil {
		u.ReceivedWorkouts = make(map[string]model.ReceivedWorkoutMeta)
	}
	if u.Blocked == nil {
		u.Blocked = make(map[string]string)
	}

	return &u, nil
}

// loadWorkout fetches and unmarshals a workout row.
func (e *Engine) loadWorkout(ctx context.Context, workoutID string) (*model.Workout, error) {
	item, err := e.db.Get(ctx, e.tables.WorkoutsTable, workoutKey(workoutID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	var w model.Workout
	if err := attributevalue.UnmarshalMap(item, &w); err != nil {
		return nil, fmt.Errorf("%w: workout %s: %v", ErrMalformedAggregate, workoutID, err)
	}
	if w.ID == "" {
		return nil, fmt.Errorf("%w: workout %s: missing workoutId", ErrMalformedAggregate, workoutID)
	}
	return &w, nil
}

// loadSharedWorkout fetches and unmarshals a shared workout row.
func (e *Engine) loadSharedWorkout(ctx context.Context, sharedWorkoutID string) (*model.SharedWorkout, error) {
	item, err := e.db.Get(ctx, e.tables.SharedWorkoutsTable, sharedWorkoutKey(sharedWorkoutID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSharedWorkoutNotFound
		}
		return nil, err
	}

	var sw model.SharedWorkout
	if err := attributevalue.UnmarshalMap(item, &sw); err != nil {
		return nil, fmt.Errorf("%w: shared workout %s: %v", ErrMalformedAggregate, sharedWorkoutID, err)
	}
	if sw.ID == "" {
		return nil, fmt.Errorf("%w: shared workout %s: missing sharedWorkoutId", ErrMalformedAggregate, sharedWorkoutID)
	}
	return &sw, nil
}

// marshalItem marshals an aggregate into a DynamoDB item.
func marshalItem(v any) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}
	return item, nil
}

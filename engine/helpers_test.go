package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/liftlog/model"
	"github.com/jacentio/liftlog/store"
)

// fakeDynamo is an in-memory DynamoDB good enough for the expressions this
// package compiles: full-item puts and deletes, and updates built from
// dotted SET/REMOVE paths. Transactions apply all-or-nothing, and failTx
// injects a one-shot cancellation to exercise abort handling.
type fakeDynamo struct {
	tables      map[string]map[string]map[string]types.AttributeValue
	failTx      error
	txCalls     int
	updateCalls int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[name]
	if !ok {
		t = make(map[string]map[string]types.AttributeValue)
		f.tables[name] = t
	}
	return t
}

func keyString(key map[string]types.AttributeValue) string {
	attrs := make([]string, 0, len(key))
	for attr := range key {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	parts := make([]string, len(attrs))
	for i, attr := range attrs {
		switch v := key[attr].(type) {
		case *types.AttributeValueMemberS:
			parts[i] = v.Value
		case *types.AttributeValueMemberN:
			parts[i] = v.Value
		default:
			parts[i] = fmt.Sprintf("%v", key[attr])
		}
	}
	return strings.Join(parts, "|")
}

func itemKey(item map[string]types.AttributeValue, keyAttr string) string {
	return keyString(map[string]types.AttributeValue{keyAttr: item[keyAttr]})
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	item := f.table(*params.TableName)[keyString(params.Key)]
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putRaw(*params.TableName, params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// putRaw stores an item under its table's key attribute.
func (f *fakeDynamo) putRaw(table string, item map[string]types.AttributeValue) {
	keyAttr := tableKeyAttr(table)
	f.table(table)[itemKey(item, keyAttr)] = item
}

func tableKeyAttr(table string) string {
	switch table {
	case store.DefaultConfig().WorkoutsTable:
		return "workoutId"
	case store.DefaultConfig().SharedWorkoutsTable:
		return "sharedWorkoutId"
	default:
		return "username"
	}
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateCalls++
	item, ok := f.table(*params.TableName)[keyString(params.Key)]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	err := applyUpdateExpr(item, *params.UpdateExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	delete(f.table(*params.TableName), keyString(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.txCalls++
	if f.failTx != nil {
		err := f.failTx
		f.failTx = nil
		return nil, err
	}

	// Verify every conditioned update first so the batch applies
	// all-or-nothing like the real service.
	for _, w := range params.TransactItems {
		if w.Update != nil {
			if _, ok := f.table(*w.Update.TableName)[keyString(w.Update.Key)]; !ok {
				return nil, &types.TransactionCanceledException{}
			}
		}
	}

	for _, w := range params.TransactItems {
		switch {
		case w.Put != nil:
			f.putRaw(*w.Put.TableName, w.Put.Item)
		case w.Delete != nil:
			delete(f.table(*w.Delete.TableName), keyString(w.Delete.Key))
		case w.Update != nil:
			item := f.table(*w.Update.TableName)[keyString(w.Update.Key)]
			err := applyUpdateExpr(item, *w.Update.UpdateExpression, w.Update.ExpressionAttributeNames, w.Update.ExpressionAttributeValues)
			if err != nil {
				return nil, err
			}
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

// applyUpdateExpr interprets the canonical expressions this package emits:
// "SET p = :v, ..." optionally followed by " REMOVE p, ...", or "REMOVE ..."
// alone, with every path segment aliased through names.
func applyUpdateExpr(item map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) error {
	var setPart, removePart string
	switch {
	case strings.HasPrefix(expr, "SET "):
		rest := expr[len("SET "):]
		if i := strings.Index(rest, " REMOVE "); i >= 0 {
			setPart, removePart = rest[:i], rest[i+len(" REMOVE "):]
		} else {
			setPart = rest
		}
	case strings.HasPrefix(expr, "REMOVE "):
		removePart = expr[len("REMOVE "):]
	default:
		return fmt.Errorf("unsupported expression %q", expr)
	}

	resolve := func(aliased string) ([]string, error) {
		segments := strings.Split(aliased, ".")
		resolved := make([]string, len(segments))
		for i, seg := range segments {
			name, ok := names[seg]
			if !ok {
				return nil, fmt.Errorf("unresolved alias %q in %q", seg, aliased)
			}
			resolved[i] = name
		}
		return resolved, nil
	}

	if setPart != "" {
		for _, clause := range strings.Split(setPart, ", ") {
			lhs, rhs, ok := strings.Cut(clause, " = ")
			if !ok {
				return fmt.Errorf("malformed set clause %q", clause)
			}
			path, err := resolve(lhs)
			if err != nil {
				return err
			}
			value, ok := values[rhs]
			if !ok {
				return fmt.Errorf("unresolved value %q", rhs)
			}
			parent, err := walkToParent(item, path)
			if err != nil {
				return err
			}
			parent[path[len(path)-1]] = value
		}
	}

	if removePart != "" {
		for _, aliased := range strings.Split(removePart, ", ") {
			path, err := resolve(aliased)
			if err != nil {
				return err
			}
			parent, err := walkToParent(item, path)
			if err != nil {
				return err
			}
			delete(parent, path[len(path)-1])
		}
	}

	return nil
}

// walkToParent descends map attributes down to the second-to-last segment.
func walkToParent(item map[string]types.AttributeValue, path []string) (map[string]types.AttributeValue, error) {
	current := item
	for _, seg := range path[:len(path)-1] {
		next, ok := current[seg].(*types.AttributeValueMemberM)
		if !ok {
			return nil, fmt.Errorf("segment %q is not a map attribute", seg)
		}
		current = next.Value
	}
	return current, nil
}

// --- Engine fixture ---

// newTestEngine wires an Engine to the fake with deterministic ids
// ("id-1", "id-2", ...) and a clock advancing one minute per call.
func newTestEngine(f *fakeDynamo) *Engine {
	e := New(store.New(f, store.DefaultConfig()))

	var seq int
	e.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var ticks int
	e.now = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Minute)
	}
	return e
}

func testUser(username string) *model.User {
	return &model.User{
		Username:         username,
		Icon:             username + ".png",
		Exercises:        make(map[string]model.OwnedExercise),
		WorkoutMetas:     make(map[string]model.WorkoutMeta),
		Friends:          make(map[string]model.Friend),
		FriendRequests:   make(map[string]model.FriendRequest),
		ReceivedWorkouts: make(map[string]model.ReceivedWorkoutMeta),
		Blocked:          make(map[string]string),
	}
}

func seedUser(t *testing.T, f *fakeDynamo, u *model.User) {
	t.Helper()
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	f.putRaw(store.DefaultConfig().UsersTable, item)
}

func seedWorkout(t *testing.T, f *fakeDynamo, w *model.Workout) {
	t.Helper()
	item, err := attributevalue.MarshalMap(w)
	if err != nil {
		t.Fatalf("marshal workout: %v", err)
	}
	f.putRaw(store.DefaultConfig().WorkoutsTable, item)
}

func seedSharedWorkout(t *testing.T, f *fakeDynamo, sw *model.SharedWorkout) {
	t.Helper()
	item, err := attributevalue.MarshalMap(sw)
	if err != nil {
		t.Fatalf("marshal shared workout: %v", err)
	}
	f.putRaw(store.DefaultConfig().SharedWorkoutsTable, item)
}

func readUser(t *testing.T, f *fakeDynamo, username string) *model.User {
	t.Helper()
	item, ok := f.table(store.DefaultConfig().UsersTable)[username]
	if !ok {
		t.Fatalf("user %s not in fake store", username)
	}
	var u model.User
	if err := attributevalue.UnmarshalMap(item, &u); err != nil {
		t.Fatalf("unmarshal user: %v", err)
	}
	return &u
}

func readWorkout(t *testing.T, f *fakeDynamo, workoutID string) *model.Workout {
	t.Helper()
	item, ok := f.table(store.DefaultConfig().WorkoutsTable)[workoutID]
	if !ok {
		t.Fatalf("workout %s not in fake store", workoutID)
	}
	var w model.Workout
	if err := attributevalue.UnmarshalMap(item, &w); err != nil {
		t.Fatalf("unmarshal workout: %v", err)
	}
	return &w
}

func hasWorkoutRow(f *fakeDynamo, workoutID string) bool {
	_, ok := f.table(store.DefaultConfig().WorkoutsTable)[workoutID]
	return ok
}

func hasSharedWorkoutRow(f *fakeDynamo, sharedWorkoutID string) bool {
	_, ok := f.table(store.DefaultConfig().SharedWorkoutsTable)[sharedWorkoutID]
	return ok
}

// assertBackrefSymmetry checks the global invariant: an exercise lists a
// workout iff that workout's routine references the exercise.
func assertBackrefSymmetry(t *testing.T, u *model.User, workouts ...*model.Workout) {
	t.Helper()
	for _, w := range workouts {
		ids := w.Routine.ExerciseIDs()
		for exID, ex := range u.Exercises {
			_, inRoutine := ids[exID]
			_, inBackrefs := ex.Workouts[w.ID]
			if inRoutine != inBackrefs {
				t.Errorf("backref asymmetry: exercise %s, workout %s: inRoutine=%v inBackrefs=%v",
					exID, w.ID, inRoutine, inBackrefs)
			}
		}
	}
}

// simpleCatalog returns a two-exercise catalog for lifecycle tests.
func simpleCatalog() map[string]model.OwnedExercise {
	return map[string]model.OwnedExercise{
		"ex-squat": {
			Name:          "Squat",
			DefaultWeight: 225,
			Focuses:       []string{"Legs"},
			Workouts:      map[string]string{},
		},
		"ex-bench": {
			Name:          "Bench Press",
			DefaultWeight: 185,
			Focuses:       []string{"Chest"},
			Workouts:      map[string]string{},
		},
	}
}

// simpleRoutine references both catalog exercises across two days.
func simpleRoutine() model.Routine {
	return model.Routine{Weeks: []model.Week{
		{Days: []model.Day{
			{Exercises: []model.ExerciseRef{
				{ExerciseID: "ex-squat", Weight: 245, Sets: 5, Reps: 5},
			}},
			{Exercises: []model.ExerciseRef{
				{ExerciseID: "ex-bench", Weight: 190, Sets: 3, Reps: 8},
			}},
		}},
	}}
}

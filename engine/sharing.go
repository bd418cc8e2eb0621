package engine

import (
	"context"
	"fmt"

	"github.com/jacentio/liftlog/model"
	"github.com/jacentio/liftlog/store"
)

// SendWorkout snapshots one of the sender's workouts into the shared shape
// and delivers it to the recipient's inbox. Resending the same workout name
// to the same recipient reuses the existing sharedWorkoutId, so the inbox
// never holds two entries for one (sender, name) pair.
//
// The recipient's inbox entry, the sender's sent counter and the shared
// workout row commit in one transaction. Returns the sharedWorkoutId.
func (e *Engine) SendWorkout(ctx context.Context, senderUsername, recipientUsername, workoutID string) (string, error) {
	if senderUsername == recipientUsername {
		return "", invalid([]string{"cannot send a workout to yourself"})
	}

	sender, err := e.loadUser(ctx, senderUsername)
	if err != nil {
		return "", err
	}
	recipient, err := e.loadUser(ctx, recipientUsername)
	if err != nil {
		return "", err
	}
	if _, ok := sender.WorkoutMetas[workoutID]; !ok {
		return "", ErrWorkoutNotFound
	}
	w, err := e.loadWorkout(ctx, workoutID)
	if err != nil {
		return "", err
	}

	var violations []string
	if recipient.Preferences.PrivateAccount {
		violations = append(violations, fmt.Sprintf("%s has a private account", recipientUsername))
	}
	if recipient.IsBlocking(senderUsername) {
		violations = append(violations, fmt.Sprintf("%s has blocked you", recipientUsername))
	}
	if sender.IsBlocking(recipientUsername) {
		violations = append(violations, fmt.Sprintf("you have blocked %s", recipientUsername))
	}
	if limit := model.ReceivedLimit(recipient.IsPremium()); len(recipient.ReceivedWorkouts) >= limit {
		violations = append(violations, fmt.Sprintf("%s's received workout limit of %d reached", recipientUsername, limit))
	}
	if limit := model.SentLimit(sender.IsPremium()); sender.WorkoutsSent >= limit {
		violations = append(violations, fmt.Sprintf("sent workout limit of %d reached", limit))
	}
	if err := invalid(violations); err != nil {
		return "", err
	}

	name := model.TrimmedName(w.Name)

	// Resend overwrite: reuse the id of an existing entry for this
	// (sender, name) pair instead of minting a second one.
	sharedWorkoutID := ""
	for id, meta := range recipient.ReceivedWorkouts {
		if meta.Sender == senderUsername && meta.Name == name {
			sharedWorkoutID = id
			break
		}
	}
	if sharedWorkoutID == "" {
		sharedWorkoutID = e.newID()
	}

	sharedRoutine, info, err := w.Routine.ToShared(sender.Exercises)
	if err != nil {
		return "", fmt.Errorf("%w: workout %s: %v", ErrMalformedAggregate, workoutID, err)
	}

	sw := &model.SharedWorkout{
		ID:        sharedWorkoutID,
		Name:      name,
		Creator:   senderUsername,
		Routine:   sharedRoutine,
		Exercises: info,
	}
	item, err := marshalItem(sw)
	if err != nil {
		return "", err
	}

	received := model.ReceivedWorkoutMeta{
		Name:              name,
		Sender:            senderUsername,
		DateSent:          e.timestamp(),
		Seen:              false,
		MostFrequentFocus: w.MostFrequentFocus,
		TotalDays:         sharedRoutine.TotalDays(),
		Icon:              sender.Icon,
	}
	recipient.ReceivedWorkouts[sharedWorkoutID] = received
	sender.WorkoutsSent++

	tx := store.NewTx()
	tx.Update(e.tables.UsersTable, userKey(recipientUsername), store.NewUpdate().
		Set("receivedWorkouts."+sharedWorkoutID, received))
	tx.Update(e.tables.UsersTable, userKey(senderUsername), store.NewUpdate().
		Set("workoutsSent", sender.WorkoutsSent))
	tx.Put(e.tables.SharedWorkoutsTable, item)

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return "", err
	}
	return sharedWorkoutID, nil
}

// AcceptWorkout converts a shared workout into an owned one for the
// recipient. Existing catalog entries are matched by name; genuinely new
// names get minted ids and materialized exercises. The accepted workout
// becomes current only if the recipient had no current workout. The user
// update, the shared row deletion and the new workout row commit together.
func (e *Engine) AcceptWorkout(ctx context.Context, username, sharedWorkoutID, optionalName string) (*UserAndWorkout, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, ok := u.ReceivedWorkouts[sharedWorkoutID]; !ok {
		return nil, ErrSharedWorkoutNotFound
	}
	sw, err := e.loadSharedWorkout(ctx, sharedWorkoutID)
	if err != nil {
		return nil, err
	}

	name := model.TrimmedName(sw.Name)
	if optionalName != "" {
		name = model.TrimmedName(optionalName)
	}

	var violations []string
	violations = append(violations, validateWorkoutQuota(u)...)
	violations = append(violations, validateWorkoutName(u, name, "")...)
	newNames := sw.Routine.NewExerciseNames(u.Exercises)
	if limit := model.ExerciseLimit(u.IsPremium()); len(u.Exercises)+len(newNames) > limit {
		violations = append(violations, fmt.Sprintf("accepting would exceed the exercise limit of %d", limit))
	}
	if err := invalid(violations); err != nil {
		return nil, err
	}

	routine, created := sw.Routine.ToOwned(u.Exercises, sw.Exercises, e.newID)
	for id, ex := range created {
		u.Exercises[id] = ex
	}

	workoutID := e.newID()
	now := e.timestamp()

	applyWorkoutDiff(u.Exercises, workoutID, name, nil, routine.ExerciseIDs())

	meta := model.WorkoutMeta{
		Name:     name,
		DateLast: now,
	}
	u.WorkoutMetas[workoutID] = meta
	delete(u.ReceivedWorkouts, sharedWorkoutID)

	w := &model.Workout{
		ID:                workoutID,
		Name:              name,
		Creator:           username,
		CreationDate:      now,
		MostFrequentFocus: routine.MostFrequentFocus(u.Exercises),
		Routine:           routine,
	}
	item, err := marshalItem(w)
	if err != nil {
		return nil, err
	}

	update := store.NewUpdate().
		Set("workouts."+workoutID, meta).
		Set("exercises", u.Exercises).
		Remove("receivedWorkouts." + sharedWorkoutID)

	// Accepting never steals the current slot from an existing workout.
	if u.CurrentWorkout == "" {
		u.CurrentWorkout = workoutID
		update.Set("currentWorkout", workoutID)
	}

	tx := store.NewTx()
	tx.Update(e.tables.UsersTable, userKey(username), update)
	tx.Delete(e.tables.SharedWorkoutsTable, sharedWorkoutKey(sharedWorkoutID))
	tx.Put(e.tables.WorkoutsTable, item)

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return &UserAndWorkout{User: u, Workout: w}, nil
}

// DeclineWorkout removes the inbox entry for a shared workout. The shared
// workout row itself is deliberately retained; the sender's snapshot stays
// addressable until overwritten by a resend. (Source behavior kept pending
// product clarification.)
func (e *Engine) DeclineWorkout(ctx context.Context, username, sharedWorkoutID string) (*model.User, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, ok := u.ReceivedWorkouts[sharedWorkoutID]; !ok {
		return nil, ErrSharedWorkoutNotFound
	}
	delete(u.ReceivedWorkouts, sharedWorkoutID)

	err = e.db.Update(ctx, e.tables.UsersTable, userKey(username), store.NewUpdate().
		Remove("receivedWorkouts."+sharedWorkoutID))
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SetReceivedWorkoutSeen flips the seen flag on one inbox entry. Flipping an
// already-seen entry is a no-op, not an error.
func (e *Engine) SetReceivedWorkoutSeen(ctx context.Context, username, sharedWorkoutID string) error {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return err
	}
	meta, ok := u.ReceivedWorkouts[sharedWorkoutID]
	if !ok {
		return ErrSharedWorkoutNotFound
	}
	if meta.Seen {
		return nil
	}

	return e.db.Update(ctx, e.tables.UsersTable, userKey(username), store.NewUpdate().
		Set("receivedWorkouts."+sharedWorkoutID+".seen", true))
}

// SetAllReceivedWorkoutsSeen marks every unseen inbox entry seen. Writes
// nothing when all entries are already seen.
func (e *Engine) SetAllReceivedWorkoutsSeen(ctx context.Context, username string) error {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return err
	}

	update := store.NewUpdate()
	unseen := 0
	for id, meta := range u.ReceivedWorkouts {
		if !meta.Seen {
			update.Set("receivedWorkouts."+id+".seen", true)
			unseen++
		}
	}
	if unseen == 0 {
		return nil
	}

	return e.db.Update(ctx, e.tables.UsersTable, userKey(username), update)
}

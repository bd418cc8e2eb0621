package engine

import (
	"context"

	"github.com/jacentio/liftlog/model"
	"github.com/jacentio/liftlog/store"
)

// CreateWorkout validates and creates a new workout for the user, sets it
// as their current workout, and wires the exercise back-references. The
// user update and the new workout row commit in one transaction.
func (e *Engine) CreateWorkout(ctx context.Context, username, workoutName string, routine model.Routine) (*UserAndWorkout, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}

	tx := store.NewTx()
	w, err := e.stageCreate(tx, u, workoutName, routine)
	if err != nil {
		return nil, err
	}

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return &UserAndWorkout{User: u, Workout: w}, nil
}

// stageCreate runs create validation, mutates the in-memory user and stages
// the writes onto tx. Shared between CreateWorkout and CopyWorkout.
func (e *Engine) stageCreate(tx *store.Tx, u *model.User, workoutName string, routine model.Routine) (*model.Workout, error) {
	name := model.TrimmedName(workoutName)

	var violations []string
	violations = append(violations, validateWorkoutQuota(u)...)
	violations = append(violations, validateWorkoutName(u, name, "")...)
	violations = append(violations, validateRoutineShape(routine, false)...)
	violations = append(violations, validateRoutineReferences(routine, u.Exercises)...)
	if err := invalid(violations); err != nil {
		return nil, err
	}

	workoutID := e.newID()
	now := e.timestamp()

	w := &model.Workout{
		ID:                workoutID,
		Name:              name,
		Creator:           u.Username,
		CreationDate:      now,
		MostFrequentFocus: routine.MostFrequentFocus(u.Exercises),
		CurrentWeek:       0,
		CurrentDay:        0,
		Routine:           routine,
	}

	applyWorkoutDiff(u.Exercises, workoutID, name, nil, routine.ExerciseIDs())

	meta := model.WorkoutMeta{
		Name:     name,
		DateLast: now,
	}
	u.WorkoutMetas[workoutID] = meta

	// A freshly created workout always becomes the current one.
	u.CurrentWorkout = workoutID

	item, err := marshalItem(w)
	if err != nil {
		return nil, err
	}

	tx.Update(e.tables.UsersTable, userKey(u.Username), store.NewUpdate().
		Set("currentWorkout", workoutID).
		Set("workouts."+workoutID, meta).
		Set("exercises", u.Exercises))
	tx.Put(e.tables.WorkoutsTable, item)

	return w, nil
}

// EditWorkout replaces a workout's routine. Only the creator may edit.
// Recomputes the focus tally, reconciles back-references against the stored
// routine, and self-heals out-of-bounds progress pointers.
func (e *Engine) EditWorkout(ctx context.Context, username string, edited *model.Workout) (*UserAndWorkout, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	stored, err := e.loadWorkout(ctx, edited.ID)
	if err != nil {
		return nil, err
	}
	if stored.Creator != username {
		return nil, ErrUnauthorized
	}

	var violations []string
	violations = append(violations, validateRoutineShape(edited.Routine, true)...)
	violations = append(violations, validateRoutineReferences(edited.Routine, u.Exercises)...)
	if err := invalid(violations); err != nil {
		return nil, err
	}

	w := &model.Workout{
		ID:           stored.ID,
		Name:         stored.Name,
		Creator:      stored.Creator,
		CreationDate: stored.CreationDate,
		CurrentWeek:  edited.CurrentWeek,
		CurrentDay:   edited.CurrentDay,
		Routine:      edited.Routine,
	}
	w.MostFrequentFocus = w.Routine.MostFrequentFocus(u.Exercises)
	w.ClampProgress()

	applyWorkoutDiff(u.Exercises, w.ID, w.Name, stored.Routine.ExerciseIDs(), w.Routine.ExerciseIDs())

	tx := store.NewTx()
	tx.Update(e.tables.UsersTable, userKey(username), store.NewUpdate().
		Set("exercises", u.Exercises))
	tx.Update(e.tables.WorkoutsTable, workoutKey(w.ID), store.NewUpdate().
		Set("routine", w.Routine).
		Set("mostFrequentFocus", w.MostFrequentFocus).
		Set("currentWeek", w.CurrentWeek).
		Set("currentDay", w.CurrentDay))

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return &UserAndWorkout{User: u, Workout: w}, nil
}

// RenameWorkout relabels a workout everywhere its name is denormalized: the
// meta entry, every exercise back-reference value, and the workout row. Ids
// never change on rename.
func (e *Engine) RenameWorkout(ctx context.Context, username, workoutID, newName string) (*UserAndWorkout, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	meta, ok := u.WorkoutMetas[workoutID]
	if !ok {
		return nil, ErrWorkoutNotFound
	}
	w, err := e.loadWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	name := model.TrimmedName(newName)
	if err := invalid(validateWorkoutName(u, name, workoutID)); err != nil {
		return nil, err
	}

	relabelWorkout(u.Exercises, workoutID, name)
	meta.Name = name
	u.WorkoutMetas[workoutID] = meta
	w.Name = name

	tx := store.NewTx()
	tx.Update(e.tables.UsersTable, userKey(username), store.NewUpdate().
		Set("workouts."+workoutID+".workoutName", name).
		Set("exercises", u.Exercises))
	tx.Update(e.tables.WorkoutsTable, workoutKey(workoutID), store.NewUpdate().
		Set("workoutName", name))

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return &UserAndWorkout{User: u, Workout: w}, nil
}

// DeleteWorkout removes a workout, its meta entry and every back-reference
// in one transaction. If it was the current workout, the remaining workout
// with the most recent last-access becomes current (ties broken by smallest
// workout id, so the pick is deterministic).
func (e *Engine) DeleteWorkout(ctx context.Context, username, workoutID string) (*model.User, error) {
	u, _, err := e.deleteWorkout(ctx, username, workoutID)
	return u, err
}

// DeleteWorkoutAndFetchNext deletes like DeleteWorkout and additionally
// fetches the replacement current workout row, if any.
func (e *Engine) DeleteWorkoutAndFetchNext(ctx context.Context, username, workoutID string) (*UserAndWorkout, error) {
	u, nextID, err := e.deleteWorkout(ctx, username, workoutID)
	if err != nil {
		return nil, err
	}
	result := &UserAndWorkout{User: u}
	if nextID != "" {
		next, err := e.loadWorkout(ctx, nextID)
		if err != nil {
			return nil, err
		}
		result.Workout = next
	}
	return result, nil
}

func (e *Engine) deleteWorkout(ctx context.Context, username, workoutID string) (*model.User, string, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if _, ok := u.WorkoutMetas[workoutID]; !ok {
		return nil, "", ErrWorkoutNotFound
	}

	removeWorkoutBackrefs(u.Exercises, workoutID)
	delete(u.WorkoutMetas, workoutID)

	update := store.NewUpdate().
		Remove("workouts." + workoutID).
		Set("exercises", u.Exercises)

	if u.CurrentWorkout == workoutID {
		u.CurrentWorkout = nextCurrentWorkout(u.WorkoutMetas)
		if u.CurrentWorkout == "" {
			update.Remove("currentWorkout")
		} else {
			update.Set("currentWorkout", u.CurrentWorkout)
		}
	}

	tx := store.NewTx()
	tx.Update(e.tables.UsersTable, userKey(username), update)
	tx.Delete(e.tables.WorkoutsTable, workoutKey(workoutID))

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, "", err
	}
	return u, u.CurrentWorkout, nil
}

// nextCurrentWorkout picks the replacement current workout: most recent
// last-access first, lexicographically smallest id on a timestamp tie.
func nextCurrentWorkout(metas map[string]model.WorkoutMeta) string {
	var bestID, bestDate string
	for id, meta := range metas {
		switch {
		case bestID == "",
			meta.DateLast > bestDate,
			meta.DateLast == bestDate && id < bestID:
			bestID, bestDate = id, meta.DateLast
		}
	}
	return bestID
}

// RestartWorkout folds the current cycle's completion into the workout's
// running statistics, resets every completion flag and the progress
// pointers, and optionally ratchets catalog default weights upward.
//
// Every exercise instance contributes one sample to the running average:
// 1 if completed, 0 if not, via newAvg = (sample + oldAvg*count)/(count+1).
func (e *Engine) RestartWorkout(ctx context.Context, username string, w *model.Workout) (*UserAndWorkout, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	meta, ok := u.WorkoutMetas[w.ID]
	if !ok {
		return nil, ErrWorkoutNotFound
	}

	ratchet := u.Preferences.UpdateDefaultWeightOnRestart

	for wi := range w.Routine.Weeks {
		for di := range w.Routine.Weeks[wi].Days {
			for ei := range w.Routine.Weeks[wi].Days[di].Exercises {
				ref := &w.Routine.Weeks[wi].Days[di].Exercises[ei]

				sample := 0.0
				if ref.Completed {
					sample = 1.0
					if ratchet {
						if ex, ok := u.Exercises[ref.ExerciseID]; ok {
							ex.RaiseDefaultWeight(ref.Weight)
							u.Exercises[ref.ExerciseID] = ex
						}
					}
					ref.Completed = false
				}

				meta.AverageCompleted = (sample + meta.AverageCompleted*float64(meta.TotalExercisesSum)) /
					float64(meta.TotalExercisesSum+1)
				meta.TotalExercisesSum++
			}
		}
	}

	meta.TimesCompleted++
	meta.DateLast = e.timestamp()
	u.WorkoutMetas[w.ID] = meta
	w.CurrentWeek = 0
	w.CurrentDay = 0

	tx := store.NewTx()
	tx.Update(e.tables.UsersTable, userKey(username), store.NewUpdate().
		Set("workouts."+w.ID, meta).
		Set("exercises", u.Exercises))
	tx.Update(e.tables.WorkoutsTable, workoutKey(w.ID), store.NewUpdate().
		Set("routine", w.Routine).
		Set("currentWeek", 0).
		Set("currentDay", 0))

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return &UserAndWorkout{User: u, Workout: w}, nil
}

// SyncWorkout persists a client-side snapshot of the workout's routine and
// progress pointers, clamped into bounds. With the on-save ratchet enabled,
// completed instances may also raise catalog defaults.
func (e *Engine) SyncWorkout(ctx context.Context, username string, w *model.Workout) (*model.Workout, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, ok := u.WorkoutMetas[w.ID]; !ok {
		return nil, ErrWorkoutNotFound
	}

	tx := store.NewTx()
	userUpdate := store.NewUpdate()
	e.stageSync(tx, u, w, userUpdate)
	if !userUpdate.Empty() {
		tx.Update(e.tables.UsersTable, userKey(username), userUpdate)
	}

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return w, nil
}

// stageSync clamps and stages the snapshot writes for w onto tx. Catalog
// changes from the on-save ratchet accumulate on userUpdate so callers can
// merge them with their own user-item writes; a transaction must never hold
// two updates against the same item.
func (e *Engine) stageSync(tx *store.Tx, u *model.User, w *model.Workout, userUpdate *store.Update) {
	w.ClampProgress()

	if u.Preferences.UpdateDefaultWeightOnSave && ratchetCompleted(u.Exercises, w.Routine) {
		userUpdate.Set("exercises", u.Exercises)
	}

	tx.Update(e.tables.WorkoutsTable, workoutKey(w.ID), store.NewUpdate().
		Set("routine", w.Routine).
		Set("currentWeek", w.CurrentWeek).
		Set("currentDay", w.CurrentDay))
}

// SwitchWorkout makes another workout current. The outgoing workout's
// snapshot is persisted in the same transaction that flips the pointer and
// bumps the incoming workout's last-access timestamp. oldWorkout may be nil
// when there is nothing to snapshot.
func (e *Engine) SwitchWorkout(ctx context.Context, username string, oldWorkout *model.Workout, newWorkoutID string) (*UserAndWorkout, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	meta, ok := u.WorkoutMetas[newWorkoutID]
	if !ok {
		return nil, ErrWorkoutNotFound
	}
	next, err := e.loadWorkout(ctx, newWorkoutID)
	if err != nil {
		return nil, err
	}

	tx := store.NewTx()
	userUpdate := store.NewUpdate()
	if oldWorkout != nil {
		if _, ok := u.WorkoutMetas[oldWorkout.ID]; !ok {
			return nil, ErrWorkoutNotFound
		}
		e.stageSync(tx, u, oldWorkout, userUpdate)
	}

	meta.DateLast = e.timestamp()
	u.WorkoutMetas[newWorkoutID] = meta
	u.CurrentWorkout = newWorkoutID

	userUpdate.
		Set("currentWorkout", newWorkoutID).
		Set("workouts."+newWorkoutID+".dateLast", meta.DateLast)
	tx.Update(e.tables.UsersTable, userKey(username), userUpdate)

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return &UserAndWorkout{User: u, Workout: next}, nil
}

// CopyWorkout creates a new workout from a deep copy of the source routine.
// Exercise ids are reused, not reissued, so both workouts reference the same
// catalog entries. The source's own snapshot is persisted unmodified in the
// same transaction; copying never alters source progress.
func (e *Engine) CopyWorkout(ctx context.Context, username, newName string, source *model.Workout) (*UserAndWorkout, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, ok := u.WorkoutMetas[source.ID]; !ok {
		return nil, ErrWorkoutNotFound
	}

	tx := store.NewTx()
	w, err := e.stageCreate(tx, u, newName, source.Routine.Copy())
	if err != nil {
		return nil, err
	}

	tx.Update(e.tables.WorkoutsTable, workoutKey(source.ID), store.NewUpdate().
		Set("routine", source.Routine).
		Set("currentWeek", source.CurrentWeek).
		Set("currentDay", source.CurrentDay))

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return &UserAndWorkout{User: u, Workout: w}, nil
}

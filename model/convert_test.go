package model

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testCatalog() map[string]OwnedExercise {
	return map[string]OwnedExercise{
		"ex-squat": {
			Name:          "Squat",
			DefaultWeight: 225,
			DefaultSets:   3,
			DefaultReps:   5,
			Focuses:       []string{"Legs"},
			VideoURL:      "https://example.com/squat",
			Workouts:      map[string]string{},
		},
		"ex-bench": {
			Name:          "Bench Press",
			DefaultWeight: 185,
			DefaultSets:   3,
			DefaultReps:   5,
			Focuses:       []string{"Chest", "Arms"},
			Workouts:      map[string]string{},
		},
	}
}

func testRoutine() Routine {
	return Routine{Weeks: []Week{
		{Days: []Day{
			{Exercises: []ExerciseRef{
				{ExerciseID: "ex-squat", Completed: true, Weight: 245, Sets: 5, Reps: 5, Details: "pause at bottom"},
				{ExerciseID: "ex-bench", Completed: false, Weight: 190, Sets: 3, Reps: 8},
			}},
			{Exercises: []ExerciseRef{
				{ExerciseID: "ex-squat", Completed: true, Weight: 255, Sets: 3, Reps: 3},
			}},
		}},
	}}
}

func TestToShared_DropsIDsAndCompletion(t *testing.T) {
	shared, info, err := testRoutine().ToShared(testCatalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := shared.Weeks[0].Days[0].Exercises[0]
	if first.ExerciseName != "Squat" {
		t.Errorf("expected name 'Squat', got %q", first.ExerciseName)
	}
	if first.Weight != 245 || first.Sets != 5 || first.Reps != 5 || first.Details != "pause at bottom" {
		t.Errorf("instance values not preserved: %+v", first)
	}

	if len(info) != 2 {
		t.Fatalf("expected 2 side-map entries, got %d", len(info))
	}
	if diff := cmp.Diff([]string{"Legs"}, info["Squat"].Focuses); diff != "" {
		t.Errorf("squat focuses mismatch (-want +got):\n%s", diff)
	}
	if info["Squat"].VideoURL != "https://example.com/squat" {
		t.Errorf("video not carried: %q", info["Squat"].VideoURL)
	}
}

func TestToShared_UnknownReferenceFails(t *testing.T) {
	r := Routine{Weeks: []Week{{Days: []Day{{Exercises: []ExerciseRef{
		{ExerciseID: "ex-ghost"},
	}}}}}}

	_, _, err := r.ToShared(testCatalog())
	if err == nil {
		t.Fatal("expected error for unresolvable reference")
	}
}

func TestToShared_SameNameCollapses(t *testing.T) {
	catalog := map[string]OwnedExercise{
		"ex-a": {Name: "Row", Focuses: []string{"Back"}},
		"ex-b": {Name: "Row", Focuses: []string{"Arms"}},
	}
	r := Routine{Weeks: []Week{{Days: []Day{{Exercises: []ExerciseRef{
		{ExerciseID: "ex-a", Weight: 100},
		{ExerciseID: "ex-b", Weight: 120},
	}}}}}}

	shared, info, err := r.ToShared(catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Two distinct ids sharing a name merge into one side-map entry; the
	// first one encountered wins.
	if len(info) != 1 {
		t.Fatalf("expected 1 side-map entry after collapse, got %d", len(info))
	}
	if len(shared.Weeks[0].Days[0].Exercises) != 2 {
		t.Errorf("instances must not collapse, got %d", len(shared.Weeks[0].Days[0].Exercises))
	}
}

func TestToOwned_ReusesMatchingNames(t *testing.T) {
	shared, info, err := testRoutine().ToShared(testCatalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Recipient already has a "Squat" under a different id.
	recipient := map[string]OwnedExercise{
		"their-squat": {Name: "Squat", DefaultWeight: 135, Focuses: []string{"Legs"}},
	}

	mintCount := 0
	mint := func() string {
		mintCount++
		return fmt.Sprintf("minted-%d", mintCount)
	}

	owned, created := shared.ToOwned(recipient, info, mint)

	if got := owned.Weeks[0].Days[0].Exercises[0].ExerciseID; got != "their-squat" {
		t.Errorf("expected existing id 'their-squat' reused, got %q", got)
	}
	// Only Bench Press is new.
	if len(created) != 1 {
		t.Fatalf("expected 1 minted exercise, got %d", len(created))
	}
	bench, ok := created["minted-1"]
	if !ok {
		t.Fatalf("expected minted id 'minted-1', got %v", created)
	}
	if bench.Name != "Bench Press" {
		t.Errorf("expected 'Bench Press', got %q", bench.Name)
	}
	if diff := cmp.Diff([]string{"Chest", "Arms"}, bench.Focuses); diff != "" {
		t.Errorf("focuses mismatch (-want +got):\n%s", diff)
	}
	// Recipient catalog untouched.
	if len(recipient) != 1 {
		t.Errorf("ToOwned must not mutate the recipient catalog, got %d entries", len(recipient))
	}
}

func TestRoundTrip_PreservesValuesResetsCompletion(t *testing.T) {
	catalog := testCatalog()
	original := testRoutine()

	shared, info, err := original.ToShared(catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	owned, _ := shared.ToOwned(catalog, info, func() string { return "unused" })

	want := original.Copy()
	for wi := range want.Weeks {
		for di := range want.Weeks[wi].Days {
			for ei := range want.Weeks[wi].Days[di].Exercises {
				// Completion is deliberately reset, never carried.
				want.Weeks[wi].Days[di].Exercises[ei].Completed = false
			}
		}
	}

	if diff := cmp.Diff(want, owned); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNewExerciseNames(t *testing.T) {
	shared, info, err := testRoutine().ToShared(testCatalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = info

	recipient := map[string]OwnedExercise{
		"their-squat": {Name: "Squat"},
	}
	names := shared.NewExerciseNames(recipient)
	if len(names) != 1 || names[0] != "Bench Press" {
		t.Errorf("expected ['Bench Press'], got %v", names)
	}

	if names := shared.NewExerciseNames(map[string]OwnedExercise{}); len(names) != 2 {
		t.Errorf("expected 2 new names against empty catalog, got %v", names)
	}
}

func TestTrimmedName(t *testing.T) {
	if got := TrimmedName("  Push Day \n"); got != "Push Day" {
		t.Errorf("expected 'Push Day', got %q", got)
	}
}

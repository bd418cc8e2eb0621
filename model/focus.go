package model

import (
	"sort"
	"strings"
)

// MostFrequentFocus tallies focus-tag occurrences across every exercise
// instance of the routine and returns the tags tied at the maximum count,
// sorted and joined by FocusDelimiter. Repeated exercises count once per
// instance. Returns "" for an empty routine.
func (r Routine) MostFrequentFocus(catalog map[string]OwnedExercise) string {
	counts := make(map[string]int)
	for _, week := range r.Weeks {
		for _, day := range week.Days {
			for _, ref := range day.Exercises {
				for _, focus := range catalog[ref.ExerciseID].Focuses {
					counts[focus]++
				}
			}
		}
	}
	return topFocuses(counts)
}

// MostFrequentFocus is the shared-shape equivalent, resolving tags through
// the side map instead of an owned catalog.
func (r SharedRoutine) MostFrequentFocus(info map[string]SharedExerciseInfo) string {
	counts := make(map[string]int)
	for _, week := range r.Weeks {
		for _, day := range week.Days {
			for _, ref := range day.Exercises {
				for _, focus := range info[ref.ExerciseName].Focuses {
					counts[focus]++
				}
			}
		}
	}
	return topFocuses(counts)
}

// topFocuses returns all tags tied at the maximum count. Ties are all kept,
// never arbitrarily broken; sorting makes the result deterministic.
func topFocuses(counts map[string]int) string {
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return ""
	}
	var top []string
	for focus, n := range counts {
		if n == max {
			top = append(top, focus)
		}
	}
	sort.Strings(top)
	return strings.Join(top, FocusDelimiter)
}

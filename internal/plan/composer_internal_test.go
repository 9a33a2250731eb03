package plan

import (
	"testing"

	"github.com/myrjola/planfit/internal/catalog"
)

func squatTemplate(count int) SessionTemplate {
	return SessionTemplate{
		Name:          "Lower Body",
		Patterns:      []MovementPattern{PatternSquat, PatternHinge, PatternLunge},
		TargetMuscles: []string{"quadriceps", "hamstrings", "glutes"},
		ExerciseCount: count,
	}
}

func candidate(id int, name, muscle string, pattern MovementPattern) ScoredCandidate {
	return ScoredCandidate{
		Exercise: catalog.Exercise{ID: id, Name: name, PrimaryMuscle: muscle},
		Pattern:  pattern,
	}
}

func TestComposeSession(t *testing.T) {
	t.Run("never exceeds the exercise count", func(t *testing.T) {
		pool := []ScoredCandidate{
			candidate(1, "Back Squat", "quadriceps", PatternSquat),
			candidate(2, "Front Squat", "quadriceps", PatternSquat),
			candidate(3, "Deadlift", "hamstrings", PatternHinge),
			candidate(4, "Lunge", "quadriceps", PatternLunge),
			candidate(5, "Leg Press", "quadriceps", PatternSquat),
		}

		got := composeSession(squatTemplate(3), pool)
		if len(got) != 3 {
			t.Errorf("selected %d exercises, want 3", len(got))
		}
	})

	t.Run("under-filled session is valid", func(t *testing.T) {
		pool := []ScoredCandidate{
			candidate(1, "Back Squat", "quadriceps", PatternSquat),
		}

		got := composeSession(squatTemplate(5), pool)
		if len(got) != 1 {
			t.Errorf("selected %d exercises, want 1 (pool exhausted)", len(got))
		}
	})

	t.Run("first three are admitted regardless of diversity", func(t *testing.T) {
		pool := []ScoredCandidate{
			candidate(1, "Back Squat", "quadriceps", PatternSquat),
			candidate(2, "Front Squat", "quadriceps", PatternSquat),
			candidate(3, "Goblet Squat", "quadriceps", PatternSquat),
		}

		got := composeSession(squatTemplate(5), pool)
		if len(got) != 3 {
			t.Errorf("selected %d exercises, want 3 forced admissions", len(got))
		}
	})

	t.Run("pass one prefers new patterns and muscles", func(t *testing.T) {
		pool := []ScoredCandidate{
			candidate(1, "Back Squat", "quadriceps", PatternSquat),
			candidate(2, "Deadlift", "hamstrings", PatternHinge),
			candidate(3, "Walking Lunge", "quadriceps", PatternLunge),
			candidate(4, "Front Squat", "quadriceps", PatternSquat),
			candidate(5, "Hip Thrust", "glutes", PatternHinge),
		}

		got := composeSession(squatTemplate(4), pool)
		if len(got) != 4 {
			t.Fatalf("selected %d exercises, want 4", len(got))
		}
		// Coverage is complete after the forced admits, so the duplicate front
		// squat is skipped in favor of the new glutes candidate.
		if got[3].Exercise.ID != 5 {
			t.Errorf("fourth pick = exercise %d, want 5 (diversity over order)", got[3].Exercise.ID)
		}
	})

	t.Run("duplicates fill remaining slots in pool order", func(t *testing.T) {
		pool := []ScoredCandidate{
			candidate(1, "Back Squat", "quadriceps", PatternSquat),
			candidate(2, "Front Squat", "quadriceps", PatternSquat),
			candidate(3, "Goblet Squat", "quadriceps", PatternSquat),
			candidate(4, "Leg Press", "quadriceps", PatternSquat),
			candidate(5, "Hack Squat", "quadriceps", PatternSquat),
		}

		got := composeSession(squatTemplate(5), pool)
		if len(got) != 5 {
			t.Fatalf("selected %d exercises, want 5", len(got))
		}
		if got[3].Exercise.ID != 4 || got[4].Exercise.ID != 5 {
			t.Errorf("fill order = %d,%d, want 4,5", got[3].Exercise.ID, got[4].Exercise.ID)
		}
	})

	t.Run("filters by pattern or target muscle", func(t *testing.T) {
		pool := []ScoredCandidate{
			candidate(1, "Bench Press", "chest", PatternPushHorizontal),
			candidate(2, "Nordic Curl", "hamstrings", PatternCore),
			candidate(3, "Back Squat", "quadriceps", PatternSquat),
		}

		got := composeSession(squatTemplate(5), pool)
		if len(got) != 2 {
			t.Fatalf("selected %d exercises, want 2", len(got))
		}
		// The bench press matches neither a template pattern nor a target
		// muscle; the curl matches by muscle, the squat by pattern.
		for _, c := range got {
			if c.Exercise.ID == 1 {
				t.Error("bench press should not match a lower body template")
			}
		}
	})
}

func TestAdmitForDiversity(t *testing.T) {
	patterns := map[MovementPattern]bool{PatternSquat: true}
	muscles := map[string]bool{"quadriceps": true}

	testCases := []struct {
		name          string
		candidate     ScoredCandidate
		selectedCount int
		want          bool
	}{
		{"first three always admitted", candidate(1, "Back Squat", "quadriceps", PatternSquat), 2, true},
		{"new pattern admitted", candidate(1, "Deadlift", "quadriceps", PatternHinge), 3, true},
		{"new muscle admitted", candidate(1, "Leg Curl", "hamstrings", PatternSquat), 3, true},
		{"duplicate pattern and muscle admitted while coverage short", candidate(1, "Front Squat", "quadriceps", PatternSquat), 3, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := admitForDiversity(tc.candidate, tc.selectedCount, patterns, muscles, 3); got != tc.want {
				t.Errorf("admit = %t, want %t", got, tc.want)
			}
		})
	}

	t.Run("duplicate rejected once coverage is complete", func(t *testing.T) {
		full := map[MovementPattern]bool{PatternSquat: true, PatternHinge: true, PatternLunge: true}
		c := candidate(1, "Front Squat", "quadriceps", PatternSquat)
		if admitForDiversity(c, 3, full, muscles, 3) {
			t.Error("duplicate should be rejected when pattern coverage equals the template size")
		}
	})
}

package plan

import (
	"testing"

	"github.com/myrjola/planfit/internal/catalog"
)

func TestDedupeCandidates(t *testing.T) {
	candidates := []ScoredCandidate{
		{Exercise: catalog.Exercise{ID: 1}, Pattern: PatternSquat, Similarity: 0.9},
		{Exercise: catalog.Exercise{ID: 2}, Pattern: PatternHinge, Similarity: 0.8},
		{Exercise: catalog.Exercise{ID: 1}, Pattern: PatternLunge, Similarity: 0.95},
	}

	got := dedupeCandidates(candidates)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Pattern != PatternSquat {
		t.Errorf("first occurrence pattern = %s, want squat (first pattern wins)", got[0].Pattern)
	}
}

func TestApplyHardFilters(t *testing.T) {
	testCases := []struct {
		name     string
		exercise catalog.Exercise
		strategy Strategy
		wantKept bool
	}{
		{
			name:     "difficulty above beginner window",
			exercise: catalog.Exercise{ID: 1, DifficultyLevel: 4},
			strategy: Strategy{ExperienceLevel: LevelBeginner},
			wantKept: false,
		},
		{
			name:     "difficulty below advanced window",
			exercise: catalog.Exercise{ID: 1, DifficultyLevel: 2},
			strategy: Strategy{ExperienceLevel: LevelAdvanced},
			wantKept: false,
		},
		{
			name:     "difficulty inside window",
			exercise: catalog.Exercise{ID: 1, DifficultyLevel: 3},
			strategy: Strategy{ExperienceLevel: LevelIntermediate},
			wantKept: true,
		},
		{
			name:     "deep squat restriction matches name",
			exercise: catalog.Exercise{ID: 1, Name: "Deep Squat Hold", DifficultyLevel: 3},
			strategy: Strategy{
				ExperienceLevel: LevelIntermediate,
				SpecialConsiderations: []HealthConsideration{
					{AffectedArea: "knee", Restrictions: []string{RestrictionDeepSquat}},
				},
			},
			wantKept: false,
		},
		{
			name: "high impact restriction matches instructions",
			exercise: catalog.Exercise{
				ID: 1, Name: "Box Step", DifficultyLevel: 3,
				Instructions: "Jump onto the box and step down.",
			},
			strategy: Strategy{
				ExperienceLevel: LevelIntermediate,
				SpecialConsiderations: []HealthConsideration{
					{AffectedArea: "knee", Restrictions: []string{RestrictionHighImpact}},
				},
			},
			wantKept: false,
		},
		{
			name:     "barbell excluded by bodyweight preference",
			exercise: catalog.Exercise{ID: 1, Equipment: "barbell", DifficultyLevel: 3},
			strategy: Strategy{ExperienceLevel: LevelIntermediate, EquipmentPreferences: []string{"bodyweight"}},
			wantKept: false,
		},
		{
			name:     "dumbbell allowed by home preference",
			exercise: catalog.Exercise{ID: 1, Equipment: "dumbbell", DifficultyLevel: 3},
			strategy: Strategy{ExperienceLevel: LevelIntermediate, EquipmentPreferences: []string{"home_workout"}},
			wantKept: true,
		},
		{
			name:     "gym preference allows everything",
			exercise: catalog.Exercise{ID: 1, Equipment: "machine", DifficultyLevel: 3},
			strategy: Strategy{ExperienceLevel: LevelIntermediate, EquipmentPreferences: []string{"gym"}},
			wantKept: true,
		},
		{
			name: "steady cardio excluded from muscle gain",
			exercise: catalog.Exercise{
				ID: 1, Category: "cardio", Type: catalog.TypeCardio, DifficultyLevel: 3,
			},
			strategy: Strategy{ExperienceLevel: LevelIntermediate, PrimaryObjective: ObjectiveGainMuscle},
			wantKept: false,
		},
		{
			name: "metabolic cardio kept for muscle gain",
			exercise: catalog.Exercise{
				ID: 1, Category: "cardio", Type: catalog.TypeCardio, DifficultyLevel: 3,
				Tags: []string{"metabolic"},
			},
			strategy: Strategy{ExperienceLevel: LevelIntermediate, PrimaryObjective: ObjectiveGainMuscle},
			wantKept: true,
		},
		{
			name: "isolation excluded from endurance unless tagged",
			exercise: catalog.Exercise{
				ID: 1, Type: catalog.TypeIsolation, DifficultyLevel: 3,
			},
			strategy: Strategy{ExperienceLevel: LevelIntermediate, PrimaryObjective: ObjectiveEndurance},
			wantKept: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := applyHardFilters([]ScoredCandidate{{Exercise: tc.exercise}}, tc.strategy)
			if kept := len(got) == 1; kept != tc.wantKept {
				t.Errorf("kept = %t, want %t", kept, tc.wantKept)
			}
		})
	}
}

func TestMatchesRestriction(t *testing.T) {
	ex := catalog.Exercise{Name: "Overhead Press", Instructions: "Press the bar overhead."}
	if !matchesRestriction(ex, RestrictionOverhead) {
		t.Error("overhead press should match the overhead restriction")
	}
	if matchesRestriction(ex, RestrictionRunning) {
		t.Error("overhead press should not match the running restriction")
	}
}

func TestApplyObjectiveBoost(t *testing.T) {
	candidates := []ScoredCandidate{
		{Exercise: catalog.Exercise{ID: 1, Type: catalog.TypeCompound}, Priority: 3},
		{Exercise: catalog.Exercise{ID: 2, Type: catalog.TypeCardio}, Priority: 3},
		{Exercise: catalog.Exercise{ID: 3, Type: catalog.TypeCompound}, Priority: 1},
	}

	got := applyObjectiveBoost(candidates, ObjectiveGainMuscle)
	if got[0].Priority != 1 {
		t.Errorf("compound priority = %d, want 1 (3-3 clamped)", got[0].Priority)
	}
	if got[1].Priority != 5 {
		t.Errorf("cardio priority = %d, want 5", got[1].Priority)
	}
	if got[2].Priority != 1 {
		t.Errorf("already-top priority = %d, want clamp at 1", got[2].Priority)
	}
}

func TestSortCandidates(t *testing.T) {
	candidates := []ScoredCandidate{
		{Exercise: catalog.Exercise{ID: 3}, Priority: 2, Similarity: 0.9},
		{Exercise: catalog.Exercise{ID: 1}, Priority: 1, Similarity: 0.5},
		{Exercise: catalog.Exercise{ID: 2}, Priority: 1, Similarity: 0.8},
		{Exercise: catalog.Exercise{ID: 4}, Priority: 1, Similarity: 0.8},
	}

	sortCandidates(candidates)

	wantOrder := []int{2, 4, 1, 3}
	for i, want := range wantOrder {
		if candidates[i].Exercise.ID != want {
			t.Errorf("position %d = exercise %d, want %d", i, candidates[i].Exercise.ID, want)
		}
	}
}

func TestFilterAndScore_pipeline(t *testing.T) {
	candidates := []ScoredCandidate{
		{Exercise: catalog.Exercise{ID: 1, Name: "Goblet Squat", DifficultyLevel: 2, Type: catalog.TypeFreeweight}, Pattern: PatternSquat, Priority: 3, Similarity: 0.9},
		{Exercise: catalog.Exercise{ID: 1, Name: "Goblet Squat", DifficultyLevel: 2, Type: catalog.TypeFreeweight}, Pattern: PatternLunge, Priority: 3, Similarity: 0.7},
		{Exercise: catalog.Exercise{ID: 2, Name: "Barbell Back Squat", DifficultyLevel: 5, Type: catalog.TypeCompound}, Pattern: PatternSquat, Priority: 3, Similarity: 0.95},
		{Exercise: catalog.Exercise{ID: 3, Name: "Deadlift", DifficultyLevel: 3, Type: catalog.TypeCompound}, Pattern: PatternHinge, Priority: 3, Similarity: 0.6},
	}
	strategy := Strategy{ExperienceLevel: LevelIntermediate, PrimaryObjective: ObjectiveGainMuscle}

	got := filterAndScore(candidates, strategy)

	// Exercise 2 is above the intermediate difficulty window and exercise 1 is
	// deduplicated. Both survivors boost to priority 1, so similarity decides.
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Exercise.ID != 1 || got[1].Exercise.ID != 3 {
		t.Errorf("order = %d,%d, want 1,3", got[0].Exercise.ID, got[1].Exercise.ID)
	}
}

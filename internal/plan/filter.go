package plan

import (
	"sort"
	"strings"

	"github.com/myrjola/planfit/internal/catalog"
)

// Candidate filtering and scoring. Each step is a pure function over the
// candidate slice; filterAndScore composes them into the pipeline the
// composer's sort-order contract depends on.

// difficultyWindows maps experience level to the admissible difficulty range.
var difficultyWindows = map[FitnessLevel][2]int{
	LevelBeginner:     {1, 3},
	LevelIntermediate: {2, 4},
	LevelAdvanced:     {3, 5},
}

// restrictionKeywords maps each restriction tag to the name/instruction
// substrings that violate it. Matching is case-insensitive.
var restrictionKeywords = map[string][]string{
	RestrictionHighImpact:       {"jump", "plyometric", "run", "sprint", "hop", "burpee"},
	RestrictionDeepSquat:        {"deep squat", "full squat", "pistol"},
	RestrictionHeavyLoading:     {"deadlift", "barbell squat", "heavy"},
	RestrictionSpinalFlexion:    {"sit-up", "situp", "crunch", "toes to bar"},
	RestrictionOverhead:         {"overhead", "military press", "snatch", "handstand"},
	RestrictionInternalRotation: {"upright row", "behind the neck"},
	RestrictionJumping:          {"jump", "hop", "skip", "bound"},
	RestrictionRunning:          {"run", "sprint", "jog"},
	RestrictionPushUp:           {"push-up", "push up", "pushup"},
	RestrictionHeavyPressing:    {"bench press", "overhead press", "shoulder press", "dip"},
	RestrictionHyperextension:   {"hyperextension", "back extension", "superman"},
	RestrictionHeavyShrugs:      {"shrug"},
	RestrictionAwkwardPositions: {"behind the neck", "overhead squat", "turkish"},
}

// preferenceEquipment maps an equipment preference to the equipment values it
// admits. A nil set means the preference admits everything.
var preferenceEquipment = map[string]map[string]bool{
	"bodyweight": {"bodyweight": true},
	"home_workout": {
		"bodyweight": true,
		"dumbbell":   true,
		"kettlebell": true,
		"band":       true,
	},
	"gym": nil,
}

// filterAndScore runs the full pipeline: dedupe, hard filters, objective
// priority boost, and the final (priority asc, similarity desc) sort.
func filterAndScore(candidates []ScoredCandidate, strategy Strategy) []ScoredCandidate {
	result := dedupeCandidates(candidates)
	result = applyHardFilters(result, strategy)
	result = applyObjectiveBoost(result, strategy.PrimaryObjective)
	sortCandidates(result)
	return result
}

// dedupeCandidates keeps the first occurrence of each exercise id. Because
// retrieval merges results in fixed pattern order, the first pattern wins.
func dedupeCandidates(candidates []ScoredCandidate) []ScoredCandidate {
	seen := make(map[int]bool, len(candidates))
	result := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.Exercise.ID] {
			continue
		}
		seen[c.Exercise.ID] = true
		result = append(result, c)
	}
	return result
}

// applyHardFilters drops candidates that fail any of the difficulty,
// health-restriction, equipment, or objective-compatibility checks.
func applyHardFilters(candidates []ScoredCandidate, strategy Strategy) []ScoredCandidate {
	window := difficultyWindows[strategy.ExperienceLevel]
	result := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Exercise.DifficultyLevel < window[0] || c.Exercise.DifficultyLevel > window[1] {
			continue
		}
		if violatesConsiderations(c.Exercise, strategy.SpecialConsiderations) {
			continue
		}
		if !equipmentCompatible(c.Exercise, strategy.EquipmentPreferences) {
			continue
		}
		if !objectiveCompatible(c.Exercise, strategy.PrimaryObjective) {
			continue
		}
		result = append(result, c)
	}
	return result
}

func violatesConsiderations(ex catalog.Exercise, considerations []HealthConsideration) bool {
	for _, consideration := range considerations {
		for _, tag := range consideration.Restrictions {
			if matchesRestriction(ex, tag) {
				return true
			}
		}
	}
	return false
}

// matchesRestriction reports whether the exercise's name or instructions
// contain any keyword associated with the restriction tag.
func matchesRestriction(ex catalog.Exercise, tag string) bool {
	text := strings.ToLower(ex.Name + " " + ex.Instructions)
	for _, keyword := range restrictionKeywords[tag] {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// equipmentCompatible reports whether the exercise's equipment is admitted by
// at least one of the preferences. Empty preferences admit everything.
func equipmentCompatible(ex catalog.Exercise, preferences []string) bool {
	if len(preferences) == 0 {
		return true
	}
	for _, pref := range preferences {
		allowed, known := preferenceEquipment[pref]
		if !known {
			continue
		}
		if allowed == nil || allowed[ex.Equipment] {
			return true
		}
	}
	return false
}

// objectiveCompatible excludes categorically mismatched work: steady cardio
// from muscle-gain plans and isolation strength work from endurance plans.
func objectiveCompatible(ex catalog.Exercise, objective Objective) bool {
	switch objective {
	case ObjectiveGainMuscle:
		if ex.Category == "cardio" && !hasAnyTag(ex, "hiit", "circuit", "metabolic") {
			return false
		}
	case ObjectiveEndurance:
		if ex.Type == catalog.TypeIsolation && !hasAnyTag(ex, "endurance", "aerobic") {
			return false
		}
	case ObjectiveLoseFat, ObjectiveMaintain:
	}
	return true
}

func hasAnyTag(ex catalog.Exercise, tags ...string) bool {
	for _, have := range ex.Tags {
		for _, want := range tags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// applyObjectiveBoost shifts each candidate's priority by a per-objective,
// per-exercise-type delta. Priority never drops below 1.
func applyObjectiveBoost(candidates []ScoredCandidate, objective Objective) []ScoredCandidate {
	result := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		c.Priority = max(c.Priority+priorityDelta(c.Exercise, objective), 1)
		result = append(result, c)
	}
	return result
}

func priorityDelta(ex catalog.Exercise, objective Objective) int {
	switch objective {
	case ObjectiveGainMuscle:
		switch ex.Type {
		case catalog.TypeCompound:
			return -3
		case catalog.TypeFreeweight, catalog.TypeMachine, catalog.TypeIsolation:
			return -2
		case catalog.TypePlyometric:
			return 0
		case catalog.TypeCardio:
			return 2
		case catalog.TypeBodyweight:
		}
		return -1
	case ObjectiveLoseFat:
		switch {
		case ex.Type == catalog.TypeCardio, ex.Type == catalog.TypePlyometric, hasAnyTag(ex, "hiit"):
			return -4
		case ex.Type == catalog.TypeBodyweight:
			return -2
		case ex.Type == catalog.TypeCompound:
			return -1
		}
		return 0
	case ObjectiveEndurance:
		switch {
		case ex.Type == catalog.TypeCardio:
			return -4
		case ex.Type == catalog.TypeBodyweight:
			return -2
		case hasAnyTag(ex, "endurance", "aerobic"):
			return -1
		case ex.Type == catalog.TypeCompound:
			return 1
		}
		return 0
	case ObjectiveMaintain:
	}
	return 0
}

// sortCandidates orders by ascending priority, then descending similarity,
// then ascending exercise id so equal scores stay deterministic.
func sortCandidates(candidates []ScoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority < candidates[j].Priority
		}
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].Exercise.ID < candidates[j].Exercise.ID
	})
}

package plan

import "strings"

// Session composition: pick an ordered exercise list for one template from the
// globally filtered and sorted candidate pool. Two greedy passes over the
// sorted input keep the result deterministic.

// composeSession selects at most template.ExerciseCount candidates. Pass one
// walks the pool admitting candidates that keep the selection diverse; pass
// two fills any remaining slots in pool order. A pool smaller than the target
// yields an under-filled session, which is valid.
func composeSession(template SessionTemplate, pool []ScoredCandidate) []ScoredCandidate {
	eligible := make([]ScoredCandidate, 0, len(pool))
	for _, c := range pool {
		if matchesTemplate(c, template) {
			eligible = append(eligible, c)
		}
	}

	selected := make([]ScoredCandidate, 0, template.ExerciseCount)
	picked := make(map[int]bool, template.ExerciseCount)
	patterns := make(map[MovementPattern]bool)
	muscles := make(map[string]bool)

	for _, c := range eligible {
		if len(selected) >= template.ExerciseCount {
			break
		}
		if !admitForDiversity(c, len(selected), patterns, muscles, len(template.Patterns)) {
			continue
		}
		selected = append(selected, c)
		picked[c.Exercise.ID] = true
		patterns[c.Pattern] = true
		muscles[strings.ToLower(c.Exercise.PrimaryMuscle)] = true
	}

	for _, c := range eligible {
		if len(selected) >= template.ExerciseCount {
			break
		}
		if picked[c.Exercise.ID] {
			continue
		}
		selected = append(selected, c)
		picked[c.Exercise.ID] = true
	}

	return selected
}

// matchesTemplate admits a candidate whose movement pattern is in the
// template's pattern set or whose primary muscle matches a target muscle.
func matchesTemplate(c ScoredCandidate, template SessionTemplate) bool {
	for _, p := range template.Patterns {
		if c.Pattern == p {
			return true
		}
	}
	muscle := strings.ToLower(c.Exercise.PrimaryMuscle)
	for _, target := range template.TargetMuscles {
		target = strings.ToLower(target)
		if muscle == target || strings.Contains(muscle, target) || strings.Contains(target, muscle) {
			return true
		}
	}
	return false
}

// admitForDiversity is the pass-one admission predicate. The first three
// candidates are always admitted; after that a candidate must bring a new
// movement pattern or a new primary muscle, or pattern coverage must still be
// short of the template's pattern-set size.
func admitForDiversity(
	c ScoredCandidate,
	selectedCount int,
	patterns map[MovementPattern]bool,
	muscles map[string]bool,
	patternSetSize int,
) bool {
	if selectedCount < 3 {
		return true
	}
	if !patterns[c.Pattern] {
		return true
	}
	if !muscles[strings.ToLower(c.Exercise.PrimaryMuscle)] {
		return true
	}
	return len(patterns) < patternSetSize
}

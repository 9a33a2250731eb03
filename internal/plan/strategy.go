package plan

import (
	"math"
	"strings"
)

// Strategy derivation constants.
const (
	baseIntensityLevel = 5

	minSuggestedWeeks = 4
	maxSuggestedWeeks = 16

	minSetsPerMuscleGroup = 6
)

// baseRestPeriods is the starting (compound, isolation, cardio) rest triple
// before objective and level adjustments.
var baseRestPeriods = RestPeriods{
	CompoundSeconds:  120,
	IsolationSeconds: 60,
	CardioSeconds:    45,
}

// analyzeStrategy derives the plan strategy from the profile, goal, and the
// already-analyzed health considerations. It is a pure function of its inputs.
func analyzeStrategy(profile UserProfile, goal Goal, considerations []HealthConsideration) Strategy {
	totalWeeks := suggestedWeeks(profile, goal)
	return Strategy{
		PrimaryObjective:      goal.Objective,
		ExperienceLevel:       profile.FitnessLevel,
		SessionStructure:      sessionStructureFor(goal.SessionsPerWeek),
		EquipmentPreferences:  goal.EquipmentPreferences,
		SpecialConsiderations: considerations,
		Intensity:             intensityFor(profile.FitnessLevel, goal.Objective),
		Volume:                volumeTargetsFor(profile.FitnessLevel, goal),
		TotalWeeks:            totalWeeks,
		Periodization:         periodizationConfigFor(profile.FitnessLevel, goal.Objective, totalWeeks),
	}
}

// sessionStructureFor selects the weekly split by session count. The
// exercises-per-session target is capped regardless of session duration to
// bound cognitive load.
func sessionStructureFor(sessionsPerWeek int) SessionStructure {
	switch {
	case sessionsPerWeek <= 2:
		return SessionStructure{Type: StructureFullBody, ExercisesPerSession: 7, Strategy: "high_volume_full_body"}
	case sessionsPerWeek <= 3:
		return SessionStructure{Type: StructureFullBodyVaried, ExercisesPerSession: 6, Strategy: "varied_full_body"}
	case sessionsPerWeek <= 4:
		return SessionStructure{Type: StructureUpperLower, ExercisesPerSession: 5, Strategy: "upper_lower_split"}
	default:
		return SessionStructure{Type: StructureBodyPartSplit, ExercisesPerSession: 5, Strategy: "body_part_split"}
	}
}

// intensityFor computes the 1-10 intensity level and RPE target.
func intensityFor(level FitnessLevel, objective Objective) IntensityLevel {
	intensity := baseIntensityLevel
	switch level {
	case LevelBeginner:
		intensity -= 2
	case LevelAdvanced:
		intensity += 2
	case LevelIntermediate:
	}
	if objective == ObjectiveLoseFat || objective == ObjectiveEndurance {
		intensity++
	}
	intensity = clampInt(intensity, 1, 10)

	return IntensityLevel{
		Level:       intensity,
		RPETarget:   float64(clampInt(intensity+1, 5, 9)),
		RestPeriods: restPeriodsFor(level, objective),
	}
}

// restPeriodsFor rescales the base rest triple by objective, then shifts it by
// fitness level: beginners rest longer, advanced lifters shorter.
func restPeriodsFor(level FitnessLevel, objective Objective) RestPeriods {
	rest := baseRestPeriods
	switch objective {
	case ObjectiveLoseFat:
		rest.CompoundSeconds = scaleSeconds(rest.CompoundSeconds, 0.7)
		rest.IsolationSeconds = scaleSeconds(rest.IsolationSeconds, 0.7)
		rest.CardioSeconds = scaleSeconds(rest.CardioSeconds, 0.7)
	case ObjectiveGainMuscle:
		rest.CompoundSeconds = scaleSeconds(rest.CompoundSeconds, 1.25)
		rest.IsolationSeconds = scaleSeconds(rest.IsolationSeconds, 1.25)
	case ObjectiveEndurance, ObjectiveMaintain:
	}

	const levelShiftSeconds = 15
	switch level {
	case LevelBeginner:
		rest.CompoundSeconds += levelShiftSeconds
		rest.IsolationSeconds += levelShiftSeconds
		rest.CardioSeconds += levelShiftSeconds
	case LevelAdvanced:
		rest.CompoundSeconds -= levelShiftSeconds
		rest.IsolationSeconds -= levelShiftSeconds
		rest.CardioSeconds -= levelShiftSeconds
	case LevelIntermediate:
	}
	return rest
}

func scaleSeconds(seconds int, factor float64) int {
	return int(math.Round(float64(seconds) * factor))
}

// objectiveVolumeTargets is the per-objective base volume table.
var objectiveVolumeTargets = map[Objective]VolumeTargets{
	ObjectiveLoseFat:    {SetsPerMuscleGroup: 12, Reps: RepRange{Low: 12, High: 15}},
	ObjectiveGainMuscle: {SetsPerMuscleGroup: 16, Reps: RepRange{Low: 8, High: 12}},
	ObjectiveEndurance:  {SetsPerMuscleGroup: 10, Reps: RepRange{Low: 15, High: 20}},
	ObjectiveMaintain:   {SetsPerMuscleGroup: 12, Reps: RepRange{Low: 10, High: 12}},
}

// volumeTargetsFor selects the objective's base volume and scales it by level.
func volumeTargetsFor(level FitnessLevel, goal Goal) VolumeTargets {
	targets, ok := objectiveVolumeTargets[goal.Objective]
	if !ok {
		targets = objectiveVolumeTargets[ObjectiveMaintain]
	}

	switch level {
	case LevelBeginner:
		scaled := int(math.Round(float64(targets.SetsPerMuscleGroup) * 0.7))
		targets.SetsPerMuscleGroup = max(scaled, minSetsPerMuscleGroup)
	case LevelAdvanced:
		targets.SetsPerMuscleGroup = int(math.Round(float64(targets.SetsPerMuscleGroup) * 1.3))
	case LevelIntermediate:
	}

	targets.WeeklyVolumeMinutes = goal.SessionsPerWeek * goal.SessionMinutes
	return targets
}

// suggestedWeeksTable is the base plan length by (level, objective).
var suggestedWeeksTable = map[FitnessLevel]map[Objective]int{
	LevelBeginner:     {ObjectiveLoseFat: 6, ObjectiveGainMuscle: 8, ObjectiveEndurance: 6, ObjectiveMaintain: 6},
	LevelIntermediate: {ObjectiveLoseFat: 8, ObjectiveGainMuscle: 10, ObjectiveEndurance: 8, ObjectiveMaintain: 8},
	LevelAdvanced:     {ObjectiveLoseFat: 10, ObjectiveGainMuscle: 12, ObjectiveEndurance: 10, ObjectiveMaintain: 8},
}

// suggestedWeeks sizes the plan: a base length by level and objective plus
// adjustments for health notes, training frequency, session length, and age,
// clamped to [4,16] weeks.
func suggestedWeeks(profile UserProfile, goal Goal) int {
	weeks := 8
	if byObjective, ok := suggestedWeeksTable[profile.FitnessLevel]; ok {
		if base, ok := byObjective[goal.Objective]; ok {
			weeks = base
		}
	}

	if mentionsJointArea(profile.HealthNote) {
		weeks += 2
	}

	switch {
	case goal.SessionsPerWeek <= 2:
		weeks += 2
	case goal.SessionsPerWeek >= 5:
		weeks--
	}

	switch {
	case goal.SessionMinutes <= 30:
		weeks++
	case goal.SessionMinutes >= 90:
		weeks--
	}

	switch {
	case profile.Age > 50:
		weeks++
	case profile.Age > 0 && profile.Age < 25:
		weeks--
	}

	return clampInt(weeks, minSuggestedWeeks, maxSuggestedWeeks)
}

// mentionsJointArea reports whether the health note names a major joint area
// that warrants a longer, more gradual plan.
func mentionsJointArea(note string) bool {
	note = strings.ToLower(note)
	for _, area := range []string{"knee", "back", "shoulder", "hip"} {
		if strings.Contains(note, area) {
			return true
		}
	}
	return false
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func clampFloat(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

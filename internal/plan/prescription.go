package plan

import (
	"math"
	"strings"

	"github.com/myrjola/planfit/internal/catalog"
	"github.com/myrjola/planfit/internal/ptr"
)

// Prescription computation: concrete sets, reps or duration, weight, rest, and
// RPE for one exercise in one week's session. All outputs are clamped to their
// documented ranges, never rejected.

const (
	minSets = 1
	maxSets = 8

	minReps = 5
	maxReps = 30

	minRestSeconds = 30
	maxRestSeconds = 300

	minRPE = 5
	maxRPE = 10

	// Loadable exercises never prescribe less than one pair of the smallest
	// common plates.
	minWeightKg    = 2.5
	weightStepKg   = 2.5
	equipmentNone  = "bodyweight"
	minHoldSeconds = 20
	maxHoldSeconds = 900
)

var objectiveBaseReps = map[Objective]int{
	ObjectiveLoseFat:    12,
	ObjectiveGainMuscle: 10,
	ObjectiveEndurance:  15,
	ObjectiveMaintain:   10,
}

var levelBaseSets = map[FitnessLevel]int{
	LevelBeginner:     2,
	LevelIntermediate: 3,
	LevelAdvanced:     4,
}

var bodyPartLoadPercentage = map[string]float64{
	"chest":     0.6,
	"legs":      1.0,
	"back":      0.7,
	"shoulders": 0.3,
	"arms":      0.25,
}

const defaultLoadPercentage = 0.4

var levelLoadMultiplier = map[FitnessLevel]float64{
	LevelBeginner:     0.5,
	LevelIntermediate: 0.75,
	LevelAdvanced:     1.0,
}

// prescribeExercise resolves the full dosage for one exercise given the
// session's weekly progression.
func prescribeExercise(
	ex catalog.Exercise,
	profile UserProfile,
	strategy Strategy,
	progression WeeklyProgression,
) Prescription {
	baseSets := baseSetsFor(ex, profile.FitnessLevel)
	baseReps := baseRepsFor(ex, strategy.PrimaryObjective)
	baseWeight := baseWeightFor(ex, profile, strategy.PrimaryObjective)

	sets := int(math.Round(float64(baseSets)*progression.VolumeModifier + progression.SetsAdjustment))
	sets = clampInt(sets, minSets, maxSets)

	prescription := Prescription{
		Sets:        sets,
		WeightKg:    finalWeight(ex, baseWeight, progression.WeightIncrease),
		RestSeconds: restSecondsFor(ex, profile.FitnessLevel, strategy.PrimaryObjective),
		Intensity:   intensityLabel(profile.FitnessLevel, strategy.PrimaryObjective),
		RPE:         ptr.Ref(rpeFor(profile.FitnessLevel, strategy.PrimaryObjective, progression.Phase)),
		Progression: &ProgressionDetail{
			BaseSets:     baseSets,
			BaseReps:     baseReps,
			BaseWeightKg: baseWeight,
			WeightDelta:  progression.WeightIncrease,
		},
	}

	if isDurationBased(ex) {
		prescription.DurationSeconds = ptr.Ref(durationSecondsFor(ex, profile.FitnessLevel, progression))
	} else {
		reps := int(math.Round(float64(baseReps) + progression.RepsAdjustment))
		prescription.Reps = ptr.Ref(clampInt(reps, minReps, maxReps))
	}

	return prescription
}

func baseRepsFor(ex catalog.Exercise, objective Objective) int {
	reps, ok := objectiveBaseReps[objective]
	if !ok {
		reps = objectiveBaseReps[ObjectiveMaintain]
	}

	name := strings.ToLower(ex.Name)
	if strings.Contains(name, "deadlift") && ex.Type == catalog.TypeCompound {
		reps = max(reps-5, minReps)
	}
	if ex.BodyPart == "waist" || strings.Contains(strings.ToLower(ex.PrimaryMuscle), "core") {
		reps += 5
	}
	return reps
}

func baseSetsFor(ex catalog.Exercise, level FitnessLevel) int {
	sets, ok := levelBaseSets[level]
	if !ok {
		sets = levelBaseSets[LevelIntermediate]
	}
	if ex.Type == catalog.TypeCompound || mentionsClassicLift(ex.Name) {
		sets = max(sets, 3)
	}
	return sets
}

func mentionsClassicLift(name string) bool {
	name = strings.ToLower(name)
	for _, lift := range []string{"squat", "deadlift", "bench press", "overhead press", "row"} {
		if strings.Contains(name, lift) {
			return true
		}
	}
	return false
}

// isDurationBased reports whether the exercise is prescribed by time instead
// of reps.
func isDurationBased(ex catalog.Exercise) bool {
	name := strings.ToLower(ex.Name)
	return strings.Contains(name, "plank") || strings.Contains(name, "hold") || ex.Category == "cardio"
}

var levelHoldSeconds = map[FitnessLevel]int{
	LevelBeginner:     30,
	LevelIntermediate: 45,
	LevelAdvanced:     60,
}

var levelCardioSeconds = map[FitnessLevel]int{
	LevelBeginner:     240,
	LevelIntermediate: 300,
	LevelAdvanced:     360,
}

func durationSecondsFor(ex catalog.Exercise, level FitnessLevel, progression WeeklyProgression) int {
	base := levelHoldSeconds[level]
	if ex.Category == "cardio" {
		base = levelCardioSeconds[level]
	}
	seconds := int(math.Round(float64(base) * progression.VolumeModifier / 5.0) * 5)
	return clampInt(seconds, minHoldSeconds, maxHoldSeconds)
}

// baseWeightFor estimates a starting load from bodyweight, the trained body
// part, level, gender, and objective. Bodyweight exercises load nothing.
func baseWeightFor(ex catalog.Exercise, profile UserProfile, objective Objective) float64 {
	if ex.Equipment == equipmentNone {
		return 0
	}

	percentage, ok := bodyPartLoadPercentage[ex.BodyPart]
	if !ok {
		percentage = defaultLoadPercentage
	}

	weight := profile.WeightKg * percentage * levelLoadMultiplier[profile.FitnessLevel]
	if strings.EqualFold(profile.Gender, "female") {
		weight *= 0.75
	}
	switch objective {
	case ObjectiveEndurance:
		weight *= 0.7
	case ObjectiveGainMuscle:
		weight *= 1.1
	case ObjectiveLoseFat, ObjectiveMaintain:
	}

	return roundToWeightStep(weight)
}

func roundToWeightStep(weight float64) float64 {
	rounded := math.Round(weight/weightStepKg) * weightStepKg
	return math.Max(rounded, minWeightKg)
}

func finalWeight(ex catalog.Exercise, baseWeight, increase float64) float64 {
	if ex.Equipment == equipmentNone || baseWeight <= 0 {
		return 0
	}
	return math.Max(baseWeight+increase, minWeightKg)
}

// restSecondsFor picks a base rest by exercise style and scales it by
// objective and level.
func restSecondsFor(ex catalog.Exercise, level FitnessLevel, objective Objective) int {
	name := strings.ToLower(ex.Name)
	var base float64
	switch {
	case ex.BodyPart == "legs" && (ex.Type == catalog.TypeCompound || strings.Contains(name, "deadlift") || strings.Contains(name, "squat")):
		base = 180
	case ex.Type == catalog.TypeCompound:
		base = 120
	case ex.Type == catalog.TypeIsolation || strings.Contains(strings.ToLower(ex.PrimaryMuscle), "core"):
		base = 60
	default:
		base = 90
	}

	switch objective {
	case ObjectiveLoseFat:
		base *= 0.7
	case ObjectiveEndurance:
		base *= 0.5
	case ObjectiveGainMuscle, ObjectiveMaintain:
	}

	switch level {
	case LevelBeginner:
		base *= 1.2
	case LevelAdvanced:
		base *= 0.9
	case LevelIntermediate:
	}

	return clampInt(int(math.Round(base)), minRestSeconds, maxRestSeconds)
}

var levelBaseRPE = map[FitnessLevel]float64{
	LevelBeginner:     6,
	LevelIntermediate: 7,
	LevelAdvanced:     8,
}

func rpeFor(level FitnessLevel, objective Objective, phase Phase) float64 {
	rpe := levelBaseRPE[level]

	switch phase {
	case PhaseFoundation:
		rpe -= 0.5
	case PhasePeak:
		rpe++
	case PhaseDeload:
		rpe -= 1.5
	case PhaseBuild:
	}

	switch objective {
	case ObjectiveEndurance:
		rpe -= 0.5
	case ObjectiveGainMuscle:
		rpe += 0.5
	case ObjectiveLoseFat, ObjectiveMaintain:
	}

	rpe = clampFloat(rpe, minRPE, maxRPE)
	return math.Round(rpe*10) / 10
}

func intensityLabel(level FitnessLevel, objective Objective) string {
	switch {
	case level == LevelBeginner:
		return "low"
	case level == LevelAdvanced && (objective == ObjectiveLoseFat || objective == ObjectiveGainMuscle):
		return "high"
	default:
		return "medium"
	}
}

var levelFormCues = map[FitnessLevel]string{
	LevelBeginner: "Learn the movement with light loads before progressing.",
	LevelAdvanced: "Push close to failure on the final set.",
}

var nameFormCues = []struct {
	substring string
	cue       string
}{
	{"plank", "Keep a straight line from head to heels."},
	{"squat", "Drive your knees out and keep your heels down."},
	{"deadlift", "Keep the bar close and your spine neutral."},
}

// buildExerciseNote concatenates advisory text: level cues, matched health
// considerations, the exercise's own safety notes, and name-keyed form cues.
// Downstream logic never reads it.
func buildExerciseNote(ex catalog.Exercise, level FitnessLevel, considerations []HealthConsideration) string {
	var parts []string
	if cue, ok := levelFormCues[level]; ok {
		parts = append(parts, cue)
	}

	lowerName := strings.ToLower(ex.Name)
	for _, consideration := range considerations {
		area := strings.ToLower(consideration.AffectedArea)
		if strings.Contains(strings.ToLower(ex.BodyPart), area) || strings.Contains(lowerName, area) {
			if len(consideration.Modifications) > 0 {
				parts = append(parts, "Mind your "+area+": "+strings.Join(consideration.Modifications, ", ")+".")
			} else {
				parts = append(parts, "Mind your "+area+".")
			}
		}
	}

	if ex.SafetyNotes != "" {
		parts = append(parts, ex.SafetyNotes)
	}

	for _, cue := range nameFormCues {
		if strings.Contains(lowerName, cue.substring) {
			parts = append(parts, cue.cue)
		}
	}

	return strings.Join(parts, " ")
}

package plan

import "math"

// Periodization: a linear foundation/build/peak phase sequence sized from the
// plan length, with deload weeks overlaid at a fixed cadence. Every function
// here is pure, so week resolution is trivially testable.

// Deload overlay modifiers, applied regardless of the underlying phase.
const (
	deloadIntensityModifier = 0.7
	deloadVolumeModifier    = 0.6
)

// Proportional phase splits. Peak takes the remainder.
const (
	foundationShare = 0.3
	buildShare      = 0.4
)

var phaseTemplates = map[Phase]PhaseConfig{
	PhaseFoundation: {
		Phase:                 PhaseFoundation,
		IntensityMultiplier:   0.85,
		VolumeMultiplier:      0.9,
		WeightIncreasePerWeek: 1.25,
	},
	PhaseBuild: {
		Phase:                 PhaseBuild,
		IntensityMultiplier:   1.0,
		VolumeMultiplier:      1.0,
		WeightIncreasePerWeek: 2.5,
		RepsAdjustmentPerWeek: 1,
	},
	PhasePeak: {
		Phase:                 PhasePeak,
		IntensityMultiplier:   1.1,
		VolumeMultiplier:      1.05,
		WeightIncreasePerWeek: 2.5,
		SetsAdjustmentPerWeek: 1,
	},
}

// deloadFrequencyTable holds the deload cadence in weeks by level and
// objective. Advanced lifters chasing hard objectives deload more often.
var deloadFrequencyTable = map[FitnessLevel]map[Objective]int{
	LevelBeginner:     {ObjectiveLoseFat: 4, ObjectiveGainMuscle: 4, ObjectiveEndurance: 4, ObjectiveMaintain: 5},
	LevelIntermediate: {ObjectiveLoseFat: 3, ObjectiveGainMuscle: 4, ObjectiveEndurance: 4, ObjectiveMaintain: 5},
	LevelAdvanced:     {ObjectiveLoseFat: 3, ObjectiveGainMuscle: 3, ObjectiveEndurance: 4, ObjectiveMaintain: 4},
}

const defaultDeloadFrequency = 4

// periodizationConfigFor sizes the phase sequence for the plan length and
// picks the deload cadence.
func periodizationConfigFor(level FitnessLevel, objective Objective, totalWeeks int) PeriodizationConfig {
	foundationWeeks := int(math.Ceil(float64(totalWeeks) * foundationShare))
	buildWeeks := int(math.Ceil(float64(totalWeeks) * buildShare))
	peakWeeks := max(totalWeeks-foundationWeeks-buildWeeks, 0)

	foundation := phaseTemplates[PhaseFoundation]
	foundation.DurationWeeks = foundationWeeks
	build := phaseTemplates[PhaseBuild]
	build.DurationWeeks = buildWeeks
	peak := phaseTemplates[PhasePeak]
	peak.DurationWeeks = peakWeeks

	frequency := defaultDeloadFrequency
	if byObjective, ok := deloadFrequencyTable[level]; ok {
		if f, ok := byObjective[objective]; ok {
			frequency = f
		}
	}

	return PeriodizationConfig{
		Phases:          []PhaseConfig{foundation, build, peak},
		DeloadFrequency: frequency,
	}
}

// resolvePhase walks the phase list accumulating durations until the 1-based
// week falls inside a phase's span. Weeks past the end stay in the last phase.
func resolvePhase(config PeriodizationConfig, week int) PhaseConfig {
	accumulated := 0
	for _, phase := range config.Phases {
		accumulated += phase.DurationWeeks
		if week <= accumulated {
			return phase
		}
	}
	return config.Phases[len(config.Phases)-1]
}

func isDeloadWeek(config PeriodizationConfig, week int) bool {
	return config.DeloadFrequency > 0 && week%config.DeloadFrequency == 0
}

// weeklyProgression resolves the modifiers for one week. Deload weeks override
// the phase's intensity and volume and invert the progression deltas so the
// week unloads instead of adding.
func weeklyProgression(config PeriodizationConfig, week int) WeeklyProgression {
	phase := resolvePhase(config, week)
	progression := WeeklyProgression{
		Week:              week,
		Phase:             phase.Phase,
		IntensityModifier: phase.IntensityMultiplier,
		VolumeModifier:    phase.VolumeMultiplier,
		WeightIncrease:    phase.WeightIncreasePerWeek,
		RepsAdjustment:    phase.RepsAdjustmentPerWeek,
		SetsAdjustment:    phase.SetsAdjustmentPerWeek,
	}

	if isDeloadWeek(config, week) {
		progression.Phase = PhaseDeload
		progression.IsDeloadWeek = true
		progression.IntensityModifier = deloadIntensityModifier
		progression.VolumeModifier = deloadVolumeModifier
		progression.WeightIncrease = -phase.WeightIncreasePerWeek
		progression.RepsAdjustment = -phase.RepsAdjustmentPerWeek
		progression.SetsAdjustment = -phase.SetsAdjustmentPerWeek
	}

	return progression
}

// Package plan generates personalized multi-week workout plans: it derives a
// strategy from the user's profile and goal, retrieves and filters candidate
// exercises, composes diverse sessions, schedules progression across weeks,
// and computes concrete per-exercise prescriptions.
package plan

import (
	"time"

	"github.com/myrjola/planfit/internal/catalog"
)

// FitnessLevel represents the user's training experience.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// Objective represents the primary training goal.
type Objective string

const (
	ObjectiveLoseFat    Objective = "lose_fat"
	ObjectiveGainMuscle Objective = "gain_muscle"
	ObjectiveEndurance  Objective = "endurance"
	ObjectiveMaintain   Objective = "maintain"
)

// UserProfile is the immutable physical profile input to a generation run.
type UserProfile struct {
	Age          int
	Gender       string
	HeightCm     float64
	WeightKg     float64
	BMI          float64
	FitnessLevel FitnessLevel
	HealthNote   string
}

// Goal is the immutable training goal input to a generation run.
type Goal struct {
	Objective       Objective
	SessionsPerWeek int
	SessionMinutes  int
	// EquipmentPreferences holds preference categories such as "bodyweight",
	// "home_workout", or "gym". Empty means no restriction.
	EquipmentPreferences []string
}

// Health consideration types.
const (
	ConsiderationJointLimitation = "joint_limitation"
	ConsiderationInjuryHistory   = "injury_history"
	ConsiderationMobilityIssue   = "mobility_issue"
)

// Restriction tags form a closed vocabulary. Any analyzer output outside this
// set is invalid and must be dropped before it reaches filtering.
const (
	RestrictionHighImpact       = "high_impact"
	RestrictionDeepSquat        = "deep_squat"
	RestrictionHeavyLoading     = "heavy_loading"
	RestrictionSpinalFlexion    = "spinal_flexion"
	RestrictionOverhead         = "overhead"
	RestrictionInternalRotation = "internal_rotation"
	RestrictionJumping          = "jumping"
	RestrictionRunning          = "running"
	RestrictionPushUp           = "push_up"
	RestrictionHeavyPressing    = "heavy_pressing"
	RestrictionHyperextension   = "hyperextension"
	RestrictionHeavyShrugs      = "heavy_shrugs"
	RestrictionAwkwardPositions = "awkward_positions"
)

// validRestrictions is the closed restriction vocabulary.
var validRestrictions = map[string]bool{
	RestrictionHighImpact:       true,
	RestrictionDeepSquat:        true,
	RestrictionHeavyLoading:     true,
	RestrictionSpinalFlexion:    true,
	RestrictionOverhead:         true,
	RestrictionInternalRotation: true,
	RestrictionJumping:          true,
	RestrictionRunning:          true,
	RestrictionPushUp:           true,
	RestrictionHeavyPressing:    true,
	RestrictionHyperextension:   true,
	RestrictionHeavyShrugs:      true,
	RestrictionAwkwardPositions: true,
}

// HealthConsideration is a structured restriction derived from the user's
// free-text health note.
type HealthConsideration struct {
	Type          string
	AffectedArea  string
	Restrictions  []string
	Modifications []string
}

// MovementPattern is a biomechanical exercise category. It drives both
// retrieval queries and session templates.
type MovementPattern string

const (
	PatternSquat          MovementPattern = "squat"
	PatternHinge          MovementPattern = "hinge"
	PatternLunge          MovementPattern = "lunge"
	PatternPushVertical   MovementPattern = "push_vertical"
	PatternPushHorizontal MovementPattern = "push_horizontal"
	PatternPullVertical   MovementPattern = "pull_vertical"
	PatternPullHorizontal MovementPattern = "pull_horizontal"
	PatternCarry          MovementPattern = "carry"
	PatternCore           MovementPattern = "core"
	PatternRotation       MovementPattern = "rotation"
	PatternGait           MovementPattern = "gait"
	PatternCardio         MovementPattern = "cardio"
)

// strengthPatterns is the base retrieval set. The cardio pattern is added per
// objective in the retriever.
var strengthPatterns = []MovementPattern{
	PatternSquat,
	PatternHinge,
	PatternLunge,
	PatternPushVertical,
	PatternPushHorizontal,
	PatternPullVertical,
	PatternPullHorizontal,
	PatternCarry,
	PatternCore,
	PatternRotation,
	PatternGait,
}

// ScoredCandidate is an exercise attached to its retrieval provenance.
// Priority is adjusted during scoring; lower means higher priority.
type ScoredCandidate struct {
	Exercise   catalog.Exercise
	Similarity float64
	Pattern    MovementPattern
	Priority   int
}

// Session structure types, selected by weekly session count.
const (
	StructureFullBody       = "full_body"
	StructureFullBodyVaried = "full_body_varied"
	StructureUpperLower     = "upper_lower"
	StructureBodyPartSplit  = "body_part_split"
)

// SessionStructure describes how sessions are organized within a week.
type SessionStructure struct {
	Type                string
	ExercisesPerSession int
	Strategy            string
}

// RestPeriods holds target rest in seconds by exercise style.
type RestPeriods struct {
	CompoundSeconds  int
	IsolationSeconds int
	CardioSeconds    int
}

// IntensityLevel is the target intensity for the plan.
type IntensityLevel struct {
	Level       int // 1-10
	RPETarget   float64
	RestPeriods RestPeriods
}

// RepRange is an inclusive rep range target.
type RepRange struct {
	Low  int
	High int
}

// VolumeTargets holds weekly training volume targets.
type VolumeTargets struct {
	SetsPerMuscleGroup  int
	Reps                RepRange
	WeeklyVolumeMinutes int
}

// Phase identifies a periodization phase.
type Phase string

const (
	PhaseFoundation Phase = "foundation"
	PhaseBuild      Phase = "build"
	PhasePeak       Phase = "peak"
	PhaseDeload     Phase = "deload"
)

// PhaseConfig holds the per-week modifiers a phase applies.
type PhaseConfig struct {
	Phase                 Phase
	DurationWeeks         int
	IntensityMultiplier   float64
	VolumeMultiplier      float64
	WeightIncreasePerWeek float64
	RepsAdjustmentPerWeek float64
	SetsAdjustmentPerWeek float64
}

// PeriodizationConfig is the full phase sequence plus the deload cadence.
type PeriodizationConfig struct {
	Phases          []PhaseConfig
	DeloadFrequency int
}

// WeeklyProgression is the resolved progression for one calendar week.
type WeeklyProgression struct {
	Week              int
	Phase             Phase
	IntensityModifier float64
	VolumeModifier    float64
	WeightIncrease    float64
	RepsAdjustment    float64
	SetsAdjustment    float64
	IsDeloadWeek      bool
}

// Strategy is the derived plan strategy. Computed once per generation run and
// immutable thereafter.
type Strategy struct {
	PrimaryObjective      Objective
	ExperienceLevel       FitnessLevel
	SessionStructure      SessionStructure
	EquipmentPreferences  []string
	SpecialConsiderations []HealthConsideration
	Intensity             IntensityLevel
	Volume                VolumeTargets
	TotalWeeks            int
	Periodization         PeriodizationConfig
}

// SessionTemplate describes one calendar session: which movement patterns and
// muscles it draws from and how many exercises it targets.
type SessionTemplate struct {
	Name          string
	Focus         string
	Patterns      []MovementPattern
	TargetMuscles []string
	ExerciseCount int
	Intensity     int
}

// ProgressionDetail records the progressive-overload breakdown of a prescription.
type ProgressionDetail struct {
	BaseSets     int
	BaseReps     int
	BaseWeightKg float64
	WeightDelta  float64
}

// Prescription is the concrete dosage for one exercise in one session.
// Reps and DurationSeconds are mutually exclusive: held and cardio exercises
// are prescribed by duration.
type Prescription struct {
	Sets            int
	Reps            *int
	DurationSeconds *int
	WeightKg        float64
	RestSeconds     int
	Intensity       string
	RPE             *float64
	Progression     *ProgressionDetail
}

// PlanItem is one prescribed exercise within a day.
type PlanItem struct {
	Exercise     catalog.Exercise
	ItemIndex    int
	Prescription Prescription
	Note         string
}

// PlanDay is one scheduled session.
type PlanDay struct {
	DayIndex             int
	Date                 time.Time
	SessionName          string
	Items                []PlanItem
	TotalDurationSeconds int
}

// Plan is a complete generated workout plan: SessionsPerWeek×TotalWeeks days
// in order.
type Plan struct {
	ID              string
	CreatedAt       time.Time
	Objective       Objective
	FitnessLevel    FitnessLevel
	SessionsPerWeek int
	TotalWeeks      int
	Days            []PlanDay
}

package plan

import (
	"context"
	"log/slog"
	"strings"

	"github.com/myrjola/planfit/internal/errors"
)

// HealthClassifier maps a free-text health note to structured considerations.
// Implementations may call an external model; their output is always validated
// against the closed restriction vocabulary before use.
type HealthClassifier interface {
	Classify(ctx context.Context, note string) ([]HealthConsideration, error)
}

// healthAnalyzer derives health considerations from free-text notes.
//
// A rule-based keyword scan is the default path. When a classifier is
// configured it is tried first and the rules serve as fallback.
type healthAnalyzer struct {
	classifier HealthClassifier
	logger     *slog.Logger
}

func newHealthAnalyzer(classifier HealthClassifier, logger *slog.Logger) *healthAnalyzer {
	return &healthAnalyzer{
		classifier: classifier,
		logger:     logger,
	}
}

// bodyAreaConsiderations maps a detected body-part keyword to the fixed
// consideration emitted for it. The "back" keyword maps to the spine area.
var bodyAreaConsiderations = map[string]HealthConsideration{
	"knee": {
		Type:          ConsiderationJointLimitation,
		AffectedArea:  "knee",
		Restrictions:  []string{RestrictionHighImpact, RestrictionDeepSquat, RestrictionJumping},
		Modifications: []string{"reduced_range", "low_impact_alternative"},
	},
	"back": {
		Type:          ConsiderationInjuryHistory,
		AffectedArea:  "spine",
		Restrictions:  []string{RestrictionSpinalFlexion, RestrictionHeavyLoading, RestrictionHyperextension},
		Modifications: []string{"neutral_spine", "core_bracing"},
	},
	"shoulder": {
		Type:          ConsiderationJointLimitation,
		AffectedArea:  "shoulder",
		Restrictions:  []string{RestrictionOverhead, RestrictionHeavyPressing, RestrictionInternalRotation},
		Modifications: []string{"limited_range", "light_weight"},
	},
	"hip": {
		Type:          ConsiderationMobilityIssue,
		AffectedArea:  "hip",
		Restrictions:  []string{RestrictionDeepSquat, RestrictionHighImpact},
		Modifications: []string{"reduced_range", "mobility_work"},
	},
	"ankle": {
		Type:          ConsiderationJointLimitation,
		AffectedArea:  "ankle",
		Restrictions:  []string{RestrictionJumping, RestrictionRunning, RestrictionHighImpact},
		Modifications: []string{"seated_alternative", "low_impact_alternative"},
	},
	"wrist": {
		Type:          ConsiderationJointLimitation,
		AffectedArea:  "wrist",
		Restrictions:  []string{RestrictionPushUp, RestrictionHeavyPressing},
		Modifications: []string{"neutral_grip", "wrist_support"},
	},
	"neck": {
		Type:          ConsiderationInjuryHistory,
		AffectedArea:  "neck",
		Restrictions:  []string{RestrictionOverhead, RestrictionHeavyShrugs},
		Modifications: []string{"limited_range", "light_weight"},
	},
	"elbow": {
		Type:          ConsiderationJointLimitation,
		AffectedArea:  "elbow",
		Restrictions:  []string{RestrictionHeavyPressing, RestrictionAwkwardPositions},
		Modifications: []string{"light_weight", "slow_tempo"},
	},
}

// bodyAreaKeywords fixes the scan order so results are deterministic.
var bodyAreaKeywords = []string{"knee", "back", "shoulder", "hip", "ankle", "wrist", "neck", "elbow"}

// Analyze derives considerations from the profile's health note and any extra
// notes. An empty note yields an empty result, never an error.
func (a *healthAnalyzer) Analyze(ctx context.Context, profile UserProfile, notes string) []HealthConsideration {
	note := strings.TrimSpace(strings.Join([]string{profile.HealthNote, notes}, " "))
	if note == "" {
		return nil
	}

	if a.classifier != nil {
		considerations, err := a.classifier.Classify(ctx, note)
		if err != nil {
			a.logger.LogAttrs(ctx, slog.LevelWarn, "health classifier failed, falling back to rules",
				errors.SlogError(err))
		} else if valid := validateConsiderations(considerations); len(valid) > 0 {
			return valid
		}
	}

	return analyzeNoteByRules(note)
}

// analyzeNoteByRules scans the note for body-part keywords and emits one fixed
// consideration per match.
func analyzeNoteByRules(note string) []HealthConsideration {
	note = strings.ToLower(note)
	var considerations []HealthConsideration
	for _, keyword := range bodyAreaKeywords {
		if strings.Contains(note, keyword) {
			considerations = append(considerations, bodyAreaConsiderations[keyword])
		}
	}
	return considerations
}

// validateConsiderations drops restriction tags outside the closed vocabulary
// and discards considerations left with no valid restrictions. Invalid tags
// are never propagated downstream: an unknown tag must not silently widen (or
// fail to apply) a filter.
func validateConsiderations(considerations []HealthConsideration) []HealthConsideration {
	var valid []HealthConsideration
	for _, c := range considerations {
		var restrictions []string
		for _, r := range c.Restrictions {
			if validRestrictions[r] {
				restrictions = append(restrictions, r)
			}
		}
		if len(restrictions) == 0 {
			continue
		}
		c.Restrictions = restrictions
		valid = append(valid, c)
	}
	return valid
}

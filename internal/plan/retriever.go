package plan

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/myrjola/planfit/internal/catalog"
	"github.com/myrjola/planfit/internal/errors"
	"github.com/myrjola/planfit/internal/retrieval"
)

// similarityThreshold filters out weakly related retrieval results.
const similarityThreshold = 0.3

// Default per-pattern retrieval budget and priority tier (lower is higher).
const (
	defaultPatternBudget   = 8
	defaultPatternPriority = 3
)

// exerciseCatalog is the catalog lookup the engine depends on.
type exerciseCatalog interface {
	GetByIDs(ctx context.Context, ids []int) ([]catalog.Exercise, error)
}

// retriever builds one semantic query per movement pattern and merges results.
type retriever struct {
	searcher retrieval.Searcher
	catalog  exerciseCatalog
	logger   *slog.Logger
}

// patternBaseTerms seeds the retrieval query for each movement pattern.
var patternBaseTerms = map[MovementPattern]string{
	PatternSquat:          "squat knee bend leg press quadriceps glutes",
	PatternHinge:          "hip hinge deadlift swing hamstrings glutes posterior chain",
	PatternLunge:          "lunge split squat step up single leg",
	PatternPushVertical:   "overhead press shoulder press vertical push",
	PatternPushHorizontal: "bench press push up chest press horizontal push",
	PatternPullVertical:   "pull up pulldown lat vertical pull",
	PatternPullHorizontal: "row horizontal pull upper back",
	PatternCarry:          "loaded carry farmer walk grip core",
	PatternCore:           "core abdominal plank trunk stability",
	PatternRotation:       "rotation anti-rotation obliques twist",
	PatternGait:           "walking locomotion low intensity steady",
	PatternCardio:         "cardio conditioning aerobic heart rate",
}

var levelQueryTerms = map[FitnessLevel]string{
	LevelBeginner:     "beginner friendly simple",
	LevelIntermediate: "intermediate",
	LevelAdvanced:     "advanced challenging",
}

var objectiveQueryTerms = map[Objective]string{
	ObjectiveLoseFat:    "fat loss calorie burn conditioning",
	ObjectiveGainMuscle: "muscle building hypertrophy strength",
	ObjectiveEndurance:  "endurance aerobic stamina",
	ObjectiveMaintain:   "general fitness balanced",
}

var equipmentQueryTerms = map[string]string{
	"bodyweight":   "bodyweight no equipment",
	"home_workout": "home dumbbell kettlebell band",
	"gym":          "barbell machine cable gym",
}

// patternsAffectedByArea lists the movement patterns whose queries gain safety
// terms when a consideration for the area is active.
var patternsAffectedByArea = map[string][]MovementPattern{
	"knee":     {PatternSquat, PatternLunge, PatternHinge, PatternCardio, PatternGait},
	"spine":    {PatternHinge, PatternSquat, PatternCore, PatternRotation},
	"shoulder": {PatternPushVertical, PatternPushHorizontal, PatternPullVertical, PatternCarry},
	"hip":      {PatternSquat, PatternHinge, PatternLunge, PatternGait},
	"ankle":    {PatternCardio, PatternGait, PatternLunge},
	"wrist":    {PatternPushHorizontal, PatternPushVertical, PatternCarry},
	"neck":     {PatternPushVertical, PatternCarry},
	"elbow":    {PatternPushHorizontal, PatternPushVertical, PatternPullHorizontal, PatternPullVertical},
}

// compoundPatterns get a budget and priority boost for muscle gain.
var compoundPatterns = map[MovementPattern]bool{
	PatternSquat:          true,
	PatternHinge:          true,
	PatternPushVertical:   true,
	PatternPushHorizontal: true,
	PatternPullVertical:   true,
	PatternPullHorizontal: true,
}

// patternQuery is the retrieval work unit for one movement pattern.
type patternQuery struct {
	pattern    MovementPattern
	query      string
	maxResults int
	priority   int
}

// buildPatternQueries assembles the per-pattern queries for a strategy. The
// cardio pattern is added only for fat-loss and endurance objectives.
func buildPatternQueries(strategy Strategy) []patternQuery {
	patterns := strengthPatterns
	if strategy.PrimaryObjective == ObjectiveLoseFat || strategy.PrimaryObjective == ObjectiveEndurance {
		patterns = append(append([]MovementPattern{}, patterns...), PatternCardio)
	}

	queries := make([]patternQuery, 0, len(patterns))
	for _, pattern := range patterns {
		queries = append(queries, patternQuery{
			pattern:    pattern,
			query:      buildQueryText(pattern, strategy),
			maxResults: patternBudget(pattern, strategy.PrimaryObjective),
			priority:   patternPriority(pattern, strategy.PrimaryObjective),
		})
	}
	return queries
}

// buildQueryText concatenates base, level, equipment, objective, and safety terms.
func buildQueryText(pattern MovementPattern, strategy Strategy) string {
	terms := []string{patternBaseTerms[pattern], levelQueryTerms[strategy.ExperienceLevel]}

	for _, pref := range strategy.EquipmentPreferences {
		if t, ok := equipmentQueryTerms[pref]; ok {
			terms = append(terms, t)
		} else {
			terms = append(terms, pref)
		}
	}

	terms = append(terms, objectiveQueryTerms[strategy.PrimaryObjective])

	for _, consideration := range strategy.SpecialConsiderations {
		for _, affected := range patternsAffectedByArea[consideration.AffectedArea] {
			if affected == pattern {
				terms = append(terms, consideration.AffectedArea+" safe low impact")
				break
			}
		}
	}

	return strings.Join(terms, " ")
}

func patternBudget(pattern MovementPattern, objective Objective) int {
	switch objective {
	case ObjectiveGainMuscle:
		if compoundPatterns[pattern] {
			return defaultPatternBudget + 2
		}
	case ObjectiveLoseFat, ObjectiveEndurance:
		if pattern == PatternCardio || pattern == PatternGait {
			return 12
		}
	case ObjectiveMaintain:
	}
	return defaultPatternBudget
}

func patternPriority(pattern MovementPattern, objective Objective) int {
	switch objective {
	case ObjectiveGainMuscle:
		if compoundPatterns[pattern] {
			return defaultPatternPriority - 1
		}
	case ObjectiveLoseFat, ObjectiveEndurance:
		if pattern == PatternCardio || pattern == PatternGait {
			return 1
		}
	case ObjectiveMaintain:
	}
	return defaultPatternPriority
}

// Retrieve runs all pattern queries concurrently and merges the results in
// fixed pattern order so downstream deduplication is deterministic.
//
// A failed retrieval call degrades that pattern's contribution to zero
// candidates instead of failing the run.
func (r *retriever) Retrieve(ctx context.Context, strategy Strategy) ([]ScoredCandidate, error) {
	queries := buildPatternQueries(strategy)
	resultsByPattern := make([][]ScoredCandidate, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			candidates, err := r.retrievePattern(ctx, q)
			if err != nil {
				// Tolerate partial failure but respect cancellation.
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.LogAttrs(ctx, slog.LevelWarn, "pattern retrieval failed",
					slog.String("pattern", string(q.pattern)), errors.SlogError(err))
				return nil
			}
			resultsByPattern[i] = candidates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "retrieve candidates")
	}

	var merged []ScoredCandidate
	for _, candidates := range resultsByPattern {
		merged = append(merged, candidates...)
	}
	return merged, nil
}

// retrievePattern runs one pattern's search and resolves the hits to records.
func (r *retriever) retrievePattern(ctx context.Context, q patternQuery) ([]ScoredCandidate, error) {
	hits, err := r.searcher.Search(ctx, q.query, q.maxResults, similarityThreshold)
	if err != nil {
		return nil, errors.Wrap(err, "search", slog.String("query", q.query))
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]int, len(hits))
	for i, hit := range hits {
		ids[i] = hit.ExerciseID
	}

	exercises, err := r.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "fetch exercise records")
	}

	// The catalog does not guarantee order; restore the hit order.
	byID := make(map[int]catalog.Exercise, len(exercises))
	for _, ex := range exercises {
		byID[ex.ID] = ex
	}

	candidates := make([]ScoredCandidate, 0, len(hits))
	for _, hit := range hits {
		ex, ok := byID[hit.ExerciseID]
		if !ok {
			// Soft-deleted between search and lookup.
			continue
		}
		candidates = append(candidates, ScoredCandidate{
			Exercise:   ex,
			Similarity: hit.Similarity,
			Pattern:    q.pattern,
			Priority:   q.priority,
		})
	}
	return candidates, nil
}

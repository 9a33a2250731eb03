package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/planfit/internal/errors"
	"github.com/myrjola/planfit/internal/retrieval"
)

// ErrNoExercises is returned when retrieval and filtering leave an empty
// candidate pool. The engine never emits an empty plan.
var ErrNoExercises = errors.NewSentinel("no suitable exercises found")

// Rough per-rep tempo used for session duration estimates.
const secondsPerRep = 3

const daysPerWeek = 7

// Generator runs a complete plan-generation pipeline: health analysis,
// strategy derivation, retrieval, filtering, composition, periodization, and
// prescription. It holds no mutable state, so concurrent runs are safe.
type Generator struct {
	health    *healthAnalyzer
	retriever *retriever
	logger    *slog.Logger
	now       func() time.Time
}

// NewGenerator creates a plan generator. The classifier may be nil, in which
// case health notes are analyzed by keyword rules alone.
func NewGenerator(
	searcher retrieval.Searcher,
	exercises exerciseCatalog,
	classifier HealthClassifier,
	logger *slog.Logger,
) *Generator {
	return &Generator{
		health:    newHealthAnalyzer(classifier, logger),
		retriever: &retriever{searcher: searcher, catalog: exercises, logger: logger},
		logger:    logger,
		now:       time.Now,
	}
}

// Generate produces a complete plan for the profile and goal. The plan spans
// SessionsPerWeek sessions per week for the derived number of weeks, each day
// carrying fully resolved prescriptions.
func (g *Generator) Generate(ctx context.Context, profile UserProfile, goal Goal, notes string) (Plan, error) {
	considerations := g.health.Analyze(ctx, profile, notes)
	strategy := analyzeStrategy(profile, goal, considerations)

	candidates, err := g.retriever.Retrieve(ctx, strategy)
	if err != nil {
		return Plan{}, errors.Wrap(err, "retrieve candidates")
	}

	pool := filterAndScore(candidates, strategy)
	if len(pool) == 0 {
		return Plan{}, ErrNoExercises
	}

	g.logger.LogAttrs(ctx, slog.LevelInfo, "composed candidate pool",
		slog.Int("candidates", len(candidates)),
		slog.Int("pool", len(pool)),
		slog.Int("total_weeks", strategy.TotalWeeks))

	days, err := g.scheduleDays(strategy, goal, profile, pool)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		CreatedAt:       g.now(),
		Objective:       goal.Objective,
		FitnessLevel:    profile.FitnessLevel,
		SessionsPerWeek: goal.SessionsPerWeek,
		TotalWeeks:      strategy.TotalWeeks,
		Days:            days,
	}, nil
}

// scheduleDays expands the strategy into the full ordered day list. The week
// number is derived from the session index and the weekly session count.
func (g *Generator) scheduleDays(
	strategy Strategy,
	goal Goal,
	profile UserProfile,
	pool []ScoredCandidate,
) ([]PlanDay, error) {
	if goal.SessionsPerWeek < 1 {
		return nil, fmt.Errorf("sessions per week must be positive, got %d", goal.SessionsPerWeek)
	}

	templates := buildWeekTemplates(strategy, goal.SessionsPerWeek)
	start := startOfDay(g.now())
	totalDays := goal.SessionsPerWeek * strategy.TotalWeeks

	days := make([]PlanDay, 0, totalDays)
	for dayIndex := 0; dayIndex < totalDays; dayIndex++ {
		week := dayIndex/goal.SessionsPerWeek + 1
		sessionInWeek := dayIndex % goal.SessionsPerWeek
		progression := weeklyProgression(strategy.Periodization, week)
		template := templates[sessionInWeek]

		selected := composeSession(template, pool)
		items := make([]PlanItem, 0, len(selected))
		for i, candidate := range selected {
			items = append(items, PlanItem{
				Exercise:     candidate.Exercise,
				ItemIndex:    i,
				Prescription: prescribeExercise(candidate.Exercise, profile, strategy, progression),
				Note:         buildExerciseNote(candidate.Exercise, profile.FitnessLevel, strategy.SpecialConsiderations),
			})
		}

		days = append(days, PlanDay{
			DayIndex:             dayIndex,
			Date:                 start.AddDate(0, 0, (week-1)*daysPerWeek+sessionOffset(sessionInWeek, goal.SessionsPerWeek)),
			SessionName:          template.Name,
			Items:                items,
			TotalDurationSeconds: estimateDuration(items),
		})
	}
	return days, nil
}

// sessionOffset spreads a week's sessions across the seven calendar days.
func sessionOffset(sessionInWeek, sessionsPerWeek int) int {
	return sessionInWeek * daysPerWeek / sessionsPerWeek
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// estimateDuration sums working and resting time across the session's items.
func estimateDuration(items []PlanItem) int {
	total := 0
	for _, item := range items {
		p := item.Prescription
		work := 0
		switch {
		case p.DurationSeconds != nil:
			work = *p.DurationSeconds
		case p.Reps != nil:
			work = *p.Reps * secondsPerRep
		}
		total += p.Sets * (work + p.RestSeconds)
	}
	return total
}

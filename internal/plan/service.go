package plan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/myrjola/planfit/internal/sqlite"
)

// Service wires the plan generator to persistence. Generated plans are stored
// with their full day and item breakdown and can be fetched back later.
type Service struct {
	generator *Generator
	repo      *repository
	logger    *slog.Logger
}

// NewService creates a plan service backed by the given database and
// generator.
func NewService(db *sqlite.Database, generator *Generator, logger *slog.Logger) *Service {
	return &Service{
		generator: generator,
		repo:      newRepository(db, logger),
		logger:    logger,
	}
}

// GeneratePlan generates a plan for the profile and goal and persists it.
func (s *Service) GeneratePlan(ctx context.Context, profile UserProfile, goal Goal, notes string) (Plan, error) {
	plan, err := s.generator.Generate(ctx, profile, goal, notes)
	if err != nil {
		return Plan{}, fmt.Errorf("generate plan: %w", err)
	}
	plan.ID = uuid.NewString()

	if err = s.repo.create(ctx, plan); err != nil {
		return Plan{}, fmt.Errorf("persist plan: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "plan generated",
		slog.String("plan_id", plan.ID),
		slog.String("objective", string(plan.Objective)),
		slog.Int("days", len(plan.Days)))
	return plan, nil
}

// GetPlan loads a stored plan with all days and items.
func (s *Service) GetPlan(ctx context.Context, id string) (Plan, error) {
	plan, err := s.repo.get(ctx, id)
	if err != nil {
		return Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return plan, nil
}

// ListPlans returns stored plan headers, newest first.
func (s *Service) ListPlans(ctx context.Context) ([]Plan, error) {
	plans, err := s.repo.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// DeletePlan removes a stored plan.
func (s *Service) DeletePlan(ctx context.Context, id string) error {
	if err := s.repo.delete(ctx, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

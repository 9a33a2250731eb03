package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/planfit/internal/catalog"
	"github.com/myrjola/planfit/internal/errors"
	"github.com/myrjola/planfit/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"
const dateFormat = time.DateOnly

// ErrPlanNotFound is returned when a plan id does not exist.
var ErrPlanNotFound = errors.NewSentinel("plan not found")

// repository persists plans and their days and items.
type repository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// prescriptionDoc is the serialized form of a Prescription stored on each
// plan item row.
type prescriptionDoc struct {
	Sets            int             `json:"sets"`
	Reps            *int            `json:"reps,omitempty"`
	DurationSeconds *int            `json:"duration_seconds,omitempty"`
	WeightKg        float64         `json:"weight_kg"`
	RestSeconds     int             `json:"rest_seconds"`
	Intensity       string          `json:"intensity"`
	RPE             *float64        `json:"rpe,omitempty"`
	Progression     *progressionDoc `json:"progression,omitempty"`
}

type progressionDoc struct {
	BaseSets     int     `json:"base_sets"`
	BaseReps     int     `json:"base_reps"`
	BaseWeightKg float64 `json:"base_weight_kg"`
	WeightDelta  float64 `json:"weight_delta"`
}

func encodePrescription(p Prescription) (string, error) {
	doc := prescriptionDoc{
		Sets:            p.Sets,
		Reps:            p.Reps,
		DurationSeconds: p.DurationSeconds,
		WeightKg:        p.WeightKg,
		RestSeconds:     p.RestSeconds,
		Intensity:       p.Intensity,
		RPE:             p.RPE,
	}
	if p.Progression != nil {
		doc.Progression = &progressionDoc{
			BaseSets:     p.Progression.BaseSets,
			BaseReps:     p.Progression.BaseReps,
			BaseWeightKg: p.Progression.BaseWeightKg,
			WeightDelta:  p.Progression.WeightDelta,
		}
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal prescription: %w", err)
	}
	return string(encoded), nil
}

func decodePrescription(encoded string) (Prescription, error) {
	var doc prescriptionDoc
	if err := json.Unmarshal([]byte(encoded), &doc); err != nil {
		return Prescription{}, fmt.Errorf("unmarshal prescription: %w", err)
	}
	p := Prescription{
		Sets:            doc.Sets,
		Reps:            doc.Reps,
		DurationSeconds: doc.DurationSeconds,
		WeightKg:        doc.WeightKg,
		RestSeconds:     doc.RestSeconds,
		Intensity:       doc.Intensity,
		RPE:             doc.RPE,
	}
	if doc.Progression != nil {
		p.Progression = &ProgressionDetail{
			BaseSets:     doc.Progression.BaseSets,
			BaseReps:     doc.Progression.BaseReps,
			BaseWeightKg: doc.Progression.BaseWeightKg,
			WeightDelta:  doc.Progression.WeightDelta,
		}
	}
	return p, nil
}

// create stores a complete plan in one transaction.
func (r *repository) create(ctx context.Context, plan Plan) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (id, created_at, objective, fitness_level, sessions_per_week, total_weeks)
		VALUES (?, ?, ?, ?, ?, ?)`,
		plan.ID,
		plan.CreatedAt.UTC().Format(timestampFormat),
		string(plan.Objective),
		string(plan.FitnessLevel),
		plan.SessionsPerWeek,
		plan.TotalWeeks,
	)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}

	for _, day := range plan.Days {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO plan_days (plan_id, day_index, scheduled_date, session_name, total_duration_seconds)
			VALUES (?, ?, ?, ?, ?)`,
			plan.ID,
			day.DayIndex,
			day.Date.Format(dateFormat),
			day.SessionName,
			day.TotalDurationSeconds,
		)
		if err != nil {
			return fmt.Errorf("insert plan day %d: %w", day.DayIndex, err)
		}

		for _, item := range day.Items {
			var encoded string
			if encoded, err = encodePrescription(item.Prescription); err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO plan_items (plan_id, day_index, item_index, exercise_id, prescription, note)
				VALUES (?, ?, ?, ?, ?, ?)`,
				plan.ID,
				day.DayIndex,
				item.ItemIndex,
				item.Exercise.ID,
				encoded,
				item.Note,
			)
			if err != nil {
				return fmt.Errorf("insert plan item %d of day %d: %w", item.ItemIndex, day.DayIndex, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// get loads a full plan with its days and items.
func (r *repository) get(ctx context.Context, id string) (Plan, error) {
	plan, err := r.scanHeader(ctx, id)
	if err != nil {
		return Plan{}, err
	}

	days, err := r.fetchDays(ctx, id)
	if err != nil {
		return Plan{}, err
	}

	for i := range days {
		items, err := r.fetchItems(ctx, id, days[i].DayIndex)
		if err != nil {
			return Plan{}, err
		}
		days[i].Items = items
	}

	plan.Days = days
	return plan, nil
}

func (r *repository) scanHeader(ctx context.Context, id string) (Plan, error) {
	var (
		plan      Plan
		createdAt string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, created_at, objective, fitness_level, sessions_per_week, total_weeks
		FROM plans
		WHERE id = ?`, id).Scan(
		&plan.ID,
		&createdAt,
		&plan.Objective,
		&plan.FitnessLevel,
		&plan.SessionsPerWeek,
		&plan.TotalWeeks,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Plan{}, ErrPlanNotFound
	}
	if err != nil {
		return Plan{}, fmt.Errorf("query plan: %w", err)
	}
	if plan.CreatedAt, err = time.Parse(timestampFormat, createdAt); err != nil {
		return Plan{}, fmt.Errorf("parse plan timestamp: %w", err)
	}
	return plan, nil
}

func (r *repository) fetchDays(ctx context.Context, planID string) (_ []PlanDay, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT day_index, scheduled_date, session_name, total_duration_seconds
		FROM plan_days
		WHERE plan_id = ?
		ORDER BY day_index`, planID)
	if err != nil {
		return nil, fmt.Errorf("query plan days: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var days []PlanDay
	for rows.Next() {
		var (
			day  PlanDay
			date string
		)
		if err = rows.Scan(&day.DayIndex, &date, &day.SessionName, &day.TotalDurationSeconds); err != nil {
			return nil, fmt.Errorf("scan plan day: %w", err)
		}
		if day.Date, err = time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("parse plan day date: %w", err)
		}
		days = append(days, day)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return days, nil
}

func (r *repository) fetchItems(ctx context.Context, planID string, dayIndex int) (_ []PlanItem, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT i.item_index, i.prescription, i.note,
		       e.id, e.name, e.primary_muscle, e.secondary_muscles, e.equipment, e.body_part,
		       e.category, e.exercise_type, e.difficulty_level, e.instructions, e.safety_notes, e.tags
		FROM plan_items i
		JOIN exercises e ON e.id = i.exercise_id
		WHERE i.plan_id = ? AND i.day_index = ?
		ORDER BY i.item_index`, planID, dayIndex)
	if err != nil {
		return nil, fmt.Errorf("query plan items: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var items []PlanItem
	for rows.Next() {
		var (
			item             PlanItem
			encoded          string
			secondaryMuscles string
			tags             string
		)
		if err = rows.Scan(
			&item.ItemIndex,
			&encoded,
			&item.Note,
			&item.Exercise.ID,
			&item.Exercise.Name,
			&item.Exercise.PrimaryMuscle,
			&secondaryMuscles,
			&item.Exercise.Equipment,
			&item.Exercise.BodyPart,
			&item.Exercise.Category,
			&item.Exercise.Type,
			&item.Exercise.DifficultyLevel,
			&item.Exercise.Instructions,
			&item.Exercise.SafetyNotes,
			&tags,
		); err != nil {
			return nil, fmt.Errorf("scan plan item: %w", err)
		}
		item.Exercise.SecondaryMuscles = catalog.SplitList(secondaryMuscles)
		item.Exercise.Tags = catalog.SplitList(tags)
		if item.Prescription, err = decodePrescription(encoded); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

// list returns plan headers ordered newest first. Days are not loaded.
func (r *repository) list(ctx context.Context) (_ []Plan, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, created_at, objective, fitness_level, sessions_per_week, total_weeks
		FROM plans
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var plans []Plan
	for rows.Next() {
		var (
			plan      Plan
			createdAt string
		)
		if err = rows.Scan(
			&plan.ID,
			&createdAt,
			&plan.Objective,
			&plan.FitnessLevel,
			&plan.SessionsPerWeek,
			&plan.TotalWeeks,
		); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		if plan.CreatedAt, err = time.Parse(timestampFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parse plan timestamp: %w", err)
		}
		plans = append(plans, plan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return plans, nil
}

// delete removes a plan and its days and items.
func (r *repository) delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM plan_items WHERE plan_id = ?`, id); err != nil {
		return fmt.Errorf("delete plan items: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM plan_days WHERE plan_id = ?`, id); err != nil {
		return fmt.Errorf("delete plan days: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlanNotFound
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

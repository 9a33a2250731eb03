package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/myrjola/planfit/internal/sqlite"
)

// ErrNotFound is returned when an exercise does not exist or is soft-deleted.
var ErrNotFound = errors.New("exercise not found")

const timestampFormat = "2006-01-02T15:04:05.000Z"

// Repository handles database operations for the exercise catalog.
type Repository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// NewRepository creates a new SQLite-backed exercise catalog repository.
func NewRepository(db *sqlite.Database, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const exerciseColumns = `id, name, primary_muscle, secondary_muscles, equipment, body_part,
       category, exercise_type, difficulty_level, instructions, safety_notes, tags`

func scanExercise(scan func(dest ...any) error) (Exercise, error) {
	var (
		ex               Exercise
		secondaryMuscles string
		exerciseType     string
		tags             string
	)
	if err := scan(
		&ex.ID, &ex.Name, &ex.PrimaryMuscle, &secondaryMuscles, &ex.Equipment, &ex.BodyPart,
		&ex.Category, &exerciseType, &ex.DifficultyLevel, &ex.Instructions, &ex.SafetyNotes, &tags,
	); err != nil {
		return Exercise{}, fmt.Errorf("scan exercise: %w", err)
	}
	ex.Type = ExerciseType(exerciseType)
	ex.SecondaryMuscles = SplitList(secondaryMuscles)
	ex.Tags = SplitList(tags)
	return ex, nil
}

// SplitList parses a comma-separated list column into a slice, dropping empty entries.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func JoinList(parts []string) string {
	return strings.Join(parts, ",")
}

// Get retrieves a single exercise by id.
func (r *Repository) Get(ctx context.Context, id int) (Exercise, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises
		WHERE id = ? AND deleted_at IS NULL`, id)
	ex, err := scanExercise(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Exercise{}, fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Exercise{}, fmt.Errorf("query exercise: %w", err)
	}
	return ex, nil
}

// GetByIDs retrieves the exercises matching ids, excluding soft-deleted records.
//
// Missing ids are skipped silently and the result order is not guaranteed.
func (r *Repository) GetByIDs(ctx context.Context, ids []int) ([]Exercise, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	//nolint:gosec // placeholders contains only '?' characters.
	query := `
		SELECT ` + exerciseColumns + `
		FROM exercises
		WHERE id IN (` + placeholders + `) AND deleted_at IS NULL`
	rows, err := r.db.ReadOnly.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exercises by ids: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		ex, err := scanExercise(rows.Scan)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return exercises, nil
}

// List returns all exercises that are not soft-deleted, ordered by id.
func (r *Repository) List(ctx context.Context) ([]Exercise, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises
		WHERE deleted_at IS NULL
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		ex, err := scanExercise(rows.Scan)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return exercises, nil
}

// Create inserts a new exercise and returns it with its assigned id.
func (r *Repository) Create(ctx context.Context, ex Exercise) (Exercise, error) {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO exercises (name, primary_muscle, secondary_muscles, equipment, body_part,
		                       category, exercise_type, difficulty_level, instructions, safety_notes, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.Name, ex.PrimaryMuscle, JoinList(ex.SecondaryMuscles), ex.Equipment, ex.BodyPart,
		ex.Category, string(ex.Type), ex.DifficultyLevel, ex.Instructions, ex.SafetyNotes, JoinList(ex.Tags))
	if err != nil {
		return Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Exercise{}, fmt.Errorf("last insert id: %w", err)
	}
	ex.ID = int(id)
	return ex, nil
}

// Delete soft-deletes an exercise so that retrieval and lookups skip it.
func (r *Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE exercises SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC().Format(timestampFormat), id)
	if err != nil {
		return fmt.Errorf("soft-delete exercise: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	return nil
}

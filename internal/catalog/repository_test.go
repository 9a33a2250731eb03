package catalog_test

import (
	"testing"

	"github.com/myrjola/planfit/internal/catalog"
	"github.com/myrjola/planfit/internal/errors"
	"github.com/myrjola/planfit/internal/sqlite"
	"github.com/myrjola/planfit/internal/testhelpers"
)

func newTestRepository(t *testing.T) *catalog.Repository {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("Failed to close test database: %v", closeErr)
		}
	})
	return catalog.NewRepository(db, logger)
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.Create(t.Context(), catalog.Exercise{
		Name:             "Test Deficit Push-Up",
		PrimaryMuscle:    "chest",
		SecondaryMuscles: []string{"triceps", "shoulders"},
		Equipment:        "bodyweight",
		BodyPart:         "chest",
		Category:         "strength",
		Type:             catalog.TypeBodyweight,
		DifficultyLevel:  3,
		Instructions:     "Place your hands on low blocks and push up through a longer range.",
		SafetyNotes:      "Stop if your shoulders pinch.",
		Tags:             []string{"home"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create did not assign an id")
	}

	got, err := repo.Get(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != created.Name {
		t.Errorf("name = %q, want %q", got.Name, created.Name)
	}
	if len(got.SecondaryMuscles) != 2 || got.SecondaryMuscles[0] != "triceps" {
		t.Errorf("secondary muscles = %v, want [triceps shoulders]", got.SecondaryMuscles)
	}
	if got.Type != catalog.TypeBodyweight {
		t.Errorf("type = %s, want bodyweight", got.Type)
	}
}

func TestRepository_ListIncludesSeedCatalog(t *testing.T) {
	repo := newTestRepository(t)

	exercises, err := repo.List(t.Context())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(exercises) == 0 {
		t.Fatal("seed catalog is empty")
	}

	found := false
	for _, ex := range exercises {
		if ex.Name == "Bodyweight Squat" {
			found = true
			if ex.PrimaryMuscle != "quadriceps" {
				t.Errorf("seed squat primary muscle = %q, want quadriceps", ex.PrimaryMuscle)
			}
		}
	}
	if !found {
		t.Error("seed catalog is missing the bodyweight squat")
	}
}

func TestRepository_GetByIDs(t *testing.T) {
	repo := newTestRepository(t)

	exercises, err := repo.List(t.Context())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(exercises) < 3 {
		t.Fatalf("need at least 3 seed exercises, got %d", len(exercises))
	}

	ids := []int{exercises[0].ID, exercises[2].ID}
	got, err := repo.GetByIDs(t.Context(), ids)
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d exercises, want 2", len(got))
	}

	if got, err = repo.GetByIDs(t.Context(), nil); err != nil {
		t.Fatalf("GetByIDs with no ids: %v", err)
	} else if len(got) != 0 {
		t.Errorf("got %d exercises for empty ids, want 0", len(got))
	}
}

func TestRepository_DeleteIsSoft(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.Create(t.Context(), catalog.Exercise{
		Name:            "Test Doomed Exercise",
		PrimaryMuscle:   "chest",
		Equipment:       "bodyweight",
		BodyPart:        "chest",
		Category:        "strength",
		Type:            catalog.TypeBodyweight,
		DifficultyLevel: 2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err = repo.Delete(t.Context(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err = repo.Get(t.Context(), created.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}

	got, err := repo.GetByIDs(t.Context(), []int{created.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 0 {
		t.Error("soft-deleted exercise still returned by GetByIDs")
	}
}

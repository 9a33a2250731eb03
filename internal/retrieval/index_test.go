package retrieval_test

import (
	"context"
	"strings"
	"testing"

	"github.com/myrjola/planfit/internal/catalog"
	"github.com/myrjola/planfit/internal/retrieval"
	"github.com/myrjola/planfit/internal/sqlite"
	"github.com/myrjola/planfit/internal/testhelpers"
)

// keywordEmbedder maps texts to fixed orthogonal vectors so similarities are
// exactly 1 for matching keywords and 0 otherwise.
type keywordEmbedder struct{}

func (keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	switch {
	case strings.Contains(text, "squat"):
		return []float32{1, 0, 0}, nil
	case strings.Contains(text, "press"):
		return []float32{0, 1, 0}, nil
	default:
		return []float32{0, 0, 1}, nil
	}
}

func newTestIndex(t *testing.T) (*retrieval.Index, *catalog.Repository) {
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
	return retrieval.NewIndex(db, keywordEmbedder{}, logger), catalog.NewRepository(db, logger)
}

func createExercise(t *testing.T, repo *catalog.Repository, name string) catalog.Exercise {
	t.Helper()
	ex, err := repo.Create(t.Context(), catalog.Exercise{
		Name:            name,
		PrimaryMuscle:   "quadriceps",
		Equipment:       "bodyweight",
		BodyPart:        "legs",
		Category:        "strength",
		Type:            catalog.TypeBodyweight,
		DifficultyLevel: 2,
	})
	if err != nil {
		t.Fatalf("Create %s: %v", name, err)
	}
	return ex
}

func TestIndex_SearchRanksBySimilarity(t *testing.T) {
	index, repo := newTestIndex(t)

	squat := createExercise(t, repo, "Test Tempo Squat")
	press := createExercise(t, repo, "Test Strict Press")

	if err := index.SetEmbedding(t.Context(), squat.ID, "squat pattern knee dominant"); err != nil {
		t.Fatalf("SetEmbedding squat: %v", err)
	}
	if err := index.SetEmbedding(t.Context(), press.ID, "press pattern overhead"); err != nil {
		t.Fatalf("SetEmbedding press: %v", err)
	}

	hits, err := index.Search(t.Context(), "squat strength lower body", 10, 0.3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1 (orthogonal press filtered by threshold)", len(hits))
	}
	if hits[0].ExerciseID != squat.ID {
		t.Errorf("hit = exercise %d, want %d", hits[0].ExerciseID, squat.ID)
	}
	if hits[0].Similarity < 0.99 {
		t.Errorf("similarity = %.3f, want ~1.0", hits[0].Similarity)
	}
}

func TestIndex_SearchExcludesDeleted(t *testing.T) {
	index, repo := newTestIndex(t)

	squat := createExercise(t, repo, "Test Vanishing Squat")
	if err := index.SetEmbedding(t.Context(), squat.ID, "squat pattern"); err != nil {
		t.Fatalf("SetEmbedding: %v", err)
	}
	if err := repo.Delete(t.Context(), squat.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	hits, err := index.Search(t.Context(), "squat", 10, 0.3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0 for a deleted exercise", len(hits))
	}
}

func TestIndex_SearchHonorsK(t *testing.T) {
	index, repo := newTestIndex(t)

	for _, name := range []string{"Test Squat A", "Test Squat B", "Test Squat C"} {
		ex := createExercise(t, repo, name)
		if err := index.SetEmbedding(t.Context(), ex.ID, "squat "+name); err != nil {
			t.Fatalf("SetEmbedding %s: %v", name, err)
		}
	}

	hits, err := index.Search(t.Context(), "squat", 2, 0.3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("got %d hits, want k=2", len(hits))
	}

	if hits, err = index.Search(t.Context(), "squat", 0, 0.3); err != nil {
		t.Fatalf("Search with k=0: %v", err)
	} else if len(hits) != 0 {
		t.Errorf("got %d hits for k=0, want 0", len(hits))
	}
}

func TestIndex_MissingEmbeddings(t *testing.T) {
	index, repo := newTestIndex(t)

	ex := createExercise(t, repo, "Test Unembedded Squat")

	missing, err := index.MissingEmbeddings(t.Context())
	if err != nil {
		t.Fatalf("MissingEmbeddings: %v", err)
	}
	found := false
	for _, id := range missing {
		if id == ex.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("newly created exercise should be missing an embedding")
	}

	if err = index.SetEmbedding(t.Context(), ex.ID, "squat"); err != nil {
		t.Fatalf("SetEmbedding: %v", err)
	}
	if missing, err = index.MissingEmbeddings(t.Context()); err != nil {
		t.Fatalf("MissingEmbeddings after set: %v", err)
	}
	for _, id := range missing {
		if id == ex.ID {
			t.Error("exercise still reported missing after SetEmbedding")
		}
	}
}

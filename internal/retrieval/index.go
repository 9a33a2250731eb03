package retrieval

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/myrjola/planfit/internal/sqlite"
)

// Index is a SQLite-backed vector index over exercise embeddings.
//
// Embeddings are stored as little-endian float32 blobs in the
// exercise_embeddings table and compared in-process. The catalog is small
// enough (hundreds of exercises) that a linear scan beats maintaining an ANN
// structure.
type Index struct {
	db       *sqlite.Database
	embedder Embedder
	logger   *slog.Logger
}

// NewIndex creates a vector index over the exercise catalog.
func NewIndex(db *sqlite.Database, embedder Embedder, logger *slog.Logger) *Index {
	return &Index{
		db:       db,
		embedder: embedder,
		logger:   logger,
	}
}

// Search implements Searcher.
func (idx *Index) Search(ctx context.Context, query string, k int, threshold float64) ([]Hit, error) {
	if k <= 0 {
		return nil, nil
	}

	queryVector, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := idx.db.ReadOnly.QueryContext(ctx, `
		SELECT ee.exercise_id, ee.embedding
		FROM exercise_embeddings ee
		JOIN exercises e ON e.id = ee.exercise_id
		WHERE e.deleted_at IS NULL AND ee.model = ?`, string(EmbeddingModel))
	if err != nil {
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			exerciseID int
			blob       []byte
		)
		if err = rows.Scan(&exerciseID, &blob); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}

		vector, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("decode embedding for exercise %d: %w", exerciseID, err)
		}

		similarity := cosineSimilarity(queryVector, vector)
		if similarity > threshold {
			hits = append(hits, Hit{ExerciseID: exerciseID, Similarity: similarity})
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ExerciseID < hits[j].ExerciseID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// SetEmbedding computes and stores the embedding for an exercise document.
func (idx *Index) SetEmbedding(ctx context.Context, exerciseID int, document string) error {
	vector, err := idx.embedder.Embed(ctx, document)
	if err != nil {
		return fmt.Errorf("embed document: %w", err)
	}

	if _, err = idx.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO exercise_embeddings (exercise_id, model, embedding)
		VALUES (?, ?, ?)
		ON CONFLICT (exercise_id) DO UPDATE SET
			model = excluded.model,
			embedding = excluded.embedding`,
		exerciseID, string(EmbeddingModel), encodeVector(vector)); err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}
	return nil
}

// MissingEmbeddings lists exercise ids that have no embedding for the current model.
func (idx *Index) MissingEmbeddings(ctx context.Context) ([]int, error) {
	rows, err := idx.db.ReadOnly.QueryContext(ctx, `
		SELECT e.id
		FROM exercises e
		LEFT JOIN exercise_embeddings ee ON ee.exercise_id = e.id AND ee.model = ?
		WHERE e.deleted_at IS NULL AND ee.exercise_id IS NULL
		ORDER BY e.id`, string(EmbeddingModel))
	if err != nil {
		return nil, fmt.Errorf("query missing embeddings: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan exercise id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return ids, nil
}

func encodeVector(vector []float32) []byte {
	blob := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[4*i:], math.Float32bits(v))
	}
	return blob
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vector, nil
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector is zero or the dimensions differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

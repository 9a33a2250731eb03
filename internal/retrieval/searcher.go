// Package retrieval implements semantic exercise retrieval: free-text queries
// are embedded and matched against stored exercise embeddings by cosine
// similarity.
package retrieval

import "context"

// Hit is a single retrieval result.
type Hit struct {
	ExerciseID int
	Similarity float64
}

// Searcher finds exercises matching a free-text query.
//
// Results are ordered by descending similarity and filtered to
// similarity > threshold before being returned.
type Searcher interface {
	Search(ctx context.Context, query string, k int, threshold float64) ([]Hit, error)
}

package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/myrjola/planfit/internal/sqlite"
)

// KeywordSearcher is a deterministic fallback Searcher for deployments
// without an embeddings backend. It scores exercises by term overlap between
// the query and the exercise's catalog text.
type KeywordSearcher struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewKeywordSearcher(db *sqlite.Database, logger *slog.Logger) *KeywordSearcher {
	return &KeywordSearcher{
		db:     db,
		logger: logger,
	}
}

// Search implements Searcher. Similarity is the fraction of distinct query
// terms found in the exercise's name, muscles, equipment, category, and tags.
func (s *KeywordSearcher) Search(ctx context.Context, query string, k int, threshold float64) (_ []Hit, err error) {
	if k <= 0 {
		return nil, nil
	}

	terms := distinctTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	rows, err := s.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, primary_muscle, secondary_muscles, equipment, body_part, category, exercise_type, tags
		FROM exercises
		WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var hits []Hit
	for rows.Next() {
		var (
			id     int
			fields [8]string
		)
		if err = rows.Scan(&id, &fields[0], &fields[1], &fields[2], &fields[3], &fields[4], &fields[5], &fields[6], &fields[7]); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}

		document := strings.ToLower(strings.Join(fields[:], " "))
		matched := 0
		for term := range terms {
			if strings.Contains(document, term) {
				matched++
			}
		}

		similarity := float64(matched) / float64(len(terms))
		if similarity > threshold {
			hits = append(hits, Hit{ExerciseID: id, Similarity: similarity})
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

func distinctTerms(query string) map[string]bool {
	terms := make(map[string]bool)
	for _, term := range strings.Fields(strings.ToLower(query)) {
		terms[term] = true
	}
	return terms
}

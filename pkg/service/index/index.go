package index

import (
	"context"
	"math"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

// ScoredNote pairs a note with its similarity to a query vector
type ScoredNote struct {
	Note  *model.Note
	Score float64
}

// Index ranks stored notes against a query embedding by cosine similarity.
// It scans the whole store on every query, which is the intended behavior
// for the in-memory backend and for modest Firestore collections.
type Index struct {
	notes interfaces.NoteRepository
}

// New creates a similarity index over the given note repository
func New(notes interfaces.NoteRepository) *Index {
	return &Index{notes: notes}
}

// FindNearest returns up to limit notes ordered by descending cosine
// similarity to the query embedding. Ties are broken by recency so that
// equally similar notes surface the newest first. Notes without an
// embedding score zero rather than being excluded.
func (x *Index) FindNearest(ctx context.Context, embedding []float32, limit int) ([]*ScoredNote, error) {
	if limit < 1 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}
	if len(embedding) == 0 {
		return nil, goerr.New("query embedding is empty")
	}

	all, err := x.notes.ListAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notes")
	}

	scored := make([]*ScoredNote, 0, len(all))
	for _, n := range all {
		scored = append(scored, &ScoredNote{
			Note:  n,
			Score: CosineSimilarity(embedding, n.Embedding),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Note.CreatedAt.After(scored[j].Note.CreatedAt)
	})

	if limit > len(scored) {
		limit = len(scored)
	}

	return scored[:limit], nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths and zero-magnitude vectors score zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}

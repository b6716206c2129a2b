package index_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"github.com/secmon-lab/mnemon/pkg/repository/memory"
	"github.com/secmon-lab/mnemon/pkg/service/index"
)

func insertNote(t *testing.T, repo *memory.Memory, embedding []float32, createdAt time.Time) *model.Note {
	t.Helper()
	note := &model.Note{
		ID:             model.NewNoteID(),
		Content:        "content",
		Embedding:      embedding,
		CreatedAt:      createdAt,
		Importance:     1.0,
		LastAccessedAt: createdAt,
	}
	gt.NoError(t, repo.Note().Insert(context.Background(), note)).Required()
	return note
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		s := index.CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3})
		gt.Number(t, s).Greater(0.999)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		s := index.CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		gt.Value(t, s).Equal(0.0)
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		s := index.CosineSimilarity([]float32{1, 0}, []float32{-1, 0})
		gt.Number(t, s).Less(-0.999)
	})

	t.Run("zero magnitude scores 0, not NaN", func(t *testing.T) {
		s := index.CosineSimilarity([]float32{0, 0}, []float32{1, 2})
		gt.Value(t, s).Equal(0.0)
	})

	t.Run("mismatched lengths score 0", func(t *testing.T) {
		s := index.CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		gt.Value(t, s).Equal(0.0)
	})
}

func TestIndex_FindNearest(t *testing.T) {
	t.Run("orders by descending similarity", func(t *testing.T) {
		repo := memory.New()
		now := time.Now()

		far := insertNote(t, repo, []float32{0, 1, 0}, now)
		near := insertNote(t, repo, []float32{1, 0.1, 0}, now)
		exact := insertNote(t, repo, []float32{1, 0, 0}, now)

		x := index.New(repo.Note())
		scored, err := x.FindNearest(context.Background(), []float32{1, 0, 0}, 3)
		gt.NoError(t, err).Required()
		gt.Array(t, scored).Length(3).Required()

		gt.Value(t, scored[0].Note.ID).Equal(exact.ID)
		gt.Value(t, scored[1].Note.ID).Equal(near.ID)
		gt.Value(t, scored[2].Note.ID).Equal(far.ID)
	})

	t.Run("ties broken by most recent note", func(t *testing.T) {
		repo := memory.New()
		base := time.Now()

		older := insertNote(t, repo, []float32{1, 0}, base.Add(-time.Hour))
		newer := insertNote(t, repo, []float32{1, 0}, base)

		x := index.New(repo.Note())
		scored, err := x.FindNearest(context.Background(), []float32{1, 0}, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, scored).Length(2).Required()

		gt.Value(t, scored[0].Note.ID).Equal(newer.ID)
		gt.Value(t, scored[1].Note.ID).Equal(older.ID)
	})

	t.Run("limit caps the result set", func(t *testing.T) {
		repo := memory.New()
		now := time.Now()
		for i := 0; i < 5; i++ {
			insertNote(t, repo, []float32{1, 0}, now)
		}

		x := index.New(repo.Note())
		scored, err := x.FindNearest(context.Background(), []float32{1, 0}, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, scored).Length(2)
	})

	t.Run("empty store yields empty result", func(t *testing.T) {
		repo := memory.New()
		x := index.New(repo.Note())

		scored, err := x.FindNearest(context.Background(), []float32{1, 0}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, scored).Length(0)
	})

	t.Run("notes without embedding score zero but are included", func(t *testing.T) {
		repo := memory.New()
		now := time.Now()

		empty := insertNote(t, repo, nil, now)
		matched := insertNote(t, repo, []float32{1, 0}, now)

		x := index.New(repo.Note())
		scored, err := x.FindNearest(context.Background(), []float32{1, 0}, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, scored).Length(2).Required()

		gt.Value(t, scored[0].Note.ID).Equal(matched.ID)
		gt.Value(t, scored[1].Note.ID).Equal(empty.ID)
		gt.Value(t, scored[1].Score).Equal(0.0)
	})

	t.Run("rejects non-positive limit", func(t *testing.T) {
		repo := memory.New()
		x := index.New(repo.Note())

		_, err := x.FindNearest(context.Background(), []float32{1, 0}, 0)
		gt.Value(t, err).NotNil()
	})
}

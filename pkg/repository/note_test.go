package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemon/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"github.com/secmon-lab/mnemon/pkg/repository/firestore"
	"github.com/secmon-lab/mnemon/pkg/repository/memory"
)

func newTestNote() *model.Note {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Note{
		ID:             model.NewNoteID(),
		ConversationID: "conv-1",
		Content:        "The deployment pipeline broke after the runner upgrade",
		Context:        "CI pipeline failure caused by a runner upgrade",
		Keywords:       []string{"deployment", "pipeline", "runner"},
		Tags:           []string{"infrastructure"},
		Embedding:      []float32{0.1, 0.2, 0.3},
		CreatedAt:      now,
		Importance:     1.0,
		AccessCount:    0,
		LastAccessedAt: now,
		Evolved:        false,
	}
}

func runNoteRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Insert and Get round-trips a note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		note := newTestNote()
		gt.NoError(t, repo.Note().Insert(ctx, note)).Required()

		retrieved, err := repo.Note().Get(ctx, note.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, retrieved.ID).Equal(note.ID)
		gt.Value(t, retrieved.ConversationID).Equal(note.ConversationID)
		gt.Value(t, retrieved.Content).Equal(note.Content)
		gt.Value(t, retrieved.Context).Equal(note.Context)
		gt.Array(t, retrieved.Keywords).Equal(note.Keywords)
		gt.Array(t, retrieved.Tags).Equal(note.Tags)
		gt.Array(t, retrieved.Embedding).Length(len(note.Embedding))
		gt.Value(t, retrieved.Importance).Equal(1.0)
		gt.Value(t, retrieved.AccessCount).Equal(int64(0))
		gt.Value(t, retrieved.Evolved).Equal(false)
	})

	t.Run("Insert rejects duplicate ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		note := newTestNote()
		gt.NoError(t, repo.Note().Insert(ctx, note)).Required()

		err := repo.Note().Insert(ctx, note)
		gt.Value(t, err).NotNil()
	})

	t.Run("Get returns error for non-existent note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Note().Get(ctx, model.NewNoteID())
		gt.Value(t, err).NotNil()
	})

	t.Run("GetMulti skips dangling IDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		note1 := newTestNote()
		note2 := newTestNote()
		gt.NoError(t, repo.Note().Insert(ctx, note1)).Required()
		gt.NoError(t, repo.Note().Insert(ctx, note2)).Required()

		notes, err := repo.Note().GetMulti(ctx, []model.NoteID{note1.ID, model.NewNoteID(), note2.ID})
		gt.NoError(t, err).Required()
		gt.Array(t, notes).Length(2)
	})

	t.Run("ListAll returns every note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Note().Insert(ctx, newTestNote())).Required()
		gt.NoError(t, repo.Note().Insert(ctx, newTestNote())).Required()
		gt.NoError(t, repo.Note().Insert(ctx, newTestNote())).Required()

		notes, err := repo.Note().ListAll(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, notes).Length(3)
	})

	t.Run("Update applies partial fields only", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		note := newTestNote()
		gt.NoError(t, repo.Note().Insert(ctx, note)).Required()

		newContext := "CI pipeline failure, later traced to an incompatible runner image"
		evolved := true
		err := repo.Note().Update(ctx, note.ID, &model.NoteUpdate{
			Context: &newContext,
			Tags:    []string{"infrastructure", "ci"},
			Evolved: &evolved,
		})
		gt.NoError(t, err).Required()

		updated, err := repo.Note().Get(ctx, note.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, updated.Context).Equal(newContext)
		gt.Array(t, updated.Tags).Equal([]string{"infrastructure", "ci"})
		gt.Value(t, updated.Evolved).Equal(true)

		// Untouched fields keep their stored values
		gt.Value(t, updated.Content).Equal(note.Content)
		gt.Array(t, updated.Keywords).Equal(note.Keywords)
		gt.Value(t, updated.Importance).Equal(note.Importance)
	})

	t.Run("Update appends links without replacing", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		note := newTestNote()
		gt.NoError(t, repo.Note().Insert(ctx, note)).Required()

		first := model.NewNoteID()
		second := model.NewNoteID()

		gt.NoError(t, repo.Note().Update(ctx, note.ID, &model.NoteUpdate{
			AppendLinks: []model.NoteID{first},
		})).Required()
		gt.NoError(t, repo.Note().Update(ctx, note.ID, &model.NoteUpdate{
			AppendLinks: []model.NoteID{second},
		})).Required()

		updated, err := repo.Note().Get(ctx, note.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, updated.LinkedIDs).Equal([]model.NoteID{first, second})
	})

	t.Run("Update of access stats persists", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		note := newTestNote()
		gt.NoError(t, repo.Note().Insert(ctx, note)).Required()

		accessCount := int64(5)
		accessedAt := time.Now().UTC().Truncate(time.Millisecond).Add(time.Hour)
		gt.NoError(t, repo.Note().Update(ctx, note.ID, &model.NoteUpdate{
			AccessCount:    &accessCount,
			LastAccessedAt: &accessedAt,
		})).Required()

		updated, err := repo.Note().Get(ctx, note.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.AccessCount).Equal(int64(5))
		gt.Bool(t, updated.LastAccessedAt.Equal(accessedAt)).True()
	})

	t.Run("Update returns error for non-existent note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		importance := 0.5
		err := repo.Note().Update(ctx, model.NewNoteID(), &model.NoteUpdate{
			Importance: &importance,
		})
		gt.Value(t, err).NotNil()
	})
}

func TestNoteRepository_Memory(t *testing.T) {
	runNoteRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestNoteRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runNoteRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "",
			firestore.WithCollectionPrefix("test-"+time.Now().Format("20060102150405")+"-"))
		gt.NoError(t, err).Required()
		return repo
	})
}

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

func runEvolutionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Insert and ListByNote round-trips a record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		noteID := model.NewNoteID()
		record := &model.EvolutionRecord{
			ID:         model.NewEvolutionRecordID(),
			NoteID:     noteID,
			OldContext: "CI pipeline failure",
			NewContext: "CI pipeline failure caused by a runner image upgrade",
			OldTags:    []string{"infrastructure"},
			NewTags:    []string{"infrastructure", "ci"},
			Reason:     "new memory identified the root cause",
			CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
		}
		gt.NoError(t, repo.Evolution().Insert(ctx, record)).Required()

		records, err := repo.Evolution().ListByNote(ctx, noteID)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1).Required()

		gt.Value(t, records[0].ID).Equal(record.ID)
		gt.Value(t, records[0].NoteID).Equal(noteID)
		gt.Value(t, records[0].OldContext).Equal(record.OldContext)
		gt.Value(t, records[0].NewContext).Equal(record.NewContext)
		gt.Array(t, records[0].OldTags).Equal(record.OldTags)
		gt.Array(t, records[0].NewTags).Equal(record.NewTags)
		gt.Value(t, records[0].Reason).Equal(record.Reason)
	})

	t.Run("ListByNote returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		noteID := model.NewNoteID()
		base := time.Now().UTC().Truncate(time.Millisecond)

		older := &model.EvolutionRecord{
			ID:         model.NewEvolutionRecordID(),
			NoteID:     noteID,
			NewContext: "first rewrite",
			CreatedAt:  base.Add(-time.Hour),
		}
		newer := &model.EvolutionRecord{
			ID:         model.NewEvolutionRecordID(),
			NoteID:     noteID,
			NewContext: "second rewrite",
			CreatedAt:  base,
		}
		gt.NoError(t, repo.Evolution().Insert(ctx, older)).Required()
		gt.NoError(t, repo.Evolution().Insert(ctx, newer)).Required()

		records, err := repo.Evolution().ListByNote(ctx, noteID)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2).Required()

		gt.Value(t, records[0].ID).Equal(newer.ID)
		gt.Value(t, records[1].ID).Equal(older.ID)
	})

	t.Run("ListByNote filters by note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		noteID := model.NewNoteID()
		gt.NoError(t, repo.Evolution().Insert(ctx, &model.EvolutionRecord{
			ID:        model.NewEvolutionRecordID(),
			NoteID:    noteID,
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		})).Required()
		gt.NoError(t, repo.Evolution().Insert(ctx, &model.EvolutionRecord{
			ID:        model.NewEvolutionRecordID(),
			NoteID:    model.NewNoteID(),
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		})).Required()

		records, err := repo.Evolution().ListByNote(ctx, noteID)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1)
	})
}

func TestEvolutionRepository_Memory(t *testing.T) {
	runEvolutionRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestEvolutionRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runEvolutionRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "",
			firestore.WithCollectionPrefix("test-"+time.Now().Format("20060102150405")+"-"))
		gt.NoError(t, err).Required()
		return repo
	})
}

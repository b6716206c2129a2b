package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemon/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"github.com/secmon-lab/mnemon/pkg/domain/types"
	"github.com/secmon-lab/mnemon/pkg/repository/firestore"
	"github.com/secmon-lab/mnemon/pkg/repository/memory"
)

func runLinkRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Insert and ListBySource round-trips a link", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		source := model.NewNoteID()
		target := model.NewNoteID()
		link := &model.Link{
			Source:    source,
			Target:    target,
			Strength:  model.DefaultLinkStrength,
			Type:      types.LinkTypeSemantic,
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		}
		gt.NoError(t, repo.Link().Insert(ctx, link)).Required()

		links, err := repo.Link().ListBySource(ctx, source)
		gt.NoError(t, err).Required()
		gt.Array(t, links).Length(1).Required()

		gt.Value(t, links[0].Source).Equal(source)
		gt.Value(t, links[0].Target).Equal(target)
		gt.Value(t, links[0].Strength).Equal(model.DefaultLinkStrength)
		gt.Value(t, links[0].Type).Equal(types.LinkTypeSemantic)
	})

	t.Run("Insert replaces existing pair (last write wins)", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		source := model.NewNoteID()
		target := model.NewNoteID()

		gt.NoError(t, repo.Link().Insert(ctx, &model.Link{
			Source:    source,
			Target:    target,
			Strength:  model.DefaultLinkStrength,
			Type:      types.LinkTypeSemantic,
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		})).Required()

		gt.NoError(t, repo.Link().Insert(ctx, &model.Link{
			Source:    source,
			Target:    target,
			Strength:  0.9,
			Type:      types.LinkTypeEvolved,
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		})).Required()

		links, err := repo.Link().ListBySource(ctx, source)
		gt.NoError(t, err).Required()
		gt.Array(t, links).Length(1).Required()

		gt.Value(t, links[0].Strength).Equal(0.9)
		gt.Value(t, links[0].Type).Equal(types.LinkTypeEvolved)
	})

	t.Run("Insert rejects invalid link type", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Link().Insert(ctx, &model.Link{
			Source:    model.NewNoteID(),
			Target:    model.NewNoteID(),
			Strength:  0.5,
			Type:      types.LinkType("unknown"),
			CreatedAt: time.Now(),
		})
		gt.Value(t, err).NotNil()
	})

	t.Run("ListBySource filters by source", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		source := model.NewNoteID()
		other := model.NewNoteID()

		for _, s := range []model.NoteID{source, source, other} {
			gt.NoError(t, repo.Link().Insert(ctx, &model.Link{
				Source:    s,
				Target:    model.NewNoteID(),
				Strength:  model.DefaultLinkStrength,
				Type:      types.LinkTypeSemantic,
				CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
			})).Required()
		}

		links, err := repo.Link().ListBySource(ctx, source)
		gt.NoError(t, err).Required()
		gt.Array(t, links).Length(2)

		all, err := repo.Link().ListAll(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(3)
	})
}

func TestLinkRepository_Memory(t *testing.T) {
	runLinkRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestLinkRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runLinkRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "",
			firestore.WithCollectionPrefix("test-"+time.Now().Format("20060102150405")+"-"))
		gt.NoError(t, err).Required()
		return repo
	})
}

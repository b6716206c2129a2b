package usecase

import (
	"context"

	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"github.com/secmon-lab/mnemon/pkg/domain/types"
	"github.com/secmon-lab/mnemon/pkg/service/index"
	"github.com/secmon-lab/mnemon/pkg/utils/logging"
)

// evolveRelated rewrites stored notes whose understanding changes in light of
// the new note. Every failure is isolated to its note: one broken evolution
// never aborts the rest, and AddMemory proceeds regardless.
func (uc *UseCases) evolveRelated(ctx context.Context, newNote *model.Note, relatedIDs []model.NoteID) {
	if uc.evolutionJudge == nil || len(relatedIDs) == 0 {
		return
	}

	logger := logging.From(ctx)

	for _, id := range relatedIDs {
		if err := uc.evolveOne(ctx, newNote, id); err != nil {
			logger.Warn("evolution failed, note kept as is",
				"note_id", id,
				"error", err.Error())
		}
	}
}

func (uc *UseCases) evolveOne(ctx context.Context, newNote *model.Note, relatedID model.NoteID) error {
	related, err := uc.repo.Note().Get(ctx, relatedID)
	if err != nil {
		return err
	}

	// The stored embedding may be stale relative to an evolved context;
	// similarity is still measured against it
	similarity := index.CosineSimilarity(newNote.Embedding, related.Embedding)
	if similarity < uc.engineCfg.EvolutionThreshold {
		return nil
	}

	judgment, err := uc.evolutionJudge.JudgeEvolution(ctx, newNote, related)
	if err != nil {
		return err
	}
	if !judgment.ShouldEvolve {
		return nil
	}

	record := &model.EvolutionRecord{
		ID:         model.NewEvolutionRecordID(),
		NoteID:     related.ID,
		OldContext: related.Context,
		NewContext: judgment.Context,
		OldTags:    related.Tags,
		NewTags:    judgment.Tags,
		Reason:     judgment.Reason,
		CreatedAt:  uc.now(),
	}
	if err := uc.repo.Evolution().Insert(ctx, record); err != nil {
		return err
	}

	evolved := true
	update := &model.NoteUpdate{
		Context: &judgment.Context,
		Tags:    judgment.Tags,
		Evolved: &evolved,
	}
	if err := uc.repo.Note().Update(ctx, related.ID, update); err != nil {
		return err
	}

	link := &model.Link{
		Source:    newNote.ID,
		Target:    related.ID,
		Strength:  similarity,
		Type:      types.LinkTypeEvolved,
		CreatedAt: uc.now(),
	}
	if err := uc.repo.Link().Insert(ctx, link); err != nil {
		return err
	}
	appendLinkedID(newNote, related.ID)

	return nil
}

package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"github.com/secmon-lab/mnemon/pkg/domain/types"
	"github.com/secmon-lab/mnemon/pkg/utils/logging"
)

// generateLinks selects existing notes the new note should be linked to and
// persists a semantic link per accepted candidate. LLM failures degrade to
// no links; store failures are returned because a lost write would leave the
// graph silently inconsistent.
func (uc *UseCases) generateLinks(ctx context.Context, note *model.Note) ([]model.NoteID, error) {
	if uc.linkJudge == nil {
		return nil, nil
	}

	scored, err := uc.index.FindNearest(ctx, note.Embedding, uc.engineCfg.TopK)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search link candidates")
	}

	// Empty store: no candidates, so no LLM call either
	if len(scored) == 0 {
		return nil, nil
	}

	candidates := make([]*model.Note, len(scored))
	for i, s := range scored {
		candidates[i] = s.Note
	}

	judgment, err := uc.linkJudge.JudgeLinks(ctx, note, candidates)
	if err != nil {
		logging.From(ctx).Warn("link judgment failed, note stays unlinked",
			"note_id", note.ID,
			"error", err.Error())
		return nil, nil
	}

	for _, targetID := range judgment.TargetIDs {
		link := &model.Link{
			Source:    note.ID,
			Target:    targetID,
			Strength:  model.DefaultLinkStrength,
			Type:      types.LinkTypeSemantic,
			CreatedAt: uc.now(),
		}
		if err := uc.repo.Link().Insert(ctx, link); err != nil {
			return nil, goerr.Wrap(err, "failed to insert semantic link",
				goerr.V("source", note.ID),
				goerr.V("target", targetID),
			)
		}
		appendLinkedID(note, targetID)
	}

	return judgment.TargetIDs, nil
}

package usecase

import (
	"context"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

// ApplyForgettingCurve decays the importance of every note by
// decayRate^daysSinceLastAccess. Notes accessed within the last day keep
// their importance and are not rewritten. Decay never increases importance;
// only retrieval resets the clock by touching lastAccessed.
func (uc *UseCases) ApplyForgettingCurve(ctx context.Context) (*model.DecaySummary, error) {
	notes, err := uc.repo.Note().ListAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notes")
	}

	now := uc.now()
	summary := &model.DecaySummary{Scanned: len(notes)}

	for _, note := range notes {
		days := int(now.Sub(note.LastAccessedAt).Hours() / 24)
		if days <= 0 {
			continue
		}

		decayed := note.Importance * math.Pow(uc.engineCfg.DecayRate, float64(days))
		if decayed == note.Importance {
			continue
		}

		update := &model.NoteUpdate{Importance: &decayed}
		if err := uc.repo.Note().Update(ctx, note.ID, update); err != nil {
			return nil, goerr.Wrap(err, "failed to persist decayed importance",
				goerr.V("note_id", note.ID))
		}
		summary.Updated++
	}

	return summary, nil
}

package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

// EvolutionHistory returns the audit records of a note, newest first
func (uc *UseCases) EvolutionHistory(ctx context.Context, noteID model.NoteID) ([]*model.EvolutionRecord, error) {
	if noteID == "" {
		return nil, goerr.New("note id is required")
	}

	records, err := uc.repo.Evolution().ListByNote(ctx, noteID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list evolution records", goerr.V("note_id", noteID))
	}

	return records, nil
}

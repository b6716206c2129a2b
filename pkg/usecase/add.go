package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

// AddMemory ingests raw content as a new note: construct, link against
// existing notes, evolve highly related ones, then persist the note itself.
// The note's own insert happens last so the similarity index never sees a
// half-linked note. Callers are expected to serialize AddMemory per store;
// concurrent calls may link against a snapshot missing each other's note.
func (uc *UseCases) AddMemory(ctx context.Context, content, conversationID string) (*model.Note, error) {
	note, err := uc.constructNote(ctx, content, conversationID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to construct note")
	}

	targetIDs, err := uc.generateLinks(ctx, note)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to persist links")
	}

	uc.evolveRelated(ctx, note, targetIDs)

	if err := uc.repo.Note().Insert(ctx, note); err != nil {
		return nil, goerr.Wrap(err, "failed to insert note", goerr.V("note_id", note.ID))
	}

	return note, nil
}

// appendLinkedID records a link target on the note, keeping the list free
// of duplicates
func appendLinkedID(note *model.Note, id model.NoteID) {
	for _, existing := range note.LinkedIDs {
		if existing == id {
			return
		}
	}
	note.LinkedIDs = append(note.LinkedIDs, id)
}

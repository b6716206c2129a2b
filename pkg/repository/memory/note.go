package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

type noteRepository struct {
	mu    sync.RWMutex
	notes map[model.NoteID]*model.Note
}

func newNoteRepository() *noteRepository {
	return &noteRepository{
		notes: make(map[model.NoteID]*model.Note),
	}
}

func (r *noteRepository) Insert(ctx context.Context, note *model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if note.ID == "" {
		return goerr.New("note ID is required")
	}
	if _, exists := r.notes[note.ID]; exists {
		return goerr.New("note already exists", goerr.V("noteID", note.ID))
	}

	r.notes[note.ID] = note.Clone()
	return nil
}

func (r *noteRepository) Get(ctx context.Context, noteID model.NoteID) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, exists := r.notes[noteID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "note not found", goerr.V("noteID", noteID))
	}

	return note.Clone(), nil
}

func (r *noteRepository) GetMulti(ctx context.Context, noteIDs []model.NoteID) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Note, 0, len(noteIDs))
	for _, id := range noteIDs {
		// Dangling link targets are skipped, not errors
		if note, exists := r.notes[id]; exists {
			result = append(result, note.Clone())
		}
	}

	return result, nil
}

func (r *noteRepository) ListAll(ctx context.Context) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Note, 0, len(r.notes))
	for _, note := range r.notes {
		result = append(result, note.Clone())
	}

	return result, nil
}

func (r *noteRepository) Update(ctx context.Context, noteID model.NoteID, update *model.NoteUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, exists := r.notes[noteID]
	if !exists {
		return goerr.Wrap(ErrNotFound, "note not found", goerr.V("noteID", noteID))
	}

	if update.Context != nil {
		note.Context = *update.Context
	}
	if update.Tags != nil {
		note.Tags = append([]string(nil), update.Tags...)
	}
	if update.Evolved != nil {
		note.Evolved = *update.Evolved
	}
	if update.Importance != nil {
		note.Importance = *update.Importance
	}
	if update.AccessCount != nil {
		note.AccessCount = *update.AccessCount
	}
	if update.LastAccessedAt != nil {
		note.LastAccessedAt = *update.LastAccessedAt
	}
	note.LinkedIDs = append(note.LinkedIDs, update.AppendLinks...)

	return nil
}

package interfaces

import (
	"context"

	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

// NoteRepository defines the interface for Note data persistence
type NoteRepository interface {
	// Insert persists a newly constructed note. The note's ID must be unique
	// within the store.
	Insert(ctx context.Context, note *model.Note) error

	// Get retrieves a note by ID. Returns a not-found error when the note
	// does not exist.
	Get(ctx context.Context, noteID model.NoteID) (*model.Note, error)

	// GetMulti retrieves the notes for the given IDs. IDs that do not exist
	// are skipped, not errors, so callers tolerate dangling link targets.
	GetMulti(ctx context.Context, noteIDs []model.NoteID) ([]*model.Note, error)

	// ListAll returns every note in the store
	ListAll(ctx context.Context) ([]*model.Note, error)

	// Update applies a partial update to a stored note
	Update(ctx context.Context, noteID model.NoteID, update *model.NoteUpdate) error
}

// LinkRepository defines the interface for Link data persistence
type LinkRepository interface {
	// Insert persists a link. Inserting an existing (source, target) pair
	// replaces the prior edge (last-write-wins).
	Insert(ctx context.Context, link *model.Link) error

	// ListBySource returns all links originating from the given note
	ListBySource(ctx context.Context, source model.NoteID) ([]*model.Link, error)

	// ListAll returns every link in the store
	ListAll(ctx context.Context) ([]*model.Link, error)
}

// EvolutionRepository defines the interface for the append-only evolution
// audit log
type EvolutionRepository interface {
	// Insert appends an evolution record
	Insert(ctx context.Context, record *model.EvolutionRecord) error

	// ListByNote returns the evolution history of a note, newest first
	ListByNote(ctx context.Context, noteID model.NoteID) ([]*model.EvolutionRecord, error)
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// NoteID is a UUID-based identifier for Note
type NoteID string

// NewNoteID generates a new UUID v4 NoteID
func NewNoteID() NoteID {
	return NoteID(uuid.New().String())
}

// EmbeddingDimension is the dimension of the embedding vector
// (text-embedding-004 default)
const EmbeddingDimension = 768

// Note is one structured, embedded unit of remembered content.
//
// Content and Embedding are write-once at construction. Context, Tags and
// Evolved are mutated only through memory evolution; Importance, AccessCount
// and LastAccessedAt only through retrieval and decay.
type Note struct {
	ID             NoteID
	ConversationID string
	Content        string
	Context        string
	Keywords       []string
	Tags           []string

	// Embedding is computed once from content+keywords+context+tags at
	// construction and never recomputed, even after evolution rewrites
	// Context or Tags. Readers must treat it as a snapshot of the note
	// at construction time.
	Embedding []float32

	// LinkedIDs is append-only. Targets may have been removed by an
	// operator; readers treat dangling ids as "not found".
	LinkedIDs []NoteID

	CreatedAt      time.Time
	Importance     float64
	AccessCount    int64
	LastAccessedAt time.Time
	Evolved        bool
}

// Clone returns a deep copy of the note
func (n *Note) Clone() *Note {
	copied := *n
	if n.Keywords != nil {
		copied.Keywords = append([]string(nil), n.Keywords...)
	}
	if n.Tags != nil {
		copied.Tags = append([]string(nil), n.Tags...)
	}
	if n.Embedding != nil {
		copied.Embedding = append([]float32(nil), n.Embedding...)
	}
	if n.LinkedIDs != nil {
		copied.LinkedIDs = append([]NoteID(nil), n.LinkedIDs...)
	}
	return &copied
}

// NoteUpdate is a partial update applied to a stored note. Nil fields are
// left untouched. AppendLinks adds targets to LinkedIDs without replacing
// the existing set.
type NoteUpdate struct {
	Context        *string
	Tags           []string
	Evolved        *bool
	Importance     *float64
	AccessCount    *int64
	LastAccessedAt *time.Time
	AppendLinks    []NoteID
}

// Digest is the structured extraction of raw content: a one-sentence
// context summary, salient keywords and category tags.
type Digest struct {
	Keywords []string
	Context  string
	Tags     []string
}

package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// noteDoc is the Firestore document representation of model.Note.
// Embedding is stored as firestore.Vector32 for FindNearest vector search.
type noteDoc struct {
	ID             model.NoteID       `firestore:"id"`
	ConversationID string             `firestore:"conversation_id,omitempty"`
	Content        string             `firestore:"content"`
	Context        string             `firestore:"context"`
	Keywords       []string           `firestore:"keywords"`
	Tags           []string           `firestore:"tags"`
	Embedding      firestore.Vector32 `firestore:"embedding,omitempty"`
	LinkedIDs      []string           `firestore:"linked_ids"`
	CreatedAt      time.Time          `firestore:"created_at"`
	Importance     float64            `firestore:"importance"`
	AccessCount    int64              `firestore:"access_count"`
	LastAccessedAt time.Time          `firestore:"last_accessed_at"`
	Evolved        bool               `firestore:"evolved"`
}

func toNoteDoc(n *model.Note) *noteDoc {
	doc := &noteDoc{
		ID:             n.ID,
		ConversationID: n.ConversationID,
		Content:        n.Content,
		Context:        n.Context,
		Keywords:       n.Keywords,
		Tags:           n.Tags,
		LinkedIDs:      make([]string, len(n.LinkedIDs)),
		CreatedAt:      n.CreatedAt,
		Importance:     n.Importance,
		AccessCount:    n.AccessCount,
		LastAccessedAt: n.LastAccessedAt,
		Evolved:        n.Evolved,
	}
	for i, id := range n.LinkedIDs {
		doc.LinkedIDs[i] = string(id)
	}
	if len(n.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(n.Embedding)
	}
	return doc
}

func fromNoteDoc(d *noteDoc) *model.Note {
	n := &model.Note{
		ID:             d.ID,
		ConversationID: d.ConversationID,
		Content:        d.Content,
		Context:        d.Context,
		Keywords:       d.Keywords,
		Tags:           d.Tags,
		LinkedIDs:      make([]model.NoteID, len(d.LinkedIDs)),
		CreatedAt:      d.CreatedAt,
		Importance:     d.Importance,
		AccessCount:    d.AccessCount,
		LastAccessedAt: d.LastAccessedAt,
		Evolved:        d.Evolved,
	}
	for i, id := range d.LinkedIDs {
		n.LinkedIDs[i] = model.NoteID(id)
	}
	if len(d.Embedding) > 0 {
		n.Embedding = []float32(d.Embedding)
	}
	return n
}

type noteRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newNoteRepository(client *firestore.Client) *noteRepository {
	return &noteRepository{client: client}
}

func (r *noteRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "notes")
}

func (r *noteRepository) Insert(ctx context.Context, note *model.Note) error {
	if note.ID == "" {
		return goerr.New("note ID is required")
	}

	docRef := r.collection().Doc(string(note.ID))
	if _, err := docRef.Create(ctx, toNoteDoc(note)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.New("note already exists", goerr.V("noteID", note.ID))
		}
		return goerr.Wrap(err, "failed to insert note", goerr.V("noteID", note.ID))
	}

	return nil
}

func (r *noteRepository) Get(ctx context.Context, noteID model.NoteID) (*model.Note, error) {
	doc, err := r.collection().Doc(string(noteID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "note not found", goerr.V("noteID", noteID))
		}
		return nil, goerr.Wrap(err, "failed to get note", goerr.V("noteID", noteID))
	}

	var d noteDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal note", goerr.V("noteID", noteID))
	}

	return fromNoteDoc(&d), nil
}

func (r *noteRepository) GetMulti(ctx context.Context, noteIDs []model.NoteID) ([]*model.Note, error) {
	if len(noteIDs) == 0 {
		return []*model.Note{}, nil
	}

	refs := make([]*firestore.DocumentRef, len(noteIDs))
	for i, id := range noteIDs {
		refs[i] = r.collection().Doc(string(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get notes")
	}

	notes := make([]*model.Note, 0, len(docs))
	for _, doc := range docs {
		// Dangling link targets are skipped, not errors
		if !doc.Exists() {
			continue
		}
		var d noteDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal note", goerr.V("noteID", doc.Ref.ID))
		}
		notes = append(notes, fromNoteDoc(&d))
	}

	return notes, nil
}

func (r *noteRepository) ListAll(ctx context.Context) ([]*model.Note, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	notes := make([]*model.Note, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notes")
		}

		var d noteDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal note")
		}

		notes = append(notes, fromNoteDoc(&d))
	}

	return notes, nil
}

func (r *noteRepository) Update(ctx context.Context, noteID model.NoteID, update *model.NoteUpdate) error {
	updates := make([]firestore.Update, 0, 7)
	if update.Context != nil {
		updates = append(updates, firestore.Update{Path: "context", Value: *update.Context})
	}
	if update.Tags != nil {
		updates = append(updates, firestore.Update{Path: "tags", Value: update.Tags})
	}
	if update.Evolved != nil {
		updates = append(updates, firestore.Update{Path: "evolved", Value: *update.Evolved})
	}
	if update.Importance != nil {
		updates = append(updates, firestore.Update{Path: "importance", Value: *update.Importance})
	}
	if update.AccessCount != nil {
		updates = append(updates, firestore.Update{Path: "access_count", Value: *update.AccessCount})
	}
	if update.LastAccessedAt != nil {
		updates = append(updates, firestore.Update{Path: "last_accessed_at", Value: *update.LastAccessedAt})
	}
	if len(update.AppendLinks) > 0 {
		appended := make([]interface{}, len(update.AppendLinks))
		for i, id := range update.AppendLinks {
			appended[i] = string(id)
		}
		updates = append(updates, firestore.Update{Path: "linked_ids", Value: firestore.ArrayUnion(appended...)})
	}

	if len(updates) == 0 {
		return nil
	}

	if _, err := r.collection().Doc(string(noteID)).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "note not found", goerr.V("noteID", noteID))
		}
		return goerr.Wrap(err, "failed to update note", goerr.V("noteID", noteID))
	}

	return nil
}

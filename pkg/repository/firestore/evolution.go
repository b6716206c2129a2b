package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"google.golang.org/api/iterator"
)

// evolutionDoc is the Firestore document representation of model.EvolutionRecord
type evolutionDoc struct {
	ID         string    `firestore:"id"`
	NoteID     string    `firestore:"note_id"`
	OldContext string    `firestore:"old_context"`
	NewContext string    `firestore:"new_context"`
	OldTags    []string  `firestore:"old_tags"`
	NewTags    []string  `firestore:"new_tags"`
	Reason     string    `firestore:"reason"`
	CreatedAt  time.Time `firestore:"created_at"`
}

func toEvolutionDoc(rec *model.EvolutionRecord) *evolutionDoc {
	return &evolutionDoc{
		ID:         string(rec.ID),
		NoteID:     string(rec.NoteID),
		OldContext: rec.OldContext,
		NewContext: rec.NewContext,
		OldTags:    rec.OldTags,
		NewTags:    rec.NewTags,
		Reason:     rec.Reason,
		CreatedAt:  rec.CreatedAt,
	}
}

func fromEvolutionDoc(d *evolutionDoc) *model.EvolutionRecord {
	return &model.EvolutionRecord{
		ID:         model.EvolutionRecordID(d.ID),
		NoteID:     model.NoteID(d.NoteID),
		OldContext: d.OldContext,
		NewContext: d.NewContext,
		OldTags:    d.OldTags,
		NewTags:    d.NewTags,
		Reason:     d.Reason,
		CreatedAt:  d.CreatedAt,
	}
}

type evolutionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newEvolutionRepository(client *firestore.Client) *evolutionRepository {
	return &evolutionRepository{client: client}
}

func (r *evolutionRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "evolutions")
}

func (r *evolutionRepository) Insert(ctx context.Context, record *model.EvolutionRecord) error {
	if record.ID == "" {
		record.ID = model.NewEvolutionRecordID()
	}

	// Append-only: Create fails instead of overwriting an existing record
	docRef := r.collection().Doc(string(record.ID))
	if _, err := docRef.Create(ctx, toEvolutionDoc(record)); err != nil {
		return goerr.Wrap(err, "failed to insert evolution record",
			goerr.V("recordID", record.ID),
			goerr.V("noteID", record.NoteID),
		)
	}

	return nil
}

func (r *evolutionRepository) ListByNote(ctx context.Context, noteID model.NoteID) ([]*model.EvolutionRecord, error) {
	iter := r.collection().
		Where("note_id", "==", string(noteID)).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	records := make([]*model.EvolutionRecord, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate evolution records")
		}

		var d evolutionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal evolution record")
		}

		records = append(records, fromEvolutionDoc(&d))
	}

	return records, nil
}

package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"github.com/secmon-lab/mnemon/pkg/domain/types"
	"google.golang.org/api/iterator"
)

// linkDoc is the Firestore document representation of model.Link
type linkDoc struct {
	Source    string    `firestore:"source"`
	Target    string    `firestore:"target"`
	Strength  float64   `firestore:"strength"`
	Type      string    `firestore:"type"`
	CreatedAt time.Time `firestore:"created_at"`
}

func toLinkDoc(l *model.Link) *linkDoc {
	return &linkDoc{
		Source:    string(l.Source),
		Target:    string(l.Target),
		Strength:  l.Strength,
		Type:      l.Type.String(),
		CreatedAt: l.CreatedAt,
	}
}

func fromLinkDoc(d *linkDoc) *model.Link {
	return &model.Link{
		Source:    model.NoteID(d.Source),
		Target:    model.NoteID(d.Target),
		Strength:  d.Strength,
		Type:      types.LinkType(d.Type),
		CreatedAt: d.CreatedAt,
	}
}

type linkRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newLinkRepository(client *firestore.Client) *linkRepository {
	return &linkRepository{client: client}
}

func (r *linkRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "links")
}

// linkDocID keys the document by the directed edge so that re-inserting the
// same pair overwrites the prior edge (last-write-wins)
func linkDocID(source, target model.NoteID) string {
	return fmt.Sprintf("%s:%s", source, target)
}

func (r *linkRepository) Insert(ctx context.Context, link *model.Link) error {
	if err := link.Type.Validate(); err != nil {
		return goerr.Wrap(err, "invalid link")
	}

	docRef := r.collection().Doc(linkDocID(link.Source, link.Target))
	if _, err := docRef.Set(ctx, toLinkDoc(link)); err != nil {
		return goerr.Wrap(err, "failed to insert link",
			goerr.V("source", link.Source),
			goerr.V("target", link.Target),
		)
	}

	return nil
}

func (r *linkRepository) ListBySource(ctx context.Context, source model.NoteID) ([]*model.Link, error) {
	iter := r.collection().Where("source", "==", string(source)).Documents(ctx)
	defer iter.Stop()

	return collectLinks(iter)
}

func (r *linkRepository) ListAll(ctx context.Context) ([]*model.Link, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	return collectLinks(iter)
}

func collectLinks(iter *firestore.DocumentIterator) ([]*model.Link, error) {
	links := make([]*model.Link, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate links")
		}

		var d linkDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal link")
		}

		links = append(links, fromLinkDoc(&d))
	}

	return links, nil
}

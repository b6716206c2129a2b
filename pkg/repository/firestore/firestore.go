package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/interfaces"
)

// Firestore is the durable Repository implementation backed by Cloud Firestore
type Firestore struct {
	client    *firestore.Client
	note      *noteRepository
	link      *linkRepository
	evolution *evolutionRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes all collection names, mainly for test isolation
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.note.collectionPrefix = prefix
		f.link.collectionPrefix = prefix
		f.evolution.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{
		client:    client,
		note:      newNoteRepository(client),
		link:      newLinkRepository(client),
		evolution: newEvolutionRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Note() interfaces.NoteRepository {
	return f.note
}

func (f *Firestore) Link() interfaces.LinkRepository {
	return f.link
}

func (f *Firestore) Evolution() interfaces.EvolutionRepository {
	return f.evolution
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"golang.org/x/sync/errgroup"
)

// GraphData projects the whole store into nodes and edges for
// visualization. Notes and links are fetched in parallel; an edge whose
// endpoint is missing is still emitted, consumers decide how to render it.
func (uc *UseCases) GraphData(ctx context.Context) (*model.GraphData, error) {
	var (
		notes []*model.Note
		links []*model.Link
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		notes, err = uc.repo.Note().ListAll(egCtx)
		if err != nil {
			return goerr.Wrap(err, "failed to list notes")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		links, err = uc.repo.Link().ListAll(egCtx)
		if err != nil {
			return goerr.Wrap(err, "failed to list links")
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	graph := &model.GraphData{
		Nodes: make([]model.GraphNode, len(notes)),
		Edges: make([]model.GraphEdge, len(links)),
	}
	for i, note := range notes {
		graph.Nodes[i] = note.ToGraphNode()
	}
	for i, link := range links {
		graph.Edges[i] = link.ToGraphEdge()
	}

	return graph, nil
}

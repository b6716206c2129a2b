package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

// RetrieveMemories returns up to limit notes ranked by similarity to the
// query, followed by every note one link hop away from a hit. Access stats
// of the ranked hits are persisted before returning because decay depends
// on fresh lastAccessed values.
func (uc *UseCases) RetrieveMemories(ctx context.Context, query string, limit int) ([]*model.Note, error) {
	if uc.embedder == nil {
		return nil, goerr.New("embedder is not configured")
	}
	if query == "" {
		return nil, goerr.New("query is required")
	}
	if limit < 1 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	queryEmbedding, err := uc.embedder.Embed(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query")
	}

	scored, err := uc.index.FindNearest(ctx, queryEmbedding, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search notes")
	}

	now := uc.now()
	results := make([]*model.Note, 0, len(scored))
	seen := make(map[model.NoteID]bool, len(scored))

	for _, s := range scored {
		note := s.Note
		accessCount := note.AccessCount + 1

		update := &model.NoteUpdate{
			AccessCount:    &accessCount,
			LastAccessedAt: &now,
		}
		if err := uc.repo.Note().Update(ctx, note.ID, update); err != nil {
			return nil, goerr.Wrap(err, "failed to record access", goerr.V("note_id", note.ID))
		}

		note.AccessCount = accessCount
		note.LastAccessedAt = now

		results = append(results, note)
		seen[note.ID] = true
	}

	// One hop only: linked notes surface without transitive closure and
	// without re-ranking, appended after the ranked hits
	var expansionIDs []model.NoteID
	for _, hit := range scored {
		links, err := uc.repo.Link().ListBySource(ctx, hit.Note.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list links", goerr.V("note_id", hit.Note.ID))
		}
		for _, link := range links {
			if seen[link.Target] {
				continue
			}
			seen[link.Target] = true
			expansionIDs = append(expansionIDs, link.Target)
		}
	}

	if len(expansionIDs) > 0 {
		linked, err := uc.repo.Note().GetMulti(ctx, expansionIDs)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch linked notes")
		}
		results = append(results, linked...)
	}

	return results, nil
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

// linkKey is the composite key of a directed edge
type linkKey struct {
	source model.NoteID
	target model.NoteID
}

type linkRepository struct {
	mu    sync.RWMutex
	links map[linkKey]*model.Link
}

func newLinkRepository() *linkRepository {
	return &linkRepository{
		links: make(map[linkKey]*model.Link),
	}
}

func copyLink(l *model.Link) *model.Link {
	copied := *l
	return &copied
}

func (r *linkRepository) Insert(ctx context.Context, link *model.Link) error {
	if err := link.Type.Validate(); err != nil {
		return goerr.Wrap(err, "invalid link")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Last-write-wins on the (source, target) pair
	r.links[linkKey{source: link.Source, target: link.Target}] = copyLink(link)
	return nil
}

func (r *linkRepository) ListBySource(ctx context.Context, source model.NoteID) ([]*model.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Link, 0)
	for key, link := range r.links {
		if key.source == source {
			result = append(result, copyLink(link))
		}
	}

	sortLinks(result)
	return result, nil
}

func (r *linkRepository) ListAll(ctx context.Context) ([]*model.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Link, 0, len(r.links))
	for _, link := range r.links {
		result = append(result, copyLink(link))
	}

	sortLinks(result)
	return result, nil
}

func sortLinks(links []*model.Link) {
	sort.Slice(links, func(i, j int) bool {
		if links[i].Source != links[j].Source {
			return links[i].Source < links[j].Source
		}
		return links[i].Target < links[j].Target
	})
}

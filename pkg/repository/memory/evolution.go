package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

type evolutionRepository struct {
	mu      sync.RWMutex
	records []*model.EvolutionRecord
}

func newEvolutionRepository() *evolutionRepository {
	return &evolutionRepository{}
}

func copyEvolutionRecord(rec *model.EvolutionRecord) *model.EvolutionRecord {
	copied := *rec
	if rec.OldTags != nil {
		copied.OldTags = append([]string(nil), rec.OldTags...)
	}
	if rec.NewTags != nil {
		copied.NewTags = append([]string(nil), rec.NewTags...)
	}
	return &copied
}

func (r *evolutionRepository) Insert(ctx context.Context, record *model.EvolutionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Append-only: records are never replaced or removed
	r.records = append(r.records, copyEvolutionRecord(record))
	return nil
}

func (r *evolutionRepository) ListByNote(ctx context.Context, noteID model.NoteID) ([]*model.EvolutionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.EvolutionRecord, 0)
	for _, rec := range r.records {
		if rec.NoteID == noteID {
			result = append(result, copyEvolutionRecord(rec))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

package interfaces

import (
	"context"

	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

// Embedder maps text to a fixed-length dense vector. The returned vector
// length always equals Dimension(); a provider must fail loudly rather than
// return a truncated vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Extractor distills free text into a structured digest of keywords, a
// one-sentence context and category tags
type Extractor interface {
	Extract(ctx context.Context, content string) (*model.Digest, error)
}

// LinkJudge selects which similarity-search candidates are genuinely related
// to a new note. Vector similarity is a candidate filter; this judgment is
// the final decision.
type LinkJudge interface {
	JudgeLinks(ctx context.Context, note *model.Note, candidates []*model.Note) (*model.LinkJudgment, error)
}

// EvolutionJudge decides whether a stored note's context/tags should be
// rewritten given a newer, highly related note
type EvolutionJudge interface {
	JudgeEvolution(ctx context.Context, newNote, related *model.Note) (*model.EvolutionJudgment, error)
}

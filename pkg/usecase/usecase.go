package usecase

import (
	"time"

	"github.com/secmon-lab/mnemon/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemon/pkg/domain/model/config"
	"github.com/secmon-lab/mnemon/pkg/service/index"
)

type UseCases struct {
	repo           interfaces.Repository
	embedder       interfaces.Embedder
	extractor      interfaces.Extractor
	linkJudge      interfaces.LinkJudge
	evolutionJudge interfaces.EvolutionJudge
	index          *index.Index
	engineCfg      *config.EngineConfig
	now            func() time.Time
}

type Option func(*UseCases)

func WithEmbedder(embedder interfaces.Embedder) Option {
	return func(uc *UseCases) {
		uc.embedder = embedder
	}
}

func WithExtractor(extractor interfaces.Extractor) Option {
	return func(uc *UseCases) {
		uc.extractor = extractor
	}
}

func WithLinkJudge(judge interfaces.LinkJudge) Option {
	return func(uc *UseCases) {
		uc.linkJudge = judge
	}
}

func WithEvolutionJudge(judge interfaces.EvolutionJudge) Option {
	return func(uc *UseCases) {
		uc.evolutionJudge = judge
	}
}

func WithEngineConfig(cfg *config.EngineConfig) Option {
	return func(uc *UseCases) {
		uc.engineCfg = cfg
	}
}

// WithClock overrides the time source for tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		engineCfg: config.NewEngineConfig(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.index = index.New(repo.Note())

	return uc
}

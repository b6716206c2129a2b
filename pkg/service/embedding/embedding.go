package embedding

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/mnemon/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

// client implements interfaces.Embedder on top of a gollem LLM client
type client struct {
	llmClient gollem.LLMClient
	dimension int
}

// Option is a functional option for client configuration
type Option func(*client)

// WithDimension overrides the default embedding dimension. All notes in one
// store must share the same dimension.
func WithDimension(dim int) Option {
	return func(c *client) {
		c.dimension = dim
	}
}

// New creates a new embedding provider with the given LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (interfaces.Embedder, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
		dimension: model.EmbeddingDimension,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.dimension < 1 {
		return nil, goerr.New("embedding dimension must be positive", goerr.V("dimension", c.dimension))
	}

	return c, nil
}

func (c *client) Dimension() int {
	return c.dimension
}

// Embed generates a float32 embedding vector for the given text
func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.llmClient.GenerateEmbedding(ctx, c.dimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, goerr.New("embedding generation returned empty result")
	}

	// Providers must not silently return a vector of the wrong length
	if len(embeddings[0]) != c.dimension {
		return nil, goerr.New("embedding dimension mismatch",
			goerr.V("expected", c.dimension),
			goerr.V("actual", len(embeddings[0])),
		)
	}

	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}

	return result, nil
}

package embedding_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemon/pkg/service/embedding"
)

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	generateEmbeddingFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, goerr.New("not implemented")
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if c.generateEmbeddingFn != nil {
		return c.generateEmbeddingFn(ctx, dimension, input)
	}
	return nil, nil
}

func TestEmbed(t *testing.T) {
	t.Run("converts provider output to float32", func(t *testing.T) {
		llmClient := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				gt.Value(t, dimension).Equal(3)
				gt.Array(t, input).Equal([]string{"some text"})
				return [][]float64{{0.1, 0.2, 0.3}}, nil
			},
		}

		embedder, err := embedding.New(llmClient, embedding.WithDimension(3))
		gt.NoError(t, err).Required()
		gt.Value(t, embedder.Dimension()).Equal(3)

		vec, err := embedder.Embed(context.Background(), "some text")
		gt.NoError(t, err).Required()
		gt.Array(t, vec).Equal([]float32{0.1, 0.2, 0.3})
	})

	t.Run("rejects dimension mismatch", func(t *testing.T) {
		llmClient := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				return [][]float64{{0.1, 0.2}}, nil
			},
		}

		embedder, err := embedding.New(llmClient, embedding.WithDimension(3))
		gt.NoError(t, err).Required()

		_, err = embedder.Embed(context.Background(), "some text")
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects empty provider result", func(t *testing.T) {
		llmClient := &mockLLMClient{}

		embedder, err := embedding.New(llmClient, embedding.WithDimension(3))
		gt.NoError(t, err).Required()

		_, err = embedder.Embed(context.Background(), "some text")
		gt.Value(t, err).NotNil()
	})

	t.Run("propagates provider error", func(t *testing.T) {
		llmClient := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				return nil, goerr.New("quota exceeded")
			},
		}

		embedder, err := embedding.New(llmClient, embedding.WithDimension(3))
		gt.NoError(t, err).Required()

		_, err = embedder.Embed(context.Background(), "some text")
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects nil client and invalid dimension", func(t *testing.T) {
		_, err := embedding.New(nil)
		gt.Value(t, err).NotNil()

		llmClient := &mockLLMClient{}
		_, err = embedding.New(llmClient, embedding.WithDimension(0))
		gt.Value(t, err).NotNil()
	})
}

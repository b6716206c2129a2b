package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"github.com/secmon-lab/mnemon/pkg/utils/logging"
)

// constructNote builds a fully initialized note from raw content. Extraction
// failures degrade to an unsummarized note; embedding failures propagate
// because a note without a vector would be invisible to retrieval.
func (uc *UseCases) constructNote(ctx context.Context, content, conversationID string) (*model.Note, error) {
	if uc.embedder == nil {
		return nil, goerr.New("embedder is not configured")
	}
	if content == "" {
		return nil, goerr.New("content is required")
	}

	digest := uc.extractDigest(ctx, content)

	embedding, err := uc.embedder.Embed(ctx, embeddingText(content, digest))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed note content")
	}

	now := uc.now()
	return &model.Note{
		ID:             model.NewNoteID(),
		ConversationID: conversationID,
		Content:        content,
		Context:        digest.Context,
		Keywords:       digest.Keywords,
		Tags:           digest.Tags,
		Embedding:      embedding,
		CreatedAt:      now,
		Importance:     1.0,
		AccessCount:    0,
		LastAccessedAt: now,
		Evolved:        false,
	}, nil
}

// extractDigest runs structured extraction with a fallback that keeps the
// raw content as the context. Construction never fails on extraction.
func (uc *UseCases) extractDigest(ctx context.Context, content string) *model.Digest {
	fallback := &model.Digest{Context: content}

	if uc.extractor == nil {
		return fallback
	}

	digest, err := uc.extractor.Extract(ctx, content)
	if err != nil {
		logging.From(ctx).Warn("structured extraction failed, storing content unsummarized",
			"error", err.Error())
		return fallback
	}

	return digest
}

// embeddingText concatenates content, keywords, context and tags in that
// order so the vector reflects both raw and distilled meaning
func embeddingText(content string, digest *model.Digest) string {
	parts := make([]string, 0, 2+len(digest.Keywords)+len(digest.Tags))
	parts = append(parts, content)
	parts = append(parts, digest.Keywords...)
	if digest.Context != "" {
		parts = append(parts, digest.Context)
	}
	parts = append(parts, digest.Tags...)
	return strings.Join(parts, " ")
}

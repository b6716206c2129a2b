package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/mnemon/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
)

// client implements interfaces.Extractor
type client struct {
	llmClient gollem.LLMClient
}

// New creates a new structured extraction service with the provided LLM client
func New(llmClient gollem.LLMClient) (interfaces.Extractor, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	return &client{llmClient: llmClient}, nil
}

// Extract distills raw content into keywords, a one-sentence context and tags
func (c *client) Extract(ctx context.Context, content string) (*model.Digest, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(content)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("LLM returned no text")
	}

	var llmResp llmResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &llmResp); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", resp.Texts[0]))
	}

	return &model.Digest{
		Keywords: llmResp.Keywords,
		Context:  llmResp.Context,
		Tags:     llmResp.Tags,
	}, nil
}

// llmResponse mirrors the JSON response schema
type llmResponse struct {
	Keywords []string `json:"keywords"`
	Context  string   `json:"context"`
	Tags     []string `json:"tags"`
}

// buildSystemPrompt creates the fixed system prompt for content analysis
func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a memory analysis assistant. Your task is to distill raw content into structured metadata.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Read the content and extract:\n")
	sb.WriteString("   - keywords: the most salient terms, ordered by importance (in the same language as the content)\n")
	sb.WriteString("   - context: a single sentence summarizing what the content is about\n")
	sb.WriteString("   - tags: broad category labels suitable for grouping related memories\n")
	sb.WriteString("2. Keep the context to one sentence.\n")
	sb.WriteString("3. Return empty arrays when nothing meaningful can be extracted.\n")

	return sb.String()
}

// buildUserPrompt creates the user prompt carrying the raw content
func buildUserPrompt(content string) string {
	var sb strings.Builder

	sb.WriteString("## Content:\n\n")
	sb.WriteString(content)
	sb.WriteString("\n")

	return sb.String()
}

// buildResponseSchema creates the JSON schema for structured output
func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ContentDigestResponse",
		Description: "Structured digest of raw memory content",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"keywords": {
				Type:        gollem.TypeArray,
				Description: "Salient terms ordered by importance",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
				Required:    true,
			},
			"context": {
				Type:        gollem.TypeString,
				Description: "One-sentence summary of the content",
				Required:    true,
			},
			"tags": {
				Type:        gollem.TypeArray,
				Description: "Broad category labels",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
				Required:    true,
			},
		},
	}
}

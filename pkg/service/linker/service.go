package linker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/mnemon/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"github.com/secmon-lab/mnemon/pkg/utils/logging"
)

// client implements interfaces.LinkJudge
type client struct {
	llmClient gollem.LLMClient
}

// New creates a new link judgment service with the provided LLM client
func New(llmClient gollem.LLMClient) (interfaces.LinkJudge, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	return &client{llmClient: llmClient}, nil
}

// JudgeLinks asks the LLM which candidates are genuinely related to the note.
// Candidate ids the model invents are discarded; an unparseable response
// yields the safe "no links" judgment instead of an error.
func (c *client) JudgeLinks(ctx context.Context, note *model.Note, candidates []*model.Note) (*model.LinkJudgment, error) {
	if len(candidates) == 0 {
		return &model.LinkJudgment{}, nil
	}

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(note, candidates)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("LLM returned no text")
	}

	var llmResp llmResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &llmResp); err != nil {
		logging.From(ctx).Warn("unparseable link judgment, treating as no links",
			"error", err.Error(),
			"response", resp.Texts[0],
		)
		return &model.LinkJudgment{}, nil
	}

	// Never trust the model to produce valid ids
	allowed := make(map[model.NoteID]bool, len(candidates))
	for _, cand := range candidates {
		allowed[cand.ID] = true
	}

	judgment := &model.LinkJudgment{}
	for _, id := range llmResp.RelatedIDs {
		if allowed[model.NoteID(id)] {
			judgment.TargetIDs = append(judgment.TargetIDs, model.NoteID(id))
		}
	}

	return judgment, nil
}

// llmResponse mirrors the JSON response schema
type llmResponse struct {
	RelatedIDs []string `json:"related_ids"`
}

// buildSystemPrompt creates the fixed system prompt for link judgment
func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a memory curation assistant. Your task is to decide which existing memories are genuinely related to a new memory.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. The candidates were selected by vector similarity; treat that only as a pre-filter.\n")
	sb.WriteString("2. Select a candidate only when there is a meaningful semantic relation to the new memory: shared subject, continuation, cause/effect, or contradiction.\n")
	sb.WriteString("3. Return the ids of the selected candidates in related_ids.\n")
	sb.WriteString("4. If no candidate is genuinely related, return an empty array.\n")

	return sb.String()
}

// buildUserPrompt creates the user prompt with the new note and candidates
func buildUserPrompt(note *model.Note, candidates []*model.Note) string {
	var sb strings.Builder

	sb.WriteString("## New memory:\n\n")
	fmt.Fprintf(&sb, "**Context:** %s\n", note.Context)
	fmt.Fprintf(&sb, "**Keywords:** %s\n", strings.Join(note.Keywords, ", "))
	fmt.Fprintf(&sb, "**Content:** %s\n\n", note.Content)

	sb.WriteString("## Candidates:\n\n")
	for _, cand := range candidates {
		fmt.Fprintf(&sb, "### ID: %s\n", cand.ID)
		fmt.Fprintf(&sb, "**Context:** %s\n", cand.Context)
		fmt.Fprintf(&sb, "**Keywords:** %s\n\n", strings.Join(cand.Keywords, ", "))
	}

	return sb.String()
}

// buildResponseSchema creates the JSON schema for structured output
func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "LinkJudgmentResponse",
		Description: "Candidate memories genuinely related to the new memory",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"related_ids": {
				Type:        gollem.TypeArray,
				Description: "IDs of genuinely related candidates",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
				Required:    true,
			},
		},
	}
}

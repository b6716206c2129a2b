package evolution

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

// client implements interfaces.EvolutionJudge
type client struct {
	llmClient gollem.LLMClient
}

// New creates a new evolution judgment service with the provided LLM client
func New(llmClient gollem.LLMClient) (interfaces.EvolutionJudge, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	return &client{llmClient: llmClient}, nil
}

// JudgeEvolution asks the LLM whether a stored note should be rewritten in
// light of a newly arrived one. An unparseable response yields the safe
// "do not evolve" judgment instead of an error.
func (c *client) JudgeEvolution(ctx context.Context, newNote, related *model.Note) (*model.EvolutionJudgment, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(newNote, related)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("LLM returned no text")
	}

	var llmResp llmResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &llmResp); err != nil {
		logging.From(ctx).Warn("unparseable evolution judgment, keeping note as is",
			"error", err.Error(),
			"response", resp.Texts[0],
		)
		return &model.EvolutionJudgment{}, nil
	}

	if llmResp.ShouldEvolve && llmResp.Context == "" {
		// Evolving to an empty context would destroy information
		return &model.EvolutionJudgment{}, nil
	}

	return &model.EvolutionJudgment{
		ShouldEvolve: llmResp.ShouldEvolve,
		Context:      llmResp.Context,
		Tags:         llmResp.Tags,
		Reason:       llmResp.Reason,
	}, nil
}

// llmResponse mirrors the JSON response schema
type llmResponse struct {
	ShouldEvolve bool     `json:"should_evolve"`
	Context      string   `json:"context"`
	Tags         []string `json:"tags"`
	Reason       string   `json:"reason"`
}

// buildSystemPrompt creates the fixed system prompt for evolution judgment
func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a memory curation assistant. Your task is to decide whether an existing memory should be rewritten because a new memory sheds light on it.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Compare the existing memory with the new one.\n")
	sb.WriteString("2. Set should_evolve to true only when the new memory adds, corrects or reframes information the existing memory carries.\n")
	sb.WriteString("3. When evolving, provide the full rewritten context (one sentence) and the complete updated tag list, not a diff.\n")
	sb.WriteString("4. Always explain your decision in reason, even when should_evolve is false.\n")

	return sb.String()
}

// buildUserPrompt creates the user prompt with both notes
func buildUserPrompt(newNote, related *model.Note) string {
	var sb strings.Builder

	sb.WriteString("## Existing memory (evolution candidate):\n\n")
	fmt.Fprintf(&sb, "**Context:** %s\n", related.Context)
	fmt.Fprintf(&sb, "**Tags:** %s\n", strings.Join(related.Tags, ", "))
	fmt.Fprintf(&sb, "**Content:** %s\n\n", related.Content)

	sb.WriteString("## New memory:\n\n")
	fmt.Fprintf(&sb, "**Context:** %s\n", newNote.Context)
	fmt.Fprintf(&sb, "**Tags:** %s\n", strings.Join(newNote.Tags, ", "))
	fmt.Fprintf(&sb, "**Content:** %s\n", newNote.Content)

	return sb.String()
}

// buildResponseSchema creates the JSON schema for structured output
func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "EvolutionJudgmentResponse",
		Description: "Decision on whether an existing memory should be rewritten",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"should_evolve": {
				Type:        gollem.TypeBoolean,
				Description: "Whether the existing memory should be rewritten",
				Required:    true,
			},
			"context": {
				Type:        gollem.TypeString,
				Description: "Full rewritten one-sentence context (required when should_evolve is true)",
			},
			"tags": {
				Type:        gollem.TypeArray,
				Description: "Complete updated tag list (required when should_evolve is true)",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
			},
			"reason": {
				Type:        gollem.TypeString,
				Description: "Explanation of the decision",
				Required:    true,
			},
		},
	}
}

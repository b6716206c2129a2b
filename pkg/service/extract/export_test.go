package extract

// Export internal functions for testing
var (
	BuildSystemPrompt   = buildSystemPrompt
	BuildUserPrompt     = buildUserPrompt
	BuildResponseSchema = buildResponseSchema
)

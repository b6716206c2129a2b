package evolution

// Export internal functions for testing
var (
	BuildSystemPrompt = buildSystemPrompt
	BuildUserPrompt   = buildUserPrompt
)

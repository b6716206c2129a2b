package config

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewEngineForTest creates an Engine config for testing purposes
func NewEngineForTest(configPath string, topK int, evolutionThreshold, decayRate float64) *Engine {
	return &Engine{
		configPath:         configPath,
		topK:               topK,
		evolutionThreshold: evolutionThreshold,
		decayRate:          decayRate,
	}
}

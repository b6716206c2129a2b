package config

import "github.com/m-mizutani/goerr/v2"

// Default engine parameters
const (
	DefaultTopK               = 10
	DefaultEvolutionThreshold = 0.75
	DefaultDecayRate          = 0.95
)

// EngineConfig holds the tunable parameters of the memory engine
type EngineConfig struct {
	// TopK is how many nearest notes are presented to the link judge
	TopK int

	// EvolutionThreshold is the minimum cosine similarity for a related
	// note to be considered for evolution
	EvolutionThreshold float64

	// DecayRate is the per-day multiplier of the forgetting curve
	DecayRate float64
}

// NewEngineConfig returns an EngineConfig with default parameters
func NewEngineConfig() *EngineConfig {
	return &EngineConfig{
		TopK:               DefaultTopK,
		EvolutionThreshold: DefaultEvolutionThreshold,
		DecayRate:          DefaultDecayRate,
	}
}

// Validate checks if the EngineConfig is valid
func (c *EngineConfig) Validate() error {
	if c.TopK < 1 {
		return goerr.New("topK must be at least 1", goerr.V("topK", c.TopK))
	}
	if c.EvolutionThreshold < -1 || c.EvolutionThreshold > 1 {
		return goerr.New("evolution threshold must be within [-1, 1]",
			goerr.V("threshold", c.EvolutionThreshold))
	}
	if c.DecayRate <= 0 || c.DecayRate >= 1 {
		return goerr.New("decay rate must be within (0, 1)",
			goerr.V("decayRate", c.DecayRate))
	}
	return nil
}

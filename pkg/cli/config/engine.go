package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/mnemon/pkg/domain/model/config"
	"github.com/urfave/cli/v3"
)

// Engine holds CLI flags for engine parameter configuration. Parameters can
// come from an optional TOML file; explicit flags and environment variables
// take precedence over file values.
type Engine struct {
	configPath         string
	topK               int
	evolutionThreshold float64
	decayRate          float64
}

// engineFile is the TOML layout of the engine config file
type engineFile struct {
	TopK               *int     `toml:"top_k"`
	EvolutionThreshold *float64 `toml:"evolution_threshold"`
	DecayRate          *float64 `toml:"decay_rate"`
}

// Flags returns CLI flags for engine configuration
func (e *Engine) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "engine-config",
			Usage:       "Path to TOML file with engine parameters",
			Sources:     cli.EnvVars("MNEMON_ENGINE_CONFIG"),
			Destination: &e.configPath,
		},
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "Number of nearest notes presented to the link judge",
			Value:       domainConfig.DefaultTopK,
			Sources:     cli.EnvVars("MNEMON_TOP_K"),
			Destination: &e.topK,
		},
		&cli.FloatFlag{
			Name:        "evolution-threshold",
			Usage:       "Minimum cosine similarity for evolution candidates",
			Value:       domainConfig.DefaultEvolutionThreshold,
			Sources:     cli.EnvVars("MNEMON_EVOLUTION_THRESHOLD"),
			Destination: &e.evolutionThreshold,
		},
		&cli.FloatFlag{
			Name:        "decay-rate",
			Usage:       "Per-day importance multiplier of the forgetting curve",
			Value:       domainConfig.DefaultDecayRate,
			Sources:     cli.EnvVars("MNEMON_DECAY_RATE"),
			Destination: &e.decayRate,
		},
	}
}

// LogValue returns log attributes for the engine configuration
func (e Engine) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("config_path", e.configPath),
		slog.Int("top_k", e.topK),
		slog.Float64("evolution_threshold", e.evolutionThreshold),
		slog.Float64("decay_rate", e.decayRate),
	)
}

// Configure builds a validated EngineConfig. File values apply only for
// parameters the command line left at their defaults.
func (e *Engine) Configure(cmd *cli.Command) (*domainConfig.EngineConfig, error) {
	cfg := &domainConfig.EngineConfig{
		TopK:               e.topK,
		EvolutionThreshold: e.evolutionThreshold,
		DecayRate:          e.decayRate,
	}

	if e.configPath != "" {
		data, err := os.ReadFile(e.configPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read engine config file",
				goerr.V("path", e.configPath))
		}

		var file engineFile
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, goerr.Wrap(err, "failed to parse engine config file",
				goerr.V("path", e.configPath))
		}

		if file.TopK != nil && !cmd.IsSet("top-k") {
			cfg.TopK = *file.TopK
		}
		if file.EvolutionThreshold != nil && !cmd.IsSet("evolution-threshold") {
			cfg.EvolutionThreshold = *file.EvolutionThreshold
		}
		if file.DecayRate != nil && !cmd.IsSet("decay-rate") {
			cfg.DecayRate = *file.DecayRate
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid engine configuration")
	}

	return cfg, nil
}

package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemon/pkg/cli/config"
	domainConfig "github.com/secmon-lab/mnemon/pkg/domain/model/config"
	"github.com/urfave/cli/v3"
)

// configureEngine runs Configure through a real command so that flag
// precedence over file values is exercised.
func configureEngine(t *testing.T, engine *config.Engine, args ...string) (*domainConfig.EngineConfig, error) {
	t.Helper()

	var cfg *domainConfig.EngineConfig
	var cfgErr error
	cmd := &cli.Command{
		Name:  "test",
		Flags: engine.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, cfgErr = engine.Configure(c)
			return nil
		},
	}
	gt.NoError(t, cmd.Run(t.Context(), append([]string{"test"}, args...))).Required()
	return cfg, cfgErr
}

func TestEngine_Configure(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		cfg, err := configureEngine(t, &config.Engine{})
		gt.NoError(t, err).Required()

		gt.Value(t, cfg.TopK).Equal(domainConfig.DefaultTopK)
		gt.Value(t, cfg.EvolutionThreshold).Equal(domainConfig.DefaultEvolutionThreshold)
		gt.Value(t, cfg.DecayRate).Equal(domainConfig.DefaultDecayRate)
	})

	t.Run("file values apply when flags are unset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "engine.toml")
		body := "top_k = 5\nevolution_threshold = 0.9\ndecay_rate = 0.8\n"
		gt.NoError(t, os.WriteFile(path, []byte(body), 0600)).Required()

		cfg, err := configureEngine(t, &config.Engine{}, "--engine-config", path)
		gt.NoError(t, err).Required()

		gt.Value(t, cfg.TopK).Equal(5)
		gt.Value(t, cfg.EvolutionThreshold).Equal(0.9)
		gt.Value(t, cfg.DecayRate).Equal(0.8)
	})

	t.Run("explicit flags win over file values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "engine.toml")
		gt.NoError(t, os.WriteFile(path, []byte("top_k = 5\n"), 0600)).Required()

		cfg, err := configureEngine(t, &config.Engine{},
			"--engine-config", path, "--top-k", "20")
		gt.NoError(t, err).Required()

		gt.Value(t, cfg.TopK).Equal(20)
	})

	t.Run("missing config file is an error", func(t *testing.T) {
		_, err := configureEngine(t, &config.Engine{},
			"--engine-config", filepath.Join(t.TempDir(), "no-such.toml"))
		gt.Value(t, err).NotNil()
	})

	t.Run("out-of-range values are rejected", func(t *testing.T) {
		engine := config.NewEngineForTest("", 0, 0.75, 0.95)
		_, err := engine.Configure(&cli.Command{})
		gt.Value(t, err).NotNil()

		engine = config.NewEngineForTest("", 10, 2.0, 0.95)
		_, err = engine.Configure(&cli.Command{})
		gt.Value(t, err).NotNil()

		engine = config.NewEngineForTest("", 10, 0.75, 1.5)
		_, err = engine.Configure(&cli.Command{})
		gt.Value(t, err).NotNil()
	})
}

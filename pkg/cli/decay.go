package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/cli/config"
	"github.com/secmon-lab/mnemon/pkg/usecase"
	"github.com/secmon-lab/mnemon/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdDecay() *cli.Command {
	var repoCfg config.Repository
	var engineCfg config.Engine

	flags := append(repoCfg.Flags(), engineCfg.Flags()...)

	return &cli.Command{
		Name:    "decay",
		Aliases: []string{"d"},
		Usage:   "Apply the forgetting curve once and exit (for cron/scheduler use)",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			engine, err := engineCfg.Configure(c)
			if err != nil {
				return goerr.Wrap(err, "failed to load engine configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, usecase.WithEngineConfig(engine))

			summary, err := uc.ApplyForgettingCurve(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to apply forgetting curve")
			}

			color.New(color.FgGreen, color.Bold).Println("✓ Decay pass completed")
			color.New(color.FgCyan).Printf("  scanned: %d\n", summary.Scanned)
			color.New(color.FgCyan).Printf("  updated: %d\n", summary.Updated)

			return nil
		},
	}
}

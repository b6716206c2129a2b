package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/mnemon/pkg/cli/config"
	httpctrl "github.com/secmon-lab/mnemon/pkg/controller/http"
	"github.com/secmon-lab/mnemon/pkg/service/embedding"
	"github.com/secmon-lab/mnemon/pkg/service/evolution"
	"github.com/secmon-lab/mnemon/pkg/service/extract"
	"github.com/secmon-lab/mnemon/pkg/service/linker"
	"github.com/secmon-lab/mnemon/pkg/service/worker"
	"github.com/secmon-lab/mnemon/pkg/usecase"
	"github.com/secmon-lab/mnemon/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var decayInterval time.Duration
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var engineCfg config.Engine

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MNEMON_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "decay-interval",
			Usage:       "Interval of the in-process decay worker (0 disables it, use an external scheduler instead)",
			Value:       0,
			Sources:     cli.EnvVars("MNEMON_DECAY_INTERVAL"),
			Destination: &decayInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
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

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required: the memory engine cannot run without an LLM")
			}

			embedder, err := embedding.New(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize embedding service")
			}
			extractor, err := extract.New(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize extraction service")
			}
			linkJudge, err := linker.New(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize link judgment service")
			}
			evolutionJudge, err := evolution.New(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize evolution judgment service")
			}

			uc := usecase.New(repo,
				usecase.WithEmbedder(embedder),
				usecase.WithExtractor(extractor),
				usecase.WithLinkJudge(linkJudge),
				usecase.WithEvolutionJudge(evolutionJudge),
				usecase.WithEngineConfig(engine),
			)

			// Default is external scheduling via POST /api/decay or the
			// decay command; the worker is opt-in
			var decayWorker *worker.DecayWorker
			if decayInterval > 0 {
				decayWorker = worker.NewDecayWorker(uc, decayInterval)
				if err := decayWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start decay worker")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "engine", engineCfg)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if decayWorker != nil {
					decayWorker.Stop()
				}

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

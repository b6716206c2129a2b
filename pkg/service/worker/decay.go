package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"github.com/secmon-lab/mnemon/pkg/utils/logging"
)

// DecayApplier applies the forgetting curve to every stored note
type DecayApplier interface {
	ApplyForgettingCurve(ctx context.Context) (*model.DecaySummary, error)
}

// DecayWorker periodically re-applies the forgetting curve so that the
// importance of unused notes keeps fading between retrievals.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type DecayWorker struct {
	applier  DecayApplier
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewDecayWorker creates a new worker for periodic importance decay
func NewDecayWorker(applier DecayApplier, interval time.Duration) *DecayWorker {
	return &DecayWorker{
		applier:  applier,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background decay loop
// - Initial pass and periodic passes both run in a background goroutine
// - Does not block server startup
func (w *DecayWorker) Start(ctx context.Context) error {
	logging.Default().Info("Decay worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *DecayWorker) Stop() {
	logging.Default().Info("Decay worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Decay worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *DecayWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Initial pass (runs in goroutine, does not block server startup)
	w.apply(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.apply(ctx)

		case <-w.stopCh:
			logging.Default().Info("Decay worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Decay worker context cancelled")
			return
		}
	}
}

// apply performs a single decay pass. Errors are logged, not fatal, so the
// worker always survives until the next tick.
func (w *DecayWorker) apply(ctx context.Context) {
	startTime := time.Now()

	summary, err := w.applier.ApplyForgettingCurve(ctx)
	if err != nil {
		logging.Default().Error("Decay pass failed (will retry next interval)",
			"error", err.Error())
		return
	}

	logging.Default().Info("Decay pass completed",
		"scanned", summary.Scanned,
		"updated", summary.Updated,
		"duration", time.Since(startTime).String())
}

package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"github.com/secmon-lab/mnemon/pkg/service/worker"
)

type mockApplier struct {
	calls atomic.Int64
	err   error
}

func (m *mockApplier) ApplyForgettingCurve(ctx context.Context) (*model.DecaySummary, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return &model.DecaySummary{Scanned: 1}, nil
}

func TestDecayWorker(t *testing.T) {
	t.Run("runs an initial pass and periodic passes", func(t *testing.T) {
		applier := &mockApplier{}
		w := worker.NewDecayWorker(applier, 20*time.Millisecond)

		gt.NoError(t, w.Start(context.Background())).Required()

		deadline := time.After(2 * time.Second)
		for applier.calls.Load() < 3 {
			select {
			case <-deadline:
				t.Fatal("worker did not run enough passes")
			case <-time.After(10 * time.Millisecond):
			}
		}

		w.Stop()
	})

	t.Run("survives a failing pass", func(t *testing.T) {
		applier := &mockApplier{err: goerr.New("storage unavailable")}
		w := worker.NewDecayWorker(applier, 20*time.Millisecond)

		gt.NoError(t, w.Start(context.Background())).Required()

		deadline := time.After(2 * time.Second)
		for applier.calls.Load() < 2 {
			select {
			case <-deadline:
				t.Fatal("worker stopped after a failure")
			case <-time.After(10 * time.Millisecond):
			}
		}

		w.Stop()
	})

	t.Run("stop waits for the loop to finish", func(t *testing.T) {
		applier := &mockApplier{}
		w := worker.NewDecayWorker(applier, time.Hour)

		gt.NoError(t, w.Start(context.Background())).Required()

		done := make(chan struct{})
		go func() {
			w.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Stop did not return")
		}
	})
}

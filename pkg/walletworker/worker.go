// Package walletworker runs the per-wallet drain loop: dequeue and
// dispatch one job, tick every active watcher once, sleep, repeat —
// terminating after an idle timeout so the orchestrator can reap it.
package walletworker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rgbnode/refreshd/pkg/store"
)

// JobHandler is the narrow interface the worker needs from the job
// handler.
type JobHandler interface {
	Handle(ctx context.Context, job *store.Job) error
}

// TransferWatcher is the narrow interface the worker needs from the
// transfer watcher. The bool return reports whether the tick actually
// advanced the watcher, as opposed to a no-op lock-contention skip.
type TransferWatcher interface {
	Tick(ctx context.Context, w *store.Watcher) (bool, error)
}

// Config bounds a Worker's cadence.
type Config struct {
	PollInterval time.Duration
	IdleTimeout  time.Duration
}

// Worker drains one wallet's jobs and watchers until idle.
type Worker struct {
	xpubVan string
	store   store.Store
	handler JobHandler
	watcher TransferWatcher
	cfg     Config
	log     *zap.Logger
}

func New(xpubVan string, s store.Store, handler JobHandler, tw TransferWatcher, cfg Config, log *zap.Logger) *Worker {
	return &Worker{
		xpubVan: xpubVan,
		store:   s,
		handler: handler,
		watcher: tw,
		cfg:     cfg,
		log:     log.With(zap.String("xpub_van", redactXpubVan(xpubVan))),
	}
}

// Run drives the loop until ctx is cancelled or the wallet has been
// idle for longer than cfg.IdleTimeout. It returns nil in both cases
// — idle self-termination is expected behaviour, not an error.
func (w *Worker) Run(ctx context.Context) error {
	lastActivity := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		didWork, err := w.tick(ctx)
		if err != nil {
			w.log.Warn("wallet worker tick failed", zap.Error(err))
		}
		if didWork {
			lastActivity = time.Now()
		}

		if time.Since(lastActivity) > w.cfg.IdleTimeout {
			w.log.Debug("wallet worker idle timeout reached, exiting")
			return nil
		}

		timer := time.NewTimer(w.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (w *Worker) tick(ctx context.Context) (bool, error) {
	didWork := false

	job, err := w.store.DequeueForWallet(ctx, w.xpubVan)
	if err != nil {
		return didWork, err
	}
	if job != nil {
		didWork = true
		handleErr := w.handler.Handle(ctx, job)
		success := handleErr == nil
		errMsg := ""
		if handleErr != nil {
			errMsg = handleErr.Error()
		}
		if err := w.store.CompleteJob(ctx, job.ID, success, errMsg); err != nil {
			return didWork, err
		}
	}

	watchers, err := w.store.ListActiveWatchersForWallet(ctx, w.xpubVan)
	if err != nil {
		return didWork, err
	}
	for _, watcherRow := range watchers {
		advanced, err := w.watcher.Tick(ctx, watcherRow)
		if err != nil {
			w.log.Warn("watcher tick failed", zap.Error(err), zap.String("recipient_id", watcherRow.RecipientID))
		}
		if advanced {
			didWork = true
		}
	}

	return didWork, nil
}

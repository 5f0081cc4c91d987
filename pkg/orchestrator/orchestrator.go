// Package orchestrator runs the single long-lived process that scans
// the store for wallets needing work and spawns/supervises one wallet
// worker per such wallet, subject to a hard cap.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rgbnode/refreshd/internal/metrics"
	"github.com/rgbnode/refreshd/pkg/store"
)

// Worker is the narrow interface the orchestrator needs from a wallet
// worker: run until told to stop.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFactory builds a Worker bound to one wallet.
type WorkerFactory func(xpubVan string) Worker

// Config bounds the orchestrator's own cadence, independent of any
// wallet worker's.
type Config struct {
	PollInterval      time.Duration
	MaxWalletWorkers  int
	ReapInterval      time.Duration
	HeartbeatInterval time.Duration
	EnableRecovery    bool
}

type supervisedWorker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Orchestrator supervises one wallet worker per wallet needing work.
type Orchestrator struct {
	store   store.Store
	factory WorkerFactory
	cfg     Config
	log     *zap.Logger

	mu       sync.Mutex
	registry map[string]*supervisedWorker

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func New(s store.Store, factory WorkerFactory, cfg Config, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:    s,
		factory:  factory,
		cfg:      cfg,
		log:      log,
		registry: make(map[string]*supervisedWorker),
		stopCh:   make(chan struct{}),
	}
}

// Start initializes state (recovery, when enabled) and launches the
// poll loop in a background goroutine.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.cfg.EnableRecovery {
		n, err := o.store.Recover(ctx)
		if err != nil {
			return err
		}
		o.log.Info("startup recovery complete", zap.Int("jobs_reenqueued", n))
	}

	o.wg.Add(1)
	go o.loop(ctx)
	return nil
}

// Stop signals every supervised worker to exit and blocks until they
// have, or until drainTimeout elapses.
func (o *Orchestrator) Stop(drainTimeout time.Duration) {
	close(o.stopCh)

	o.mu.Lock()
	for _, sw := range o.registry {
		sw.cancel()
	}
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(drainTimeout):
		o.log.Warn("shutdown drain timeout exceeded; exiting anyway")
	}
}

func (o *Orchestrator) loop(ctx context.Context) {
	defer o.wg.Done()

	pollTicker := time.NewTicker(o.cfg.PollInterval)
	defer pollTicker.Stop()
	reapTicker := time.NewTicker(o.cfg.ReapInterval)
	defer reapTicker.Stop()
	heartbeat := time.NewTicker(o.cfg.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-o.stopCh:
			return
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			o.mu.Lock()
			active := len(o.registry)
			o.mu.Unlock()
			o.log.Debug("waiting for jobs", zap.Int("active_wallet_workers", active))
		case <-reapTicker.C:
			o.reap()
		case <-pollTicker.C:
			o.tick(ctx)
		}
	}
}

func (o *Orchestrator) tick(ctx context.Context) {
	wallets, err := o.store.ListWalletsNeedingWork(ctx)
	if err != nil {
		o.log.Warn("list wallets needing work failed", zap.Error(err))
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for _, wallet := range wallets {
		if _, alive := o.registry[wallet.XpubVan]; alive {
			continue
		}
		if len(o.registry) >= o.cfg.MaxWalletWorkers {
			continue
		}
		o.spawnLocked(ctx, wallet.XpubVan)
	}
	metrics.ActiveWalletWorkers.Set(float64(len(o.registry)))
}

// spawnLocked must be called with o.mu held.
func (o *Orchestrator) spawnLocked(parent context.Context, xpubVan string) {
	workerCtx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	o.registry[xpubVan] = &supervisedWorker{cancel: cancel, done: done}

	worker := o.factory(xpubVan)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer close(done)
		if err := worker.Run(workerCtx); err != nil {
			o.log.Warn("wallet worker exited with error", zap.String("xpub_van", xpubVan), zap.Error(err))
		}
	}()
}

// reap drops registry entries whose worker has already exited.
func (o *Orchestrator) reap() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for xpubVan, sw := range o.registry {
		select {
		case <-sw.done:
			delete(o.registry, xpubVan)
		default:
		}
	}
}

// Enqueue is the sole entrypoint an external HTTP layer calls to
// submit work. Callers must treat a returned error as loggable only —
// enqueue failures never fail the originating request.
func (o *Orchestrator) Enqueue(ctx context.Context, wallet store.WalletID, trigger store.Trigger, recipientID, assetID string) (string, error) {
	jobID, err := o.store.Enqueue(ctx, wallet, trigger, recipientID, assetID)
	if err == nil {
		metrics.JobsEnqueued.WithLabelValues(string(trigger)).Inc()
	}
	return jobID, err
}

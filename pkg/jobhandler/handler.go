// Package jobhandler implements the unified wallet-refresh procedure:
// given one job, refresh the wallet under lock, enumerate its assets
// and transfers, create watchers for anything still in flight, and
// cancel anything eligible.
package jobhandler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rgbnode/refreshd/internal/metrics"
	"github.com/rgbnode/refreshd/pkg/apperrors"
	"github.com/rgbnode/refreshd/pkg/nodeclient"
	"github.com/rgbnode/refreshd/pkg/store"
	"github.com/rgbnode/refreshd/pkg/watcher"
)

// Config bounds the handler's lock and TTL behaviour.
type Config struct {
	WalletLockTTL            time.Duration
	WatcherTTL               time.Duration
	InvoiceCreatedWatcherTTL time.Duration
	DurationRcvTransfer      time.Duration
}

const lockHolder = "job-handler"

// Handler dispatches jobs to the unified refresh procedure, or, for
// an invoice_created job with no asset yet, creates a short-lived
// watcher and returns immediately.
type Handler struct {
	store  store.Store
	client nodeclient.Client
	cfg    Config
	log    *zap.Logger
}

func New(s store.Store, client nodeclient.Client, cfg Config, log *zap.Logger) *Handler {
	return &Handler{store: s, client: client, cfg: cfg, log: log}
}

// Handle performs the side-effects required by job's trigger.
func (h *Handler) Handle(ctx context.Context, job *store.Job) error {
	start := time.Now()
	defer func() {
		metrics.JobDuration.WithLabelValues(string(job.Trigger)).Observe(time.Since(start).Seconds())
	}()

	if job.Trigger == store.TriggerInvoiceCreated && job.AssetID == "" {
		return h.createEarlyWatcher(ctx, job)
	}
	return h.refresh(ctx, job)
}

// createEarlyWatcher handles an invoice_created job whose invoice
// does not yet pre-commit an asset: register a short-TTL watcher and
// stop. No refresh is performed since the transfer may not exist on
// any listed asset yet.
func (h *Handler) createEarlyWatcher(ctx context.Context, job *store.Job) error {
	now := time.Now().UTC()
	w := &store.Watcher{
		Wallet:      job.Wallet,
		RecipientID: job.RecipientID,
		Status:      store.WatcherWatching,
		ExpiresAt:   now.Add(h.cfg.InvoiceCreatedWatcherTTL),
		CreatedAt:   now,
	}
	if err := h.store.CreateWatcher(ctx, w); err != nil {
		return err
	}
	metrics.WatchersCreated.Inc()
	return nil
}

// refresh runs the unified refresh procedure: acquire the wallet
// lock, resync, enumerate transfers across the detached list and
// every known asset, create watchers for anything non-terminal, and
// cancel anything the predicate licenses.
func (h *Handler) refresh(ctx context.Context, job *store.Job) error {
	acquired, err := h.store.AcquireLock(ctx, job.Wallet.XpubVan, lockHolder, h.cfg.WalletLockTTL)
	if err != nil {
		return err
	}
	if !acquired {
		h.log.Debug("job skipped: wallet lock held", zap.String("job_id", job.ID))
		metrics.LockContention.WithLabelValues("job-handler").Inc()
		return nil
	}
	defer func() {
		if err := h.store.ReleaseLock(ctx, job.Wallet.XpubVan, lockHolder); err != nil {
			h.log.Warn("release wallet lock", zap.Error(err))
		}
	}()

	if err := h.client.Refresh(ctx, job.Wallet); err != nil {
		return err
	}

	detached, err := h.client.ListTransfers(ctx, job.Wallet, "")
	if err != nil {
		return err
	}

	assets, err := h.client.ListAssets(ctx, job.Wallet)
	if err != nil {
		return err
	}

	transfers := append([]nodeclient.Transfer{}, detached...)
	for _, asset := range assets {
		assetTransfers, err := h.client.ListTransfers(ctx, job.Wallet, asset.AssetID)
		if err != nil {
			return err
		}
		transfers = append(transfers, assetTransfers...)
	}

	now := time.Now().UTC()
	for _, t := range transfers {
		if !t.TerminalStatus() {
			if err := h.createOrKeepWatcher(ctx, job.Wallet, t); err != nil {
				return err
			}
		}

		if watcher.CancellationEligible(t, now, h.cfg.DurationRcvTransfer) {
			if err := h.client.FailTransfers(ctx, job.Wallet, t.BatchTransferIdx); err != nil {
				h.log.Warn("failtransfers call failed", zap.Error(err), zap.String("recipient_id", t.RecipientID))
			} else {
				metrics.CancellationsInvoked.Inc()
			}
		}
	}

	return nil
}

func (h *Handler) createOrKeepWatcher(ctx context.Context, wallet store.WalletID, t nodeclient.Transfer) error {
	now := time.Now().UTC()
	w := &store.Watcher{
		Wallet:      wallet,
		RecipientID: t.RecipientID,
		AssetID:     t.AssetID,
		Status:      store.WatcherWatching,
		ExpiresAt:   now.Add(h.cfg.WatcherTTL),
		CreatedAt:   now,
	}
	if err := h.store.CreateWatcher(ctx, w); err != nil {
		return apperrors.Transient(err, "create watcher for transfer")
	}
	metrics.WatchersCreated.Inc()
	return nil
}

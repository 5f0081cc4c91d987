package watcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rgbnode/refreshd/internal/metrics"
	"github.com/rgbnode/refreshd/pkg/nodeclient"
	"github.com/rgbnode/refreshd/pkg/store"
)

// Config bounds a Watcher's lock and cancellation behaviour.
type Config struct {
	WalletLockTTL       time.Duration
	DurationRcvTransfer time.Duration
}

// Watcher ticks transfer-watcher rows one at a time. It holds no
// per-watcher state between calls — every tick is self-contained,
// matching the state machine in its own row.
type Watcher struct {
	store  store.Store
	client nodeclient.Client
	cfg    Config
	log    *zap.Logger
}

func New(s store.Store, client nodeclient.Client, cfg Config, log *zap.Logger) *Watcher {
	return &Watcher{store: s, client: client, cfg: cfg, log: log}
}

// lockHolder identifies this process's lock acquisitions; any
// non-empty, stable value works since the lock is keyed by wallet,
// not by holder.
const lockHolder = "transfer-watcher"

// Tick performs exactly one state-machine step for w, per the
// contract: expiry check first (no lock required), then a
// lock-guarded refresh-and-observe pass. The bool return reports
// whether the tick actually advanced the watcher; a lock-contention
// skip reports false so the caller's idle tracking doesn't mistake a
// no-op for real work.
func (tw *Watcher) Tick(ctx context.Context, w *store.Watcher) (bool, error) {
	now := time.Now().UTC()

	if w.ExpiresAt.Before(now) {
		return true, tw.expire(ctx, w, now)
	}

	acquired, err := tw.store.AcquireLock(ctx, w.Wallet.XpubVan, lockHolder, tw.cfg.WalletLockTTL)
	if err != nil {
		return false, err
	}
	if !acquired {
		tw.log.Debug("watcher tick skipped: wallet lock held", zap.String("recipient_id", w.RecipientID))
		return false, nil
	}
	defer func() {
		if err := tw.store.ReleaseLock(ctx, w.Wallet.XpubVan, lockHolder); err != nil {
			tw.log.Warn("release wallet lock", zap.Error(err))
		}
	}()

	if err := tw.client.Refresh(ctx, w.Wallet); err != nil {
		return true, err
	}
	w.RefreshCount++

	transfer, found, err := tw.findTransfer(ctx, w)
	if err != nil {
		return true, err
	}
	if !found {
		return true, tw.store.UpdateWatcher(ctx, w)
	}
	if w.AssetID == "" && transfer.AssetID != "" {
		w.AssetID = transfer.AssetID
	}

	if transfer.TerminalStatus() {
		w.Status = store.WatcherStatus(transfer.WatcherStatusFor())
		metrics.WatchersResolved.WithLabelValues(string(w.Status)).Inc()
		return true, tw.store.UpdateWatcher(ctx, w)
	}

	if CancellationEligible(transfer, now, tw.cfg.DurationRcvTransfer) {
		if err := tw.client.FailTransfers(ctx, w.Wallet, transfer.BatchTransferIdx); err != nil {
			tw.log.Warn("failtransfers call failed", zap.Error(err), zap.String("recipient_id", w.RecipientID))
		}
		w.Status = store.WatcherExpired
		metrics.WatchersResolved.WithLabelValues(string(w.Status)).Inc()
	}

	return true, tw.store.UpdateWatcher(ctx, w)
}

// expire handles a watcher whose expires_at has already passed: it
// tries once, without a lock, to observe and cancel the underlying
// transfer, then marks the watcher expired regardless of the outcome.
func (tw *Watcher) expire(ctx context.Context, w *store.Watcher, now time.Time) error {
	transfer, found, err := tw.findTransfer(ctx, w)
	if err == nil && found && CancellationEligible(transfer, now, tw.cfg.DurationRcvTransfer) {
		if err := tw.client.FailTransfers(ctx, w.Wallet, transfer.BatchTransferIdx); err != nil {
			tw.log.Warn("failtransfers call failed on expiry", zap.Error(err), zap.String("recipient_id", w.RecipientID))
		}
	}
	w.Status = store.WatcherExpired
	metrics.WatchersResolved.WithLabelValues(string(w.Status)).Inc()
	return tw.store.UpdateWatcher(ctx, w)
}

// findTransfer looks up w's transfer by recipient_id, searching the
// known asset first (if recorded), then the detached list, then every
// listed asset in turn.
func (tw *Watcher) findTransfer(ctx context.Context, w *store.Watcher) (nodeclient.Transfer, bool, error) {
	if w.AssetID != "" {
		if t, found, err := tw.searchAsset(ctx, w, w.AssetID); err != nil || found {
			return t, found, err
		}
	}

	if t, found, err := tw.searchAsset(ctx, w, ""); err != nil || found {
		return t, found, err
	}

	assets, err := tw.client.ListAssets(ctx, w.Wallet)
	if err != nil {
		return nodeclient.Transfer{}, false, err
	}
	for _, asset := range assets {
		if t, found, err := tw.searchAsset(ctx, w, asset.AssetID); err != nil || found {
			return t, found, err
		}
	}
	return nodeclient.Transfer{}, false, nil
}

func (tw *Watcher) searchAsset(ctx context.Context, w *store.Watcher, assetID string) (nodeclient.Transfer, bool, error) {
	transfers, err := tw.client.ListTransfers(ctx, w.Wallet, assetID)
	if err != nil {
		return nodeclient.Transfer{}, false, err
	}
	for _, t := range transfers {
		if t.RecipientID == w.RecipientID {
			return t, true, nil
		}
	}
	return nodeclient.Transfer{}, false, nil
}

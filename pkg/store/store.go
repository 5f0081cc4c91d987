package store

import (
	"context"
	"time"
)

// Store is the persistence boundary for jobs, watchers, and wallet
// locks. Narrow enough that the orchestrator, wallet worker, and job
// handler each only need the methods they actually call.
type Store interface {
	// Enqueue inserts a new pending job. Returns the generated job ID.
	Enqueue(ctx context.Context, wallet WalletID, trigger Trigger, recipientID, assetID string) (string, error)

	// DequeueForWallet atomically claims the oldest pending job for a
	// wallet using SELECT ... FOR UPDATE SKIP LOCKED, marking it
	// processing. Returns (nil, nil) when there is nothing to claim.
	DequeueForWallet(ctx context.Context, xpubVan string) (*Job, error)

	// CompleteJob marks a job completed or failed. On failure it bumps
	// Attempts and records lastErr; once Attempts reaches MaxRetries
	// the job is marked failed regardless of the requested status.
	CompleteJob(ctx context.Context, jobID string, success bool, lastErr string) error

	// ListWalletsNeedingWork returns the distinct set of wallets that
	// currently have at least one pending job or at least one watcher
	// in the watching state.
	ListWalletsNeedingWork(ctx context.Context) ([]WalletID, error)

	// CreateWatcher inserts a new watcher for (xpub_van, recipient_id).
	// A pre-existing row for the same pair is left untouched: this is
	// an idempotent no-op, not an upsert.
	CreateWatcher(ctx context.Context, w *Watcher) error

	// ListActiveWatchers returns every watcher still in the watching
	// state across all wallets.
	ListActiveWatchers(ctx context.Context) ([]*Watcher, error)

	// ListActiveWatchersForWallet returns watching-state watchers
	// scoped to one wallet, for the wallet worker's per-wallet watcher
	// ticks.
	ListActiveWatchersForWallet(ctx context.Context, xpubVan string) ([]*Watcher, error)

	// UpdateWatcher persists status/refresh-count/expiry changes to an
	// existing watcher row. Never deletes.
	UpdateWatcher(ctx context.Context, w *Watcher) error

	// AcquireLock attempts to take the wallet lock for holder. Returns
	// false, nil when another holder already has an unexpired lock.
	AcquireLock(ctx context.Context, xpubVan, holder string, ttl time.Duration) (bool, error)

	// ReleaseLock releases the lock if held by holder.
	ReleaseLock(ctx context.Context, xpubVan, holder string) error

	// Recover enqueues a TriggerRecovery job for every wallet with a watcher
	// still in the watching state, for startup crash recovery. It
	// does not touch jobs or any watcher not in that state.
	Recover(ctx context.Context) (int, error)
}

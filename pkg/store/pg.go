package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rgbnode/refreshd/pkg/apperrors"
)

// defaultMaxRetries is used when a caller constructs a pgStore
// without a configured retry ceiling (e.g. in tests exercising
// retry-agnostic behaviour).
const defaultMaxRetries = 10

// pgStore is the bun-backed Store implementation.
type pgStore struct {
	db         *bun.DB
	maxRetries int
}

// NewPGStore wraps an already-connected bun.DB as a Store. maxRetries
// is stamped onto every job Enqueue creates; a non-positive value
// falls back to defaultMaxRetries.
func NewPGStore(db *bun.DB, maxRetries int) Store {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &pgStore{db: db, maxRetries: maxRetries}
}

func (s *pgStore) Enqueue(ctx context.Context, wallet WalletID, trigger Trigger, recipientID, assetID string) (string, error) {
	dao := toJobDao(&Job{
		ID:          uuid.NewString(),
		Wallet:      wallet,
		Trigger:     trigger,
		RecipientID: recipientID,
		AssetID:     assetID,
		Status:      JobPending,
		MaxRetries:  s.maxRetries,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	})

	if _, err := s.db.NewInsert().Model(dao).Exec(ctx); err != nil {
		return "", apperrors.Transient(err, "enqueue job")
	}
	return dao.ID, nil
}

// DequeueForWallet claims the oldest pending job for the wallet with
// SELECT ... FOR UPDATE SKIP LOCKED, so concurrent wallet workers
// never observe the same row as claimable.
func (s *pgStore) DequeueForWallet(ctx context.Context, xpubVan string) (*Job, error) {
	var dao JobDAO

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(&dao).
			Where("xpub_van = ?", xpubVan).
			Where("status = ?", JobPending).
			OrderExpr("created_at ASC").
			Limit(1).
			For("UPDATE SKIP LOCKED").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		dao.Status = string(JobProcessing)
		dao.UpdatedAt = time.Now().UTC()
		_, err = tx.NewUpdate().
			Model(&dao).
			Column("status", "updated_at").
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, apperrors.Transient(err, "dequeue job for wallet")
	}
	if dao.ID == "" {
		return nil, nil
	}
	return toJob(&dao), nil
}

// CompleteJob marks a job completed or failed. A failure bumps
// Attempts; once Attempts reaches MaxRetries the job becomes
// permanently failed regardless of the success flag passed by a
// subsequent call (there shouldn't be one, but the store stays
// defensive about it rather than silently resurrecting a job).
func (s *pgStore) CompleteJob(ctx context.Context, jobID string, success bool, lastErr string) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var dao JobDAO
		if err := tx.NewSelect().Model(&dao).Where("id = ?", jobID).For("UPDATE").Scan(ctx); err != nil {
			return err
		}
		if dao.Status == string(JobFailed) {
			return nil
		}

		dao.UpdatedAt = time.Now().UTC()
		dao.LastError = lastErr

		if success {
			dao.Status = string(JobCompleted)
		} else {
			dao.Attempts++
			if dao.Attempts >= dao.MaxRetries {
				dao.Status = string(JobFailed)
			} else {
				dao.Status = string(JobPending)
			}
		}

		_, err := tx.NewUpdate().
			Model(&dao).
			Column("status", "attempts", "last_error", "updated_at").
			WherePK().
			Exec(ctx)
		return err
	})
}

// ListWalletsNeedingWork returns the union of wallets with a pending
// job and wallets with a still-watching transfer watcher: either one
// alone is enough for a wallet to need a worker, so a wallet whose
// only outstanding work is an active watcher must not be dropped just
// because it has no pending job right now.
func (s *pgStore) ListWalletsNeedingWork(ctx context.Context) ([]WalletID, error) {
	var jobDaos []JobDAO
	if err := s.db.NewSelect().
		Model(&jobDaos).
		ColumnExpr("DISTINCT xpub_van, xpub_col, master_fingerprint").
		Where("status = ?", JobPending).
		Scan(ctx); err != nil {
		return nil, apperrors.Transient(err, "list wallets needing work: pending jobs")
	}

	var watcherDaos []WatcherDAO
	if err := s.db.NewSelect().
		Model(&watcherDaos).
		ColumnExpr("DISTINCT xpub_van, xpub_col, master_fingerprint").
		Where("status = ?", WatcherWatching).
		Scan(ctx); err != nil {
		return nil, apperrors.Transient(err, "list wallets needing work: watching watchers")
	}

	seen := make(map[WalletID]struct{}, len(jobDaos)+len(watcherDaos))
	wallets := make([]WalletID, 0, len(jobDaos)+len(watcherDaos))
	add := func(xpubVan, xpubCol, masterFingerprint string) {
		w := WalletID{XpubVan: xpubVan, XpubCol: xpubCol, MasterFingerprint: masterFingerprint}
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		wallets = append(wallets, w)
	}
	for _, d := range jobDaos {
		add(d.XpubVan, d.XpubCol, d.MasterFingerprint)
	}
	for _, d := range watcherDaos {
		add(d.XpubVan, d.XpubCol, d.MasterFingerprint)
	}
	return wallets, nil
}

// CreateWatcher is idempotent: ON CONFLICT on (xpub_van, recipient_id)
// DO NOTHING means a second call for the same pair changes nothing,
// matching the spec's "idempotent no-op on duplicate" requirement.
func (s *pgStore) CreateWatcher(ctx context.Context, w *Watcher) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now

	dao := toWatcherDao(w)
	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (xpub_van, recipient_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return apperrors.Transient(err, "create watcher")
	}
	return nil
}

func (s *pgStore) ListActiveWatchers(ctx context.Context) ([]*Watcher, error) {
	return s.listWatchers(ctx, nil)
}

func (s *pgStore) ListActiveWatchersForWallet(ctx context.Context, xpubVan string) ([]*Watcher, error) {
	return s.listWatchers(ctx, &xpubVan)
}

func (s *pgStore) listWatchers(ctx context.Context, xpubVan *string) ([]*Watcher, error) {
	q := s.db.NewSelect().Model((*WatcherDAO)(nil)).Where("status = ?", WatcherWatching)
	if xpubVan != nil {
		q = q.Where("xpub_van = ?", *xpubVan)
	}

	var daos []WatcherDAO
	if err := q.Scan(ctx, &daos); err != nil {
		return nil, apperrors.Transient(err, "list active watchers")
	}

	watchers := make([]*Watcher, 0, len(daos))
	for i := range daos {
		watchers = append(watchers, toWatcher(&daos[i]))
	}
	return watchers, nil
}

func (s *pgStore) UpdateWatcher(ctx context.Context, w *Watcher) error {
	w.UpdatedAt = time.Now().UTC()
	dao := toWatcherDao(w)
	_, err := s.db.NewUpdate().
		Model(dao).
		Column("status", "refresh_count", "expires_at", "updated_at", "asset_id").
		WherePK().
		Exec(ctx)
	if err != nil {
		return apperrors.Transient(err, "update watcher")
	}
	return nil
}

// AcquireLock first clears any expired lock row, then attempts an
// idempotent insert. A lock is held only while now < expires_at: a
// lock whose expires_at equals now is treated as expired and cleared.
func (s *pgStore) AcquireLock(ctx context.Context, xpubVan, holder string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	acquired := false

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*WalletLockDAO)(nil)).
			Where("xpub_van = ?", xpubVan).
			Where("expires_at <= ?", now).
			Exec(ctx); err != nil {
			return err
		}

		dao := toWalletLockDao(&WalletLock{
			XpubVan:   xpubVan,
			Holder:    holder,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		})
		res, err := tx.NewInsert().
			Model(dao).
			On("CONFLICT (xpub_van) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		acquired = n > 0
		return nil
	})
	if err != nil {
		return false, apperrors.Transient(err, "acquire wallet lock")
	}
	return acquired, nil
}

func (s *pgStore) ReleaseLock(ctx context.Context, xpubVan, holder string) error {
	_, err := s.db.NewDelete().
		Model((*WalletLockDAO)(nil)).
		Where("xpub_van = ?", xpubVan).
		Where("holder = ?", holder).
		Exec(ctx)
	if err != nil {
		return apperrors.Transient(err, "release wallet lock")
	}
	return nil
}

// Recover enqueues a recovery-triggered job for every wallet that
// still has a watching-state watcher. It deliberately ignores jobs
// left in processing (a crashed worker's in-flight job stays in that
// state; the recovery job enqueued for the wallet's watchers refreshes
// the wallet again, and a wallet with no watchers gets no new job) and
// ignores watchers in any terminal state.
func (s *pgStore) Recover(ctx context.Context) (int, error) {
	var daos []WatcherDAO
	err := s.db.NewSelect().
		Model(&daos).
		ColumnExpr("DISTINCT xpub_van, xpub_col, master_fingerprint").
		Where("status = ?", WatcherWatching).
		Scan(ctx)
	if err != nil {
		return 0, apperrors.Transient(err, "recover: list watching wallets")
	}

	count := 0
	for _, d := range daos {
		wallet := WalletID{XpubVan: d.XpubVan, XpubCol: d.XpubCol, MasterFingerprint: d.MasterFingerprint}
		if _, err := s.Enqueue(ctx, wallet, TriggerRecovery, "", ""); err != nil {
			return count, fmt.Errorf("recover wallet %s: %w", wallet.XpubVan, err)
		}
		count++
	}
	return count, nil
}
